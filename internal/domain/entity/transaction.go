package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one sale or purchase of a product
type Transaction struct {
	ID                uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Type              enum.TransactionType `gorm:"not null;index" json:"type"`
	Reference         string               `gorm:"size:100;index" json:"reference,omitempty"`
	ProductCode       string               `gorm:"size:100;not null;index" json:"product_code"`
	Quantity          decimal.Decimal      `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice         decimal.Decimal      `gorm:"type:numeric(18,4);not null" json:"unit_price"`
	UnitCost          decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0" json:"unit_cost"`
	Total             decimal.Decimal      `gorm:"type:numeric(18,4);not null" json:"total"`
	Counterparty      string               `gorm:"size:255;not null" json:"counterparty"`
	PaymentType       enum.PaymentType     `gorm:"size:50" json:"payment_type"`
	Note              string               `gorm:"type:text" json:"note,omitempty"`
	Upfront           decimal.Decimal      `gorm:"type:numeric(18,4);not null" json:"upfront"`
	InstallmentAmount decimal.Decimal      `gorm:"type:numeric(18,4);not null" json:"installment_amount"`
	InstallmentCount  int                  `gorm:"not null;default:0" json:"installment_count"`
	Margin            decimal.Decimal      `gorm:"type:numeric(10,2);not null" json:"margin"`
	PaymentPlanID     *uuid.UUID           `gorm:"type:uuid;index" json:"payment_plan_id,omitempty"`
	OriginMonth       int                  `gorm:"not null" json:"origin_month"`
	OriginYear        int                  `gorm:"not null" json:"origin_year"`

	// Structured sale metadata
	SellerID               *uuid.UUID       `gorm:"type:uuid;index" json:"seller_id,omitempty"`
	SellerName             string           `gorm:"size:255" json:"seller_name,omitempty"`
	Buyer                  string           `gorm:"size:255" json:"buyer,omitempty"`
	IsMailOrder            bool             `gorm:"not null" json:"is_mail_order"`
	UpfrontPaymentType     enum.PaymentType `gorm:"size:50" json:"upfront_payment_type,omitempty"`
	InstallmentPaymentType enum.PaymentType `gorm:"size:50" json:"installment_payment_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// IsSale reports whether the transaction is a sale
func (t *Transaction) IsSale() bool {
	return t.Type == enum.TransactionTypeSale
}

// ResolvedInstallmentPaymentType returns how the installment portion is
// collected, defaulting to cash.
func (t *Transaction) ResolvedInstallmentPaymentType() enum.PaymentType {
	return t.InstallmentPaymentType.OrDefault(enum.PaymentCash)
}

// CardCollected reports whether the installments are settled by a card
// provider rather than collected by the shop.
func (t *Transaction) CardCollected() bool {
	return t.ResolvedInstallmentPaymentType().IsCard() || t.PaymentType.IsCard()
}

// GrossProfit is (unit price - unit cost) x quantity for the cost basis
// recorded at the time of the transaction.
func (t *Transaction) GrossProfit() decimal.Decimal {
	return t.UnitPrice.Sub(t.UnitCost).Mul(t.Quantity)
}

// HasInstallments reports whether part of the total is deferred
func (t *Transaction) HasInstallments() bool {
	return t.InstallmentAmount.IsPositive() && t.InstallmentCount > 0
}
