package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtRecord is an amount the shop owes a supplier
type DebtRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Counterparty string          `gorm:"size:255;not null;index" json:"counterparty"`
	Reference    string          `gorm:"size:100;index" json:"reference"`
	Remaining    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"remaining"`
	Original     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"original"`
	CashPaid     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"cash_paid"`
	PaymentMade  bool            `gorm:"not null" json:"payment_made"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new debt record
func (d *DebtRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DebtRecord model
func (DebtRecord) TableName() string {
	return "debt_records"
}

// ExpectedPayment is a manually entered receivable kept alongside payment plans
type ExpectedPayment struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Counterparty  string           `gorm:"size:255;not null;index" json:"counterparty"`
	Reference     string           `gorm:"size:100;index" json:"reference"`
	OpenAmount    decimal.Decimal  `gorm:"type:numeric(18,4);not null" json:"open_amount"`
	Original      decimal.Decimal  `gorm:"type:numeric(18,4);not null" json:"original"`
	PaymentType   enum.PaymentType `gorm:"size:50;not null" json:"payment_type"`
	PaymentMade   bool             `gorm:"not null" json:"payment_made"`
	LastPaymentAt *time.Time       `gorm:"index" json:"last_payment_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new expected payment
func (e *ExpectedPayment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ExpectedPayment model
func (ExpectedPayment) TableName() string {
	return "expected_payments"
}
