package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentPlan is the installment schedule of one transaction
type PaymentPlan struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"transaction_id,omitempty"`
	Counterparty      string          `gorm:"size:255;not null" json:"counterparty"`
	Total             decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total"`
	Upfront           decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"upfront"`
	InstallmentAmount decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"installment_amount"`
	InstallmentCount  int             `gorm:"not null" json:"installment_count"`
	OriginMonth       int             `gorm:"not null" json:"origin_month"`
	OriginYear        int             `gorm:"not null" json:"origin_year"`
	Status            enum.PlanStatus `gorm:"not null;default:0;index" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	Installments []Installment `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new plan
func (p *PaymentPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentPlan model
func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// Installment is one scheduled portion of a payment plan
type Installment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PlanID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_installment_seq" json:"plan_id"`
	Sequence   int             `gorm:"not null;uniqueIndex:idx_installment_seq" json:"sequence"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"amount"`
	DueMonth   int             `gorm:"not null" json:"due_month"`
	DueYear    int             `gorm:"not null" json:"due_year"`
	Paid       bool            `gorm:"not null;index" json:"paid"`
	PaidAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"paid_amount"`
	PaidAt     *time.Time      `json:"paid_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ReversibleAmount is what a payment posted to the ledger, falling back to the
// scheduled amount for rows paid before partial amounts were recorded.
func (i *Installment) ReversibleAmount() decimal.Decimal {
	if i.PaidAmount.IsPositive() {
		return i.PaidAmount
	}
	return i.Amount
}

// BeforeCreate generates a UUID before creating a new installment
func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Installment model
func (Installment) TableName() string {
	return "installments"
}
