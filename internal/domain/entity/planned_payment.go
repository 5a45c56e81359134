package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlannedPayment schedules a payment towards a debt record for a given month
type PlannedPayment struct {
	ID        uuid.UUID                 `gorm:"type:uuid;primary_key" json:"id"`
	DebtID    uuid.UUID                 `gorm:"type:uuid;not null;index" json:"debt_id"`
	Month     int                       `gorm:"not null" json:"month"`
	Year      int                       `gorm:"not null" json:"year"`
	Amount    decimal.Decimal           `gorm:"type:numeric(18,4);not null" json:"amount"`
	Status    enum.PlannedPaymentStatus `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`

	// Relationships
	Debt *DebtRecord `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
}

// BeforeCreate generates a UUID before creating a new planned payment
func (p *PlannedPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PlannedPayment model
func (PlannedPayment) TableName() string {
	return "planned_payments"
}
