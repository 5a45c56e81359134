package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is a seller whose sales are tracked over trailing windows
type Employee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Position     string          `gorm:"size:100" json:"position,omitempty"`
	LastMonth    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"last_month"`
	Last3Months  decimal.Decimal `gorm:"column:last_3_months;type:numeric(18,4);not null;default:0" json:"last_3_months"`
	Last6Months  decimal.Decimal `gorm:"column:last_6_months;type:numeric(18,4);not null;default:0" json:"last_6_months"`
	Last12Months decimal.Decimal `gorm:"column:last_12_months;type:numeric(18,4);not null;default:0" json:"last_12_months"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
