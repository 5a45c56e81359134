package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerCell accumulates cash inflow and outflow for one month.
// Cells are only ever changed through signed deltas.
type LedgerCell struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Month     int             `gorm:"not null;uniqueIndex:idx_ledger_period" json:"month"`
	Year      int             `gorm:"not null;uniqueIndex:idx_ledger_period;index" json:"year"`
	Inflow    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"inflow"`
	Outflow   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"outflow"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new ledger cell
func (c *LedgerCell) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerCell model
func (LedgerCell) TableName() string {
	return "ledger_cells"
}

// Net returns inflow minus outflow
func (c *LedgerCell) Net() decimal.Decimal {
	return c.Inflow.Sub(c.Outflow)
}
