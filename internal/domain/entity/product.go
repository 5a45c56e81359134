package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stock item identified by its code
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code              string          `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name              string          `gorm:"size:255" json:"name,omitempty"`
	Stock             decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"stock"`
	Cost              decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"cost"`
	Price             decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"price"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty"`
	RecentActivity    int             `gorm:"not null;default:0" json:"recent_activity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
