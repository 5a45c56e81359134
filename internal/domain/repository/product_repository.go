package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByCode matches the code case-insensitively
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, params *pagination.Params, search string) ([]entity.Product, int64, error)
	// AtomicDecrementStock decrements stock only if sufficient, bumps the
	// recent-activity counter and stamps the transaction time.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock.
	AtomicDecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, at time.Time) (bool, error)
	// AdjustStock adds delta (which may be negative) to the stock
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	// UpsertPurchase adds quantity to the product with this code, replacing its
	// cost basis, or creates it with cost = unitCost if it does not exist.
	UpsertPurchase(ctx context.Context, code string, quantity decimal.Decimal, unitCost decimal.Decimal, at time.Time) error
}
