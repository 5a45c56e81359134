package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	// GetByName matches the name case-insensitively
	GetByName(ctx context.Context, name string) (*entity.Employee, error)
	List(ctx context.Context) ([]entity.Employee, error)
	// AddToRollingTotals adds delta to all four trailing totals, clamping each at zero
	AddToRollingTotals(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}
