package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DebtRepository defines the interface for supplier debt data operations
type DebtRepository interface {
	Create(ctx context.Context, debt *entity.DebtRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DebtRecord, error)
	GetByReference(ctx context.Context, reference string) (*entity.DebtRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, openOnly bool) ([]entity.DebtRecord, error)
	// Reduce lowers the remaining amount clamped at zero and records the cash paid
	Reduce(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// Reset restores the remaining amount to the original and clears the payment
	Reset(ctx context.Context, id uuid.UUID) error
}

// PlannedPaymentRepository defines the interface for planned debt payments
type PlannedPaymentRepository interface {
	Create(ctx context.Context, payment *entity.PlannedPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PlannedPayment, error)
	List(ctx context.Context, year *int) ([]entity.PlannedPayment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PlannedPaymentStatus) error
	CountByDebt(ctx context.Context, debtID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpectedPaymentRepository defines the interface for manually entered receivables
type ExpectedPaymentRepository interface {
	Create(ctx context.Context, payment *entity.ExpectedPayment) error
	// ListOpen returns records with a positive open amount
	ListOpen(ctx context.Context) ([]entity.ExpectedPayment, error)
	// ListOverdue returns open records of the given type whose last payment is before cutoff
	ListOverdue(ctx context.Context, paymentType enum.PaymentType, cutoff time.Time) ([]entity.ExpectedPayment, error)
}
