package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentPlanRepository defines the interface for payment plan data operations
type PaymentPlanRepository interface {
	// Create stores the plan together with its installments
	Create(ctx context.Context, plan *entity.PaymentPlan) error
	// GetByID loads the plan with installments ordered by sequence
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentPlan, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.PaymentPlan, error)
	List(ctx context.Context, status *enum.PlanStatus) ([]entity.PaymentPlan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PlanStatus) error
	// CountByStatus counts plans with status originating in year
	CountByStatus(ctx context.Context, status enum.PlanStatus, year int) (int64, error)
	// Delete removes the installments and then the plan
	Delete(ctx context.Context, id uuid.UUID) error
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error)
	// FirstUnpaid returns the lowest-numbered unpaid installment of the plan
	FirstUnpaid(ctx context.Context, planID uuid.UUID) (*entity.Installment, error)
	// LastPaid returns the highest-numbered paid installment of the plan
	LastPaid(ctx context.Context, planID uuid.UUID) (*entity.Installment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal, at time.Time) error
	MarkUnpaid(ctx context.Context, id uuid.UUID) error
	CountUnpaid(ctx context.Context, planID uuid.UUID) (int64, error)
}
