package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *gorm.DB) domainRepo.DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, debt *entity.DebtRecord) error {
	return DB(ctx, r.db).Create(debt).Error
}

func (r *debtRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DebtRecord, error) {
	var debt entity.DebtRecord
	err := DB(ctx, r.db).First(&debt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &debt, err
}

func (r *debtRepository) GetByReference(ctx context.Context, reference string) (*entity.DebtRecord, error) {
	var debt entity.DebtRecord
	err := DB(ctx, r.db).First(&debt, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &debt, err
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return DB(ctx, r.db).Delete(&entity.DebtRecord{}, "id = ?", id).Error
}

func (r *debtRepository) List(ctx context.Context, openOnly bool) ([]entity.DebtRecord, error) {
	var debts []entity.DebtRecord
	query := DB(ctx, r.db)
	if openOnly {
		query = query.Where("remaining > 0")
	}
	err := query.Order("created_at DESC").Find(&debts).Error
	return debts, err
}

func (r *debtRepository) Reduce(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return DB(ctx, r.db).Model(&entity.DebtRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"remaining":    gorm.Expr("CASE WHEN remaining - ? < 0 THEN 0 ELSE remaining - ? END", amount, amount),
			"cash_paid":    gorm.Expr("cash_paid + ?", amount),
			"payment_made": true,
		}).Error
}

func (r *debtRepository) Reset(ctx context.Context, id uuid.UUID) error {
	return DB(ctx, r.db).Model(&entity.DebtRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"remaining":    gorm.Expr("original"),
			"cash_paid":    decimal.Zero,
			"payment_made": false,
		}).Error
}

type plannedPaymentRepository struct {
	db *gorm.DB
}

// NewPlannedPaymentRepository creates a new planned payment repository
func NewPlannedPaymentRepository(db *gorm.DB) domainRepo.PlannedPaymentRepository {
	return &plannedPaymentRepository{db: db}
}

func (r *plannedPaymentRepository) Create(ctx context.Context, payment *entity.PlannedPayment) error {
	return DB(ctx, r.db).Create(payment).Error
}

func (r *plannedPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PlannedPayment, error) {
	var payment entity.PlannedPayment
	err := DB(ctx, r.db).Preload("Debt").First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *plannedPaymentRepository) List(ctx context.Context, year *int) ([]entity.PlannedPayment, error) {
	var payments []entity.PlannedPayment
	query := DB(ctx, r.db).Preload("Debt")
	if year != nil {
		query = query.Where("year = ?", *year)
	}
	err := query.Order("year ASC, month ASC").Find(&payments).Error
	return payments, err
}

func (r *plannedPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PlannedPaymentStatus) error {
	return DB(ctx, r.db).Model(&entity.PlannedPayment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *plannedPaymentRepository) CountByDebt(ctx context.Context, debtID uuid.UUID) (int64, error) {
	var count int64
	err := DB(ctx, r.db).Model(&entity.PlannedPayment{}).
		Where("debt_id = ?", debtID).
		Count(&count).Error
	return count, err
}

func (r *plannedPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return DB(ctx, r.db).Delete(&entity.PlannedPayment{}, "id = ?", id).Error
}

type expectedPaymentRepository struct {
	db *gorm.DB
}

// NewExpectedPaymentRepository creates a new expected payment repository
func NewExpectedPaymentRepository(db *gorm.DB) domainRepo.ExpectedPaymentRepository {
	return &expectedPaymentRepository{db: db}
}

func (r *expectedPaymentRepository) Create(ctx context.Context, payment *entity.ExpectedPayment) error {
	return DB(ctx, r.db).Create(payment).Error
}

func (r *expectedPaymentRepository) ListOpen(ctx context.Context) ([]entity.ExpectedPayment, error) {
	var payments []entity.ExpectedPayment
	err := DB(ctx, r.db).
		Where("open_amount > 0").
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

// ListOverdue treats a record that was never paid as last paid when it was created.
func (r *expectedPaymentRepository) ListOverdue(ctx context.Context, paymentType enum.PaymentType, cutoff time.Time) ([]entity.ExpectedPayment, error) {
	var payments []entity.ExpectedPayment
	err := DB(ctx, r.db).
		Where("payment_type = ? AND open_amount > 0", paymentType).
		Where("(last_payment_at IS NOT NULL AND last_payment_at < ?) OR (last_payment_at IS NULL AND created_at < ?)", cutoff, cutoff).
		Order("last_payment_at ASC").
		Find(&payments).Error
	return payments, err
}
