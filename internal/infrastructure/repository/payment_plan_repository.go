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

type paymentPlanRepository struct {
	db *gorm.DB
}

// NewPaymentPlanRepository creates a new payment plan repository
func NewPaymentPlanRepository(db *gorm.DB) domainRepo.PaymentPlanRepository {
	return &paymentPlanRepository{db: db}
}

func orderedInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

func (r *paymentPlanRepository) Create(ctx context.Context, plan *entity.PaymentPlan) error {
	return DB(ctx, r.db).Create(plan).Error
}

func (r *paymentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentPlan, error) {
	var plan entity.PaymentPlan
	err := DB(ctx, r.db).
		Preload("Installments", orderedInstallments).
		First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &plan, err
}

// GetByIDs retrieves multiple plans in a single query (prevents N+1)
func (r *paymentPlanRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.PaymentPlan, error) {
	if len(ids) == 0 {
		return []entity.PaymentPlan{}, nil
	}
	var plans []entity.PaymentPlan
	err := DB(ctx, r.db).
		Preload("Installments", orderedInstallments).
		Where("id IN ?", ids).
		Find(&plans).Error
	return plans, err
}

func (r *paymentPlanRepository) List(ctx context.Context, status *enum.PlanStatus) ([]entity.PaymentPlan, error) {
	var plans []entity.PaymentPlan
	query := DB(ctx, r.db).Preload("Installments", orderedInstallments)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *paymentPlanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PlanStatus) error {
	return DB(ctx, r.db).Model(&entity.PaymentPlan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *paymentPlanRepository) CountByStatus(ctx context.Context, status enum.PlanStatus, year int) (int64, error) {
	var count int64
	err := DB(ctx, r.db).Model(&entity.PaymentPlan{}).
		Where("status = ? AND origin_year = ?", status, year).
		Count(&count).Error
	return count, err
}

func (r *paymentPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := DB(ctx, r.db)
	if err := db.Where("plan_id = ?", id).Delete(&entity.Installment{}).Error; err != nil {
		return err
	}
	return db.Delete(&entity.PaymentPlan{}, "id = ?", id).Error
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) domainRepo.InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	var inst entity.Installment
	err := DB(ctx, r.db).First(&inst, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inst, err
}

func (r *installmentRepository) FirstUnpaid(ctx context.Context, planID uuid.UUID) (*entity.Installment, error) {
	var inst entity.Installment
	err := DB(ctx, r.db).
		Where("plan_id = ? AND paid = ?", planID, false).
		Order("sequence ASC").
		First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inst, err
}

func (r *installmentRepository) LastPaid(ctx context.Context, planID uuid.UUID) (*entity.Installment, error) {
	var inst entity.Installment
	err := DB(ctx, r.db).
		Where("plan_id = ? AND paid = ?", planID, true).
		Order("sequence DESC").
		First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inst, err
}

func (r *installmentRepository) MarkPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal, at time.Time) error {
	return DB(ctx, r.db).Model(&entity.Installment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"paid": true, "paid_amount": amount, "paid_at": at}).Error
}

func (r *installmentRepository) MarkUnpaid(ctx context.Context, id uuid.UUID) error {
	return DB(ctx, r.db).Model(&entity.Installment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"paid": false, "paid_amount": decimal.Zero, "paid_at": nil}).Error
}

func (r *installmentRepository) CountUnpaid(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := DB(ctx, r.db).Model(&entity.Installment{}).
		Where("plan_id = ? AND paid = ?", planID, false).
		Count(&count).Error
	return count, err
}
