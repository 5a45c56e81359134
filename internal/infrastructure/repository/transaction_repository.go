package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return DB(ctx, r.db).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := DB(ctx, r.db).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return DB(ctx, r.db).Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := DB(ctx, r.db).Model(&entity.Transaction{})
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(counterparty) LIKE ? OR LOWER(product_code) LIKE ? OR LOWER(reference) LIKE ?",
			like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Normalize()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepository) ListInstallmentSales(ctx context.Context) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := DB(ctx, r.db).
		Where("type = ? AND installment_amount > 0 AND payment_plan_id IS NOT NULL", enum.TransactionTypeSale).
		Order("created_at ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	out := txns[:0]
	for _, t := range txns {
		if !t.ResolvedInstallmentPaymentType().IsCard() {
			out = append(out, t)
		}
	}
	return out, nil
}
