package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return DB(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := DB(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := DB(ctx, r.db).
		Where("LOWER(code) = LOWER(?)", strings.TrimSpace(code)).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) List(ctx context.Context, params *pagination.Params, search string) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := DB(ctx, r.db).Model(&entity.Product{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Normalize()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("code ASC").
		Find(&products).Error

	return products, total, err
}

// AtomicDecrementStock atomically decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - n WHERE id = ? AND stock >= n
func (r *productRepository) AtomicDecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, at time.Time) (bool, error) {
	result := DB(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":               gorm.Expr("stock - ?", quantity),
			"recent_activity":     gorm.Expr("recent_activity + 1"),
			"last_transaction_at": at,
		})

	if result.Error != nil {
		return false, result.Error
	}

	// If no rows were affected, insufficient stock
	return result.RowsAffected > 0, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return DB(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

// UpsertPurchase inserts the product or, on a code conflict, adds the quantity
// and replaces the cost basis.
func (r *productRepository) UpsertPurchase(ctx context.Context, code string, quantity decimal.Decimal, unitCost decimal.Decimal, at time.Time) error {
	product := entity.Product{
		Code:              code,
		Stock:             quantity,
		Cost:              unitCost,
		LastTransactionAt: &at,
		RecentActivity:    1,
	}

	return DB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "stock"}, Value: gorm.Expr("products.stock + ?", quantity)},
			{Column: clause.Column{Name: "cost"}, Value: unitCost},
			{Column: clause.Column{Name: "recent_activity"}, Value: gorm.Expr("products.recent_activity + 1")},
			{Column: clause.Column{Name: "last_transaction_at"}, Value: at},
			{Column: clause.Column{Name: "updated_at"}, Value: at},
		},
	}).Create(&product).Error
}
