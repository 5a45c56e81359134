package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesTotals(ctx context.Context, year int) (*domainRepo.TransactionTotals, error) {
	return r.totals(ctx, enum.TransactionTypeSale, year)
}

func (r *reportRepository) PurchaseTotals(ctx context.Context, year int) (*domainRepo.TransactionTotals, error) {
	return r.totals(ctx, enum.TransactionTypePurchase, year)
}

func (r *reportRepository) SalesGrossProfit(ctx context.Context, year int) (decimal.Decimal, error) {
	var result struct {
		GrossProfit decimal.Decimal
	}
	err := DB(ctx, r.db).Model(&entity.Transaction{}).
		Select("COALESCE(SUM((unit_price - unit_cost) * quantity), 0) AS gross_profit").
		Where("type = ? AND origin_year = ?", enum.TransactionTypeSale, year).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.GrossProfit, nil
}

func (r *reportRepository) totals(ctx context.Context, txType enum.TransactionType, year int) (*domainRepo.TransactionTotals, error) {
	var result domainRepo.TransactionTotals
	err := DB(ctx, r.db).Model(&entity.Transaction{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(total), 0) AS total,
			COALESCE(SUM(upfront), 0) AS upfront,
			COALESCE(SUM(installment_amount), 0) AS installment_amount,
			COALESCE(AVG(margin), 0) AS average_margin`).
		Where("type = ? AND origin_year = ?", txType, year).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
