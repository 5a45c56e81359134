package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransactionTotals aggregates transactions of one type over a year
type TransactionTotals struct {
	Count             int64           `json:"count"`
	Total             decimal.Decimal `json:"total"`
	Upfront           decimal.Decimal `json:"upfront"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	AverageMargin     decimal.Decimal `json:"average_margin"`
}

// ReportRepository defines interface for reporting aggregation queries
type ReportRepository interface {
	// SalesTotals returns sale aggregates for transactions originating in year
	SalesTotals(ctx context.Context, year int) (*TransactionTotals, error)
	// PurchaseTotals returns purchase aggregates for transactions originating in year
	PurchaseTotals(ctx context.Context, year int) (*TransactionTotals, error)
	// SalesGrossProfit sums (unit price - unit cost) x quantity over the sales
	// originating in year
	SalesGrossProfit(ctx context.Context, year int) (decimal.Decimal, error)
}
