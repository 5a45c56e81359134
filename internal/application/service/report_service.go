package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService builds yearly summaries and spreadsheet exports
type ReportService struct {
	reportRepo repository.ReportRepository
	planRepo   repository.PaymentPlanRepository
	ledger     *LedgerService
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepository,
	planRepo repository.PaymentPlanRepository,
	ledger *LedgerService,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		planRepo:   planRepo,
		ledger:     ledger,
	}
}

// FinancialSummary aggregates one year of trading. GrossProfit is measured
// against the product cost recorded on each sale; plan counts cover plans
// originating in Year.
type FinancialSummary struct {
	Year           int                           `json:"year"`
	CashFlow       *YearView                     `json:"cash_flow"`
	Sales          *repository.TransactionTotals `json:"sales"`
	Purchases      *repository.TransactionTotals `json:"purchases"`
	GrossProfit    decimal.Decimal               `json:"gross_profit"`
	ActivePlans    int64                         `json:"active_plans"`
	CompletedPlans int64                         `json:"completed_plans"`
}

// Summary returns the financial summary for year
func (s *ReportService) Summary(ctx context.Context, year int) (*FinancialSummary, error) {
	cashFlow, err := s.ledger.ReadYear(ctx, year)
	if err != nil {
		return nil, err
	}
	sales, err := s.reportRepo.SalesTotals(ctx, year)
	if err != nil {
		return nil, err
	}
	purchases, err := s.reportRepo.PurchaseTotals(ctx, year)
	if err != nil {
		return nil, err
	}
	grossProfit, err := s.reportRepo.SalesGrossProfit(ctx, year)
	if err != nil {
		return nil, err
	}
	active, err := s.planRepo.CountByStatus(ctx, enum.PlanStatusActive, year)
	if err != nil {
		return nil, err
	}
	completed, err := s.planRepo.CountByStatus(ctx, enum.PlanStatusCompleted, year)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		Year:           year,
		CashFlow:       cashFlow,
		Sales:          sales,
		Purchases:      purchases,
		GrossProfit:    grossProfit,
		ActivePlans:    active,
		CompletedPlans: completed,
	}, nil
}

const (
	cashFlowSheet = "Cash Flow"
	summarySheet  = "Summary"
)

// ExportLedger writes the year's cash flow and summary as an XLSX workbook
func (s *ReportService) ExportLedger(ctx context.Context, year int, w io.Writer) error {
	summary, err := s.Summary(ctx, year)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cashFlowSheet); err != nil {
		return err
	}
	headers := []string{"Month", "Year", "Inflow", "Outflow", "Net", "Note"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(cashFlowSheet, cell, header); err != nil {
			return err
		}
	}

	for i, m := range summary.CashFlow.Months {
		row := i + 2
		values := []interface{}{
			m.Month,
			m.Year,
			m.Inflow.InexactFloat64(),
			m.Outflow.InexactFloat64(),
			m.Net.InexactFloat64(),
			m.Note,
		}
		if err := f.SetSheetRow(cashFlowSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}
	totalRow := len(summary.CashFlow.Months) + 2
	totals := []interface{}{
		"Total",
		year,
		summary.CashFlow.TotalInflow.InexactFloat64(),
		summary.CashFlow.TotalOutflow.InexactFloat64(),
		summary.CashFlow.Net.InexactFloat64(),
	}
	if err := f.SetSheetRow(cashFlowSheet, fmt.Sprintf("A%d", totalRow), &totals); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Year", year},
		{"Sales", summary.Sales.Count},
		{"Sales total", summary.Sales.Total.InexactFloat64()},
		{"Sales upfront", summary.Sales.Upfront.InexactFloat64()},
		{"Sales on installments", summary.Sales.InstallmentAmount.InexactFloat64()},
		{"Average margin %", summary.Sales.AverageMargin.InexactFloat64()},
		{"Purchases", summary.Purchases.Count},
		{"Purchases total", summary.Purchases.Total.InexactFloat64()},
		{"Gross profit", summary.GrossProfit.InexactFloat64()},
		{"Active plans", summary.ActivePlans},
		{"Completed plans", summary.CompletedPlans},
	}
	for i := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
