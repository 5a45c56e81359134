package service

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/application/scheduler"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService owns every write to the monthly cash-flow ledger
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repository.LedgerRepository, m *metrics.Metrics, log *zap.Logger) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		metrics:    m,
		log:        log,
	}
}

// Post applies a signed posting to one month. Zero postings are skipped.
func (s *LedgerService) Post(ctx context.Context, posting repository.LedgerPosting) error {
	if posting.InflowDelta.IsZero() && posting.OutflowDelta.IsZero() && posting.NoteMode == repository.NoteKeep {
		return nil
	}
	if !(scheduler.Period{Month: posting.Month, Year: posting.Year}).Valid() {
		return apperror.NewValidationMessage("Ledger period is invalid")
	}

	if err := s.ledgerRepo.Post(ctx, posting); err != nil {
		return err
	}

	if !posting.InflowDelta.IsZero() {
		s.metrics.RecordLedgerPosting("inflow", posting.InflowDelta.InexactFloat64())
	}
	if !posting.OutflowDelta.IsZero() {
		s.metrics.RecordLedgerPosting("outflow", posting.OutflowDelta.InexactFloat64())
	}

	s.log.Debug("ledger posting",
		zap.Int("month", posting.Month),
		zap.Int("year", posting.Year),
		zap.String("inflow_delta", posting.InflowDelta.String()),
		zap.String("outflow_delta", posting.OutflowDelta.String()),
	)
	return nil
}

// Inflow posts a signed inflow change to period
func (s *LedgerService) Inflow(ctx context.Context, period scheduler.Period, delta decimal.Decimal, note string, mode repository.NoteMode) error {
	return s.Post(ctx, repository.LedgerPosting{
		Month:       period.Month,
		Year:        period.Year,
		InflowDelta: delta,
		Note:        note,
		NoteMode:    mode,
	})
}

// Outflow posts a signed outflow change to period
func (s *LedgerService) Outflow(ctx context.Context, period scheduler.Period, delta decimal.Decimal, note string, mode repository.NoteMode) error {
	return s.Post(ctx, repository.LedgerPosting{
		Month:        period.Month,
		Year:         period.Year,
		OutflowDelta: delta,
		Note:         note,
		NoteMode:     mode,
	})
}

// MonthView is one month of the cash-flow table
type MonthView struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
	Note    string          `json:"note"`
}

// YearView is the twelve months of a year, with totals
type YearView struct {
	Year         int             `json:"year"`
	Months       []MonthView     `json:"months"`
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	Net          decimal.Decimal `json:"net"`
}

// ReadYear returns all twelve months of year. Months never posted to read as zero.
func (s *LedgerService) ReadYear(ctx context.Context, year int) (*YearView, error) {
	if year <= 0 {
		return nil, apperror.NewValidationMessage("Year must be positive")
	}

	cells, err := s.ledgerRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int]entity.LedgerCell, len(cells))
	for _, c := range cells {
		byMonth[c.Month] = c
	}

	view := &YearView{Year: year, Months: make([]MonthView, 0, 12)}
	for m := 1; m <= 12; m++ {
		mv := MonthView{Month: m, Year: year, Inflow: decimal.Zero, Outflow: decimal.Zero}
		if c, ok := byMonth[m]; ok {
			mv.Inflow = c.Inflow
			mv.Outflow = c.Outflow
			mv.Note = c.Note
		}
		mv.Net = mv.Inflow.Sub(mv.Outflow)
		view.TotalInflow = view.TotalInflow.Add(mv.Inflow)
		view.TotalOutflow = view.TotalOutflow.Add(mv.Outflow)
		view.Months = append(view.Months, mv)
	}
	view.Net = view.TotalInflow.Sub(view.TotalOutflow)
	return view, nil
}

// GetMonth returns a single cell, zero-valued when the month was never posted
func (s *LedgerService) GetMonth(ctx context.Context, period scheduler.Period) (*MonthView, error) {
	if !period.Valid() {
		return nil, apperror.NewValidationMessage("Ledger period is invalid")
	}
	cell, err := s.ledgerRepo.GetByPeriod(ctx, period.Month, period.Year)
	if err != nil {
		return nil, err
	}
	mv := &MonthView{Month: period.Month, Year: period.Year, Inflow: decimal.Zero, Outflow: decimal.Zero}
	if cell != nil {
		mv.Inflow = cell.Inflow
		mv.Outflow = cell.Outflow
		mv.Note = cell.Note
	}
	mv.Net = mv.Inflow.Sub(mv.Outflow)
	return mv, nil
}

// AddIncomeInput represents a manual income entry
type AddIncomeInput struct {
	Month  int
	Year   int
	Amount decimal.Decimal
	Note   string
}

// AddIncome records income that did not come from a sale
func (s *LedgerService) AddIncome(ctx context.Context, input *AddIncomeInput) (*MonthView, error) {
	period := scheduler.Period{Month: input.Month, Year: input.Year}
	if !period.Valid() {
		return nil, apperror.NewValidationMessage("Month must be 1-12 and year positive")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationMessage("Amount must be positive")
	}

	if err := s.Inflow(ctx, period, input.Amount, input.Note, repository.NoteReplace); err != nil {
		return nil, err
	}
	return s.GetMonth(ctx, period)
}
