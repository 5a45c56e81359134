package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/scheduler"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ObligationKind tells where an outstanding obligation comes from
type ObligationKind string

const (
	ObligationInstallmentPlan ObligationKind = "installment_plan"
	ObligationManual          ObligationKind = "manual"
)

// OutstandingObligation is one amount a customer still owes
type OutstandingObligation struct {
	Kind                 ObligationKind    `json:"kind"`
	ID                   uuid.UUID         `json:"id"`
	PaymentPlanID        *uuid.UUID        `json:"payment_plan_id,omitempty"`
	Counterparty         string            `json:"counterparty"`
	Reference            string            `json:"reference,omitempty"`
	ProductCode          string            `json:"product_code,omitempty"`
	PaymentType          enum.PaymentType  `json:"payment_type"`
	Original             decimal.Decimal   `json:"original"`
	OpenAmount           decimal.Decimal   `json:"open_amount"`
	PaidInstallments     int               `json:"paid_installments"`
	TotalInstallments    int               `json:"total_installments"`
	NextDue              *scheduler.Period `json:"next_due,omitempty"`
	NextAmount           decimal.Decimal   `json:"next_amount"`
	LastPaymentAt        *time.Time        `json:"last_payment_at,omitempty"`
	DaysSinceLastPayment int               `json:"days_since_last_payment"`
	Stale                bool              `json:"stale"`
}

// ObligationService derives what customers still owe in cash
type ObligationService struct {
	transactionRepo repository.TransactionRepository
	planRepo        repository.PaymentPlanRepository
	expectedRepo    repository.ExpectedPaymentRepository
	staleDays       int
	overdueDays     int
	clock           Clock
}

// NewObligationService creates a new obligation service.
// staleDays marks rows whose last payment is older; overdueDays is the cutoff
// for the overdue list.
func NewObligationService(
	transactionRepo repository.TransactionRepository,
	planRepo repository.PaymentPlanRepository,
	expectedRepo repository.ExpectedPaymentRepository,
	staleDays, overdueDays int,
) *ObligationService {
	return &ObligationService{
		transactionRepo: transactionRepo,
		planRepo:        planRepo,
		expectedRepo:    expectedRepo,
		staleDays:       staleDays,
		overdueDays:     overdueDays,
		clock:           SystemClock,
	}
}

// WithClock replaces the time source
func (s *ObligationService) WithClock(clock Clock) *ObligationService {
	s.clock = clock
	return s
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// ListExpectedPayments joins installment sales with manually entered records.
// A row is kept when something is still open and it is collected in cash.
// Staleness is reported but does not filter.
func (s *ObligationService) ListExpectedPayments(ctx context.Context) ([]OutstandingObligation, error) {
	now := s.clock()

	sales, err := s.transactionRepo.ListInstallmentSales(ctx)
	if err != nil {
		return nil, err
	}

	planIDs := make([]uuid.UUID, 0, len(sales))
	for _, txn := range sales {
		if txn.PaymentPlanID != nil {
			planIDs = append(planIDs, *txn.PaymentPlanID)
		}
	}
	plans, err := s.planRepo.GetByIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	planMap := make(map[uuid.UUID]*entity.PaymentPlan, len(plans))
	for i := range plans {
		planMap[plans[i].ID] = &plans[i]
	}

	out := make([]OutstandingObligation, 0, len(sales))
	for i := range sales {
		txn := &sales[i]
		if txn.PaymentPlanID == nil {
			continue
		}
		plan, ok := planMap[*txn.PaymentPlanID]
		if !ok || plan.Status == enum.PlanStatusCancelled {
			continue
		}
		paymentType := txn.ResolvedInstallmentPaymentType()
		if paymentType != enum.PaymentCash {
			continue
		}

		row := s.fromPlan(txn, plan, now)
		if !row.OpenAmount.IsPositive() {
			continue
		}
		out = append(out, row)
	}

	manual, err := s.expectedRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	for i := range manual {
		rec := &manual[i]
		if rec.PaymentType.OrDefault(enum.PaymentCash) != enum.PaymentCash || !rec.OpenAmount.IsPositive() {
			continue
		}
		out = append(out, s.fromManual(rec, now))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysSinceLastPayment > out[j].DaysSinceLastPayment
	})
	return out, nil
}

func (s *ObligationService) fromPlan(txn *entity.Transaction, plan *entity.PaymentPlan, now time.Time) OutstandingObligation {
	row := OutstandingObligation{
		Kind:              ObligationInstallmentPlan,
		ID:                txn.ID,
		PaymentPlanID:     &plan.ID,
		Counterparty:      txn.Counterparty,
		Reference:         txn.Reference,
		ProductCode:       txn.ProductCode,
		PaymentType:       txn.ResolvedInstallmentPaymentType(),
		Original:          txn.InstallmentAmount,
		OpenAmount:        decimal.Zero,
		NextAmount:        decimal.Zero,
		TotalInstallments: len(plan.Installments),
	}

	for i := range plan.Installments {
		inst := &plan.Installments[i]
		if inst.Paid {
			row.PaidInstallments++
			if inst.PaidAt != nil && (row.LastPaymentAt == nil || inst.PaidAt.After(*row.LastPaymentAt)) {
				row.LastPaymentAt = inst.PaidAt
			}
			continue
		}
		row.OpenAmount = row.OpenAmount.Add(inst.Amount)
		if row.NextDue == nil {
			row.NextDue = &scheduler.Period{Month: inst.DueMonth, Year: inst.DueYear}
			row.NextAmount = inst.Amount
		}
	}

	since := txn.CreatedAt
	if row.LastPaymentAt != nil {
		since = *row.LastPaymentAt
	}
	row.DaysSinceLastPayment = daysBetween(since, now)
	row.Stale = row.DaysSinceLastPayment > s.staleDays
	return row
}

func (s *ObligationService) fromManual(rec *entity.ExpectedPayment, now time.Time) OutstandingObligation {
	since := rec.CreatedAt
	if rec.LastPaymentAt != nil {
		since = *rec.LastPaymentAt
	}
	days := daysBetween(since, now)
	return OutstandingObligation{
		Kind:                 ObligationManual,
		ID:                   rec.ID,
		Counterparty:         rec.Counterparty,
		Reference:            rec.Reference,
		PaymentType:          rec.PaymentType.OrDefault(enum.PaymentCash),
		Original:             rec.Original,
		OpenAmount:           rec.OpenAmount,
		NextAmount:           rec.OpenAmount,
		LastPaymentAt:        rec.LastPaymentAt,
		DaysSinceLastPayment: days,
		Stale:                days > s.staleDays,
	}
}

// ListOverdue returns manual cash records with no payment in the overdue window
func (s *ObligationService) ListOverdue(ctx context.Context) ([]OutstandingObligation, error) {
	now := s.clock()
	cutoff := now.AddDate(0, 0, -s.overdueDays)

	records, err := s.expectedRepo.ListOverdue(ctx, enum.PaymentCash, cutoff)
	if err != nil {
		return nil, err
	}
	out := make([]OutstandingObligation, 0, len(records))
	for i := range records {
		out = append(out, s.fromManual(&records[i], now))
	}
	return out, nil
}

// CreateExpectedPaymentInput represents a manually entered receivable
type CreateExpectedPaymentInput struct {
	Counterparty string
	Reference    string
	Amount       decimal.Decimal
	PaymentType  enum.PaymentType
}

// CreateExpectedPayment records a receivable that has no installment plan
func (s *ObligationService) CreateExpectedPayment(ctx context.Context, input *CreateExpectedPaymentInput) (*entity.ExpectedPayment, error) {
	if strings.TrimSpace(input.Counterparty) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "counterparty", Message: "is required"}})
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "must be greater than zero"}})
	}

	rec := &entity.ExpectedPayment{
		Counterparty: strings.TrimSpace(input.Counterparty),
		Reference:    strings.TrimSpace(input.Reference),
		OpenAmount:   input.Amount,
		Original:     input.Amount,
		PaymentType:  input.PaymentType.OrDefault(enum.PaymentCash),
	}
	if err := s.expectedRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
