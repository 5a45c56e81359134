package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/scheduler"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentPlanService manages installment plans directly, outside a sale
type PaymentPlanService struct {
	txManager       repository.TxManager
	planRepo        repository.PaymentPlanRepository
	installmentRepo repository.InstallmentRepository
	transactionRepo repository.TransactionRepository
	ledger          *LedgerService
	log             *zap.Logger
	clock           Clock
}

// NewPaymentPlanService creates a new payment plan service
func NewPaymentPlanService(
	txManager repository.TxManager,
	planRepo repository.PaymentPlanRepository,
	installmentRepo repository.InstallmentRepository,
	transactionRepo repository.TransactionRepository,
	ledger *LedgerService,
	log *zap.Logger,
) *PaymentPlanService {
	return &PaymentPlanService{
		txManager:       txManager,
		planRepo:        planRepo,
		installmentRepo: installmentRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		log:             log,
		clock:           SystemClock,
	}
}

// WithClock replaces the time source
func (s *PaymentPlanService) WithClock(clock Clock) *PaymentPlanService {
	s.clock = clock
	return s
}

// CreatePlanInput represents a plan created without a sale
type CreatePlanInput struct {
	Counterparty      string
	Total             decimal.Decimal
	Upfront           decimal.Decimal
	InstallmentAmount decimal.Decimal
	InstallmentCount  int
	StartMonth        int
	StartYear         int
}

// CreatePlan schedules installments starting at the given month. It records
// the plan only; nothing is posted to the ledger until installments are paid.
func (s *PaymentPlanService) CreatePlan(ctx context.Context, input *CreatePlanInput) (*entity.PaymentPlan, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Counterparty) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "counterparty", Message: "is required"})
	}
	if !input.InstallmentAmount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_amount", Message: "must be greater than zero"})
	}
	if input.InstallmentCount <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_count", Message: "must be greater than zero"})
	}
	if input.Upfront.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "upfront", Message: "must not be negative"})
	}
	start := scheduler.Period{Month: input.StartMonth, Year: input.StartYear}
	if !start.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start_month", Message: "month must be 1-12 and year positive"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	split := scheduler.Split{Total: input.Total, Upfront: input.Upfront, InstallmentAmount: input.InstallmentAmount, Count: input.InstallmentCount}
	if !split.Balanced() {
		return nil, apperror.NewValidationMessage("Upfront plus installment amount must equal the total")
	}

	schedule := scheduler.Generic(input.InstallmentAmount, input.InstallmentCount, start)
	origin := scheduler.PeriodOf(s.clock())
	plan := &entity.PaymentPlan{
		Counterparty:      strings.TrimSpace(input.Counterparty),
		Total:             input.Total,
		Upfront:           input.Upfront,
		InstallmentAmount: input.InstallmentAmount,
		InstallmentCount:  input.InstallmentCount,
		OriginMonth:       origin.Month,
		OriginYear:        origin.Year,
		Status:            enum.PlanStatusActive,
		Installments:      installmentsFor(schedule),
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan retrieves a plan with its installments
func (s *PaymentPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*entity.PaymentPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NewNotFoundError("Payment plan")
	}
	return plan, nil
}

// ListPlans returns plans, optionally filtered by status
func (s *PaymentPlanService) ListPlans(ctx context.Context, status *enum.PlanStatus) ([]entity.PaymentPlan, error) {
	return s.planRepo.List(ctx, status)
}

// PayInstallment pays one installment in full and posts it to its due month
func (s *PaymentPlanService) PayInstallment(ctx context.Context, installmentID uuid.UUID) (*PaymentResult, error) {
	now := s.clock()

	var result *PaymentResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		inst, err := s.installmentRepo.GetByID(ctx, installmentID)
		if err != nil {
			return err
		}
		if inst == nil {
			return apperror.NewNotFoundError("Installment")
		}
		if inst.Paid {
			return apperror.NewInvalidStateError("Installment is already paid")
		}

		plan, err := s.planRepo.GetByID(ctx, inst.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return apperror.NewNotFoundError("Payment plan")
		}
		if plan.Status == enum.PlanStatusCancelled {
			return apperror.NewInvalidStateError("Payment plan is cancelled")
		}

		postToLedger := true
		var transactionID uuid.UUID
		if plan.TransactionID != nil {
			txn, err := s.transactionRepo.GetByID(ctx, *plan.TransactionID)
			if err != nil {
				return err
			}
			if txn != nil {
				if txn.IsSale() && txn.CardCollected() {
					return errCardCollected()
				}
				transactionID = txn.ID
				postToLedger = !txn.IsMailOrder
			}
		}

		if err := s.installmentRepo.MarkPaid(ctx, inst.ID, inst.Amount, now); err != nil {
			return err
		}
		if postToLedger {
			due := scheduler.Period{Month: inst.DueMonth, Year: inst.DueYear}
			if err := s.ledger.Inflow(ctx, due, inst.Amount, "Installment payment - "+plan.Counterparty, repository.NoteReplace); err != nil {
				return err
			}
		}

		unpaid, status, err := syncPlanStatus(ctx, s.planRepo, s.installmentRepo, plan)
		if err != nil {
			return err
		}

		result = &PaymentResult{
			TransactionID:  transactionID,
			PaymentPlanID:  plan.ID,
			InstallmentID:  inst.ID,
			Sequence:       inst.Sequence,
			Amount:         inst.Amount,
			DueMonth:       inst.DueMonth,
			DueYear:        inst.DueYear,
			UnpaidCount:    unpaid,
			PlanStatus:     status,
			LedgerAffected: postToLedger,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("plan installment paid",
		zap.String("plan_id", result.PaymentPlanID.String()),
		zap.Int("sequence", result.Sequence),
	)
	return result, nil
}

// CancelPlan stops collection on an active plan. Paid installments stay paid.
func (s *PaymentPlanService) CancelPlan(ctx context.Context, id uuid.UUID) (*entity.PaymentPlan, error) {
	var plan *entity.PaymentPlan
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.planRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NewNotFoundError("Payment plan")
		}
		if p.Status != enum.PlanStatusActive {
			return apperror.NewInvalidStateError("Only active plans can be cancelled")
		}
		if err := s.planRepo.UpdateStatus(ctx, id, enum.PlanStatusCancelled); err != nil {
			return err
		}
		p.Status = enum.PlanStatusCancelled
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
