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

const (
	plannedPaymentNote   = "Planned debt payment"
	confirmedPaymentNote = "Planned debt payment confirmed"
)

// DebtService manages what the shop owes suppliers and the payments planned against it
type DebtService struct {
	txManager   repository.TxManager
	debtRepo    repository.DebtRepository
	plannedRepo repository.PlannedPaymentRepository
	ledger      *LedgerService
	log         *zap.Logger
}

// NewDebtService creates a new debt service
func NewDebtService(
	txManager repository.TxManager,
	debtRepo repository.DebtRepository,
	plannedRepo repository.PlannedPaymentRepository,
	ledger *LedgerService,
	log *zap.Logger,
) *DebtService {
	return &DebtService{
		txManager:   txManager,
		debtRepo:    debtRepo,
		plannedRepo: plannedRepo,
		ledger:      ledger,
		log:         log,
	}
}

// CreateDebtInput represents a manually entered supplier debt
type CreateDebtInput struct {
	Counterparty string
	Reference    string
	Amount       decimal.Decimal
}

// CreateDebt records a debt that did not come from a purchase
func (s *DebtService) CreateDebt(ctx context.Context, input *CreateDebtInput) (*entity.DebtRecord, error) {
	if strings.TrimSpace(input.Counterparty) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "counterparty", Message: "is required"}})
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "must be greater than zero"}})
	}

	debt := &entity.DebtRecord{
		Counterparty: strings.TrimSpace(input.Counterparty),
		Reference:    strings.TrimSpace(input.Reference),
		Remaining:    input.Amount,
		Original:     input.Amount,
		CashPaid:     decimal.Zero,
	}
	if err := s.debtRepo.Create(ctx, debt); err != nil {
		return nil, err
	}
	return debt, nil
}

// ListDebts returns debts, newest first
func (s *DebtService) ListDebts(ctx context.Context, openOnly bool) ([]entity.DebtRecord, error) {
	return s.debtRepo.List(ctx, openOnly)
}

func (s *DebtService) getDebt(ctx context.Context, id uuid.UUID) (*entity.DebtRecord, error) {
	debt, err := s.debtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if debt == nil {
		return nil, apperror.NewNotFoundError("Debt")
	}
	return debt, nil
}

// PayDebt lowers the remaining amount, never below zero
func (s *DebtService) PayDebt(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.DebtRecord, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationMessage("Payment amount must be positive")
	}

	var debt *entity.DebtRecord
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getDebt(ctx, id); err != nil {
			return err
		}
		if err := s.debtRepo.Reduce(ctx, id, amount); err != nil {
			return err
		}
		d, err := s.debtRepo.GetByID(ctx, id)
		debt = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// UndoDebtPayment restores the original amount
func (s *DebtService) UndoDebtPayment(ctx context.Context, id uuid.UUID) (*entity.DebtRecord, error) {
	var debt *entity.DebtRecord
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.getDebt(ctx, id)
		if err != nil {
			return err
		}
		if !d.PaymentMade {
			return apperror.NewInvalidStateError("Debt has no payment to undo")
		}
		if err := s.debtRepo.Reset(ctx, id); err != nil {
			return err
		}
		d, err = s.debtRepo.GetByID(ctx, id)
		debt = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// CreatePlannedPaymentInput represents a payment planned against a debt
type CreatePlannedPaymentInput struct {
	DebtID uuid.UUID
	Month  int
	Year   int
	Amount decimal.Decimal
}

// CreatePlannedPayment schedules a debt payment and books it as outflow for its month
func (s *DebtService) CreatePlannedPayment(ctx context.Context, input *CreatePlannedPaymentInput) (*entity.PlannedPayment, error) {
	period := scheduler.Period{Month: input.Month, Year: input.Year}
	if !period.Valid() {
		return nil, apperror.NewValidationMessage("Month must be 1-12 and year positive")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationMessage("Amount must be positive")
	}

	var payment *entity.PlannedPayment
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getDebt(ctx, input.DebtID); err != nil {
			return err
		}

		payment = &entity.PlannedPayment{
			DebtID: input.DebtID,
			Month:  input.Month,
			Year:   input.Year,
			Amount: input.Amount,
			Status: enum.PlannedPaymentPlanned,
		}
		if err := s.plannedRepo.Create(ctx, payment); err != nil {
			return err
		}
		return s.ledger.Outflow(ctx, period, input.Amount, plannedPaymentNote, repository.NoteAppend)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPlannedPayments returns planned payments, optionally for one year
func (s *DebtService) ListPlannedPayments(ctx context.Context, year *int) ([]entity.PlannedPayment, error) {
	return s.plannedRepo.List(ctx, year)
}

// ConfirmPlannedPayment marks a planned payment as paid, reduces the debt and
// posts the payment to the ledger.
func (s *DebtService) ConfirmPlannedPayment(ctx context.Context, id uuid.UUID) (*entity.PlannedPayment, error) {
	var payment *entity.PlannedPayment
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.plannedRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NewNotFoundError("Planned payment")
		}
		if p.Status == enum.PlannedPaymentPaid {
			return apperror.NewInvalidStateError("Planned payment is already confirmed")
		}

		if err := s.plannedRepo.UpdateStatus(ctx, id, enum.PlannedPaymentPaid); err != nil {
			return err
		}
		if err := s.debtRepo.Reduce(ctx, p.DebtID, p.Amount); err != nil {
			return err
		}
		period := scheduler.Period{Month: p.Month, Year: p.Year}
		if err := s.ledger.Outflow(ctx, period, p.Amount, confirmedPaymentNote, repository.NoteAppend); err != nil {
			return err
		}

		p.Status = enum.PlannedPaymentPaid
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("planned payment confirmed",
		zap.String("planned_payment_id", id.String()),
		zap.String("amount", payment.Amount.String()),
	)
	return payment, nil
}

// DeletePlannedPayment removes a planned payment that has not been confirmed,
// taking its outflow back out of the ledger.
func (s *DebtService) DeletePlannedPayment(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.plannedRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NewNotFoundError("Planned payment")
		}
		if p.Status == enum.PlannedPaymentPaid {
			return apperror.NewInvalidStateError("Confirmed payments cannot be deleted")
		}

		period := scheduler.Period{Month: p.Month, Year: p.Year}
		if err := s.ledger.Outflow(ctx, period, p.Amount.Neg(), "", repository.NoteKeep); err != nil {
			return err
		}
		return s.plannedRepo.Delete(ctx, id)
	})
}
