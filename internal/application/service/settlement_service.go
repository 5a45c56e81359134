package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/scheduler"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/money"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService applies sales and purchases and everything they touch:
// stock, payment plans, the cash-flow ledger, seller totals and supplier debt.
// Every operation runs as one database transaction.
type SettlementService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	employeeRepo    repository.EmployeeRepository
	planRepo        repository.PaymentPlanRepository
	installmentRepo repository.InstallmentRepository
	debtRepo        repository.DebtRepository
	plannedRepo     repository.PlannedPaymentRepository
	ledger          *LedgerService
	metrics         *metrics.Metrics
	log             *zap.Logger
	clock           Clock
}

// SettlementRepositories groups the stores the settlement service writes to
type SettlementRepositories struct {
	Transactions    repository.TransactionRepository
	Products        repository.ProductRepository
	Employees       repository.EmployeeRepository
	Plans           repository.PaymentPlanRepository
	Installments    repository.InstallmentRepository
	Debts           repository.DebtRepository
	PlannedPayments repository.PlannedPaymentRepository
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	txManager repository.TxManager,
	repos SettlementRepositories,
	ledger *LedgerService,
	m *metrics.Metrics,
	log *zap.Logger,
) *SettlementService {
	return &SettlementService{
		txManager:       txManager,
		transactionRepo: repos.Transactions,
		productRepo:     repos.Products,
		employeeRepo:    repos.Employees,
		planRepo:        repos.Plans,
		installmentRepo: repos.Installments,
		debtRepo:        repos.Debts,
		plannedRepo:     repos.PlannedPayments,
		ledger:          ledger,
		metrics:         m,
		log:             log,
		clock:           SystemClock,
	}
}

// WithClock replaces the time source
func (s *SettlementService) WithClock(clock Clock) *SettlementService {
	s.clock = clock
	return s
}

func (s *SettlementService) record(operation string, err error) {
	if err == nil {
		s.metrics.RecordSettlement(operation, "ok")
		return
	}
	kind := apperror.KindOf(err)
	s.metrics.RecordSettlement(operation, string(kind))
	if kind == apperror.KindInternal {
		s.log.Error("settlement failed", zap.String("operation", operation), zap.Error(err))
		return
	}
	s.log.Warn("settlement rejected", zap.String("operation", operation), zap.String("kind", string(kind)), zap.Error(err))
}

// SaleInput represents the create sale input
type SaleInput struct {
	ProductCode            string
	Quantity               decimal.Decimal
	UnitPrice              decimal.Decimal
	Counterparty           string
	PaymentType            enum.PaymentType
	Upfront                decimal.Decimal
	InstallmentAmount      decimal.Decimal
	InstallmentCount       int
	SellerName             string
	Buyer                  string
	IsMailOrder            bool
	UpfrontPaymentType     enum.PaymentType
	InstallmentPaymentType enum.PaymentType
	Reference              string
	Note                   string
}

// SaleResult is what ApplySale reports back
type SaleResult struct {
	TransactionID     uuid.UUID          `json:"transaction_id"`
	PaymentPlanID     *uuid.UUID         `json:"payment_plan_id"`
	PaymentType       enum.PaymentType   `json:"payment_type"`
	Total             decimal.Decimal    `json:"total"`
	Upfront           decimal.Decimal    `json:"upfront"`
	InstallmentAmount decimal.Decimal    `json:"installment_amount"`
	PerInstallment    decimal.Decimal    `json:"per_installment"`
	InstallmentCount  int                `json:"installment_count"`
	Margin            decimal.Decimal    `json:"margin"`
	IsMailOrder       bool               `json:"is_mail_order"`
	PreviousStock     decimal.Decimal    `json:"previous_stock"`
	RemainingStock    decimal.Decimal    `json:"remaining_stock"`
	DuePeriods        []scheduler.Period `json:"due_periods"`
}

// classifyPaymentType labels a sale by how its total is split
func classifyPaymentType(upfront, installment decimal.Decimal, given enum.PaymentType) enum.PaymentType {
	switch {
	case upfront.IsPositive() && installment.IsPositive():
		return enum.PaymentUpfrontAndInstallment
	case installment.IsPositive():
		return enum.PaymentInstallment
	}
	return given.OrDefault(enum.PaymentCash)
}

const maxInstallmentCount = 120

func validateSale(input *SaleInput) (total, upfront, installment decimal.Decimal, err error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.ProductCode) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_code", Message: "is required"})
	}
	if !input.Quantity.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if input.UnitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if strings.TrimSpace(input.Counterparty) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "counterparty", Message: "is required"})
	}
	if strings.TrimSpace(input.SellerName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "seller_name", Message: "is required"})
	}
	if input.Upfront.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "upfront", Message: "must not be negative"})
	}
	if input.InstallmentAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_amount", Message: "must not be negative"})
	}
	if input.InstallmentCount < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_count", Message: "must not be negative"})
	} else if input.InstallmentCount > maxInstallmentCount {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_count", Message: fmt.Sprintf("must not exceed %d", maxInstallmentCount)})
	}
	if input.InstallmentAmount.IsPositive() && input.InstallmentCount <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "installment_count", Message: "is required when an installment amount is given"})
	}
	if len(fieldErrors) > 0 {
		return total, upfront, installment, apperror.NewValidationError(fieldErrors)
	}

	total = input.UnitPrice.Mul(input.Quantity)
	upfront = input.Upfront
	installment = input.InstallmentAmount
	if upfront.IsZero() && installment.IsZero() {
		upfront = total
	}

	split := scheduler.Split{Total: total, Upfront: upfront, InstallmentAmount: installment, Count: input.InstallmentCount}
	if !split.Balanced() {
		return total, upfront, installment, apperror.NewValidationMessage(fmt.Sprintf(
			"Upfront (%s) plus installment amount (%s) must equal the total (%s)",
			upfront.StringFixed(2), installment.StringFixed(2), total.StringFixed(2)))
	}
	return total, upfront, installment, nil
}

// ApplySale records a sale and everything it settles
func (s *SettlementService) ApplySale(ctx context.Context, input *SaleInput) (*SaleResult, error) {
	result, err := s.applySale(ctx, input)
	s.record("apply_sale", err)
	return result, err
}

func (s *SettlementService) applySale(ctx context.Context, input *SaleInput) (*SaleResult, error) {
	total, upfront, installment, err := validateSale(input)
	if err != nil {
		return nil, err
	}

	count := input.InstallmentCount
	if installment.IsZero() {
		count = 0
	}
	isMailOrder := input.IsMailOrder || input.PaymentType.Normalize() == enum.PaymentMailOrder
	now := s.clock()
	origin := scheduler.PeriodOf(now)

	var result *SaleResult
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		seller, err := s.employeeRepo.GetByName(ctx, input.SellerName)
		if err != nil {
			return err
		}
		if seller == nil {
			return apperror.NewNotFoundError("Seller")
		}

		product, err := s.productRepo.GetByCode(ctx, input.ProductCode)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		ok, err := s.productRepo.AtomicDecrementStock(ctx, product.ID, input.Quantity, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewInsufficientStockError(product.Code, product.Stock, input.Quantity)
		}

		schedule := scheduler.ForSale(installment, count, origin)
		txnID := uuid.New()
		paymentType := classifyPaymentType(upfront, installment, input.PaymentType)

		var planID *uuid.UUID
		if schedule.Len() > 0 {
			plan := &entity.PaymentPlan{
				TransactionID:     &txnID,
				Counterparty:      input.Counterparty,
				Total:             total,
				Upfront:           upfront,
				InstallmentAmount: installment,
				InstallmentCount:  count,
				OriginMonth:       origin.Month,
				OriginYear:        origin.Year,
				Status:            enum.PlanStatusActive,
				Installments:      installmentsFor(schedule),
			}
			if err := s.planRepo.Create(ctx, plan); err != nil {
				return err
			}
			planID = &plan.ID
		}

		txn := &entity.Transaction{
			ID:                     txnID,
			Type:                   enum.TransactionTypeSale,
			Reference:              strings.TrimSpace(input.Reference),
			ProductCode:            product.Code,
			Quantity:               input.Quantity,
			UnitPrice:              input.UnitPrice,
			UnitCost:               product.Cost,
			Total:                  total,
			Counterparty:           input.Counterparty,
			PaymentType:            paymentType,
			Note:                   input.Note,
			Upfront:                upfront,
			InstallmentAmount:      installment,
			InstallmentCount:       count,
			Margin:                 money.MarginPercent(input.UnitPrice, product.Cost),
			PaymentPlanID:          planID,
			OriginMonth:            origin.Month,
			OriginYear:             origin.Year,
			SellerID:               &seller.ID,
			SellerName:             seller.Name,
			Buyer:                  input.Buyer,
			IsMailOrder:            isMailOrder,
			UpfrontPaymentType:     input.UpfrontPaymentType.Normalize(),
			InstallmentPaymentType: input.InstallmentPaymentType.Normalize(),
			CreatedAt:              now,
		}
		if err := s.transactionRepo.Create(ctx, txn); err != nil {
			return err
		}

		if !isMailOrder {
			if upfront.IsPositive() {
				if err := s.ledger.Inflow(ctx, origin, upfront, "Upfront sale - "+input.Counterparty, repository.NoteReplace); err != nil {
					return err
				}
			}
			for i, period := range schedule.Periods {
				note := fmt.Sprintf("Installment %d/%d - %s", i+1, schedule.Len(), input.Counterparty)
				if err := s.ledger.Inflow(ctx, period, schedule.PerInstallment, note, repository.NoteReplace); err != nil {
					return err
				}
			}
		}

		if err := s.employeeRepo.AddToRollingTotals(ctx, seller.ID, total); err != nil {
			return err
		}

		result = &SaleResult{
			TransactionID:     txn.ID,
			PaymentPlanID:     planID,
			PaymentType:       paymentType,
			Total:             total,
			Upfront:           upfront,
			InstallmentAmount: installment,
			PerInstallment:    schedule.PerInstallment,
			InstallmentCount:  count,
			Margin:            txn.Margin,
			IsMailOrder:       isMailOrder,
			PreviousStock:     product.Stock,
			RemainingStock:    product.Stock.Sub(input.Quantity),
			DuePeriods:        schedule.Periods,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale applied",
		zap.String("transaction_id", result.TransactionID.String()),
		zap.String("product_code", input.ProductCode),
		zap.String("quantity", input.Quantity.String()),
		zap.String("total", result.Total.String()),
		zap.Bool("mail_order", isMailOrder),
	)
	return result, nil
}

func installmentsFor(schedule scheduler.Schedule) []entity.Installment {
	installments := make([]entity.Installment, 0, schedule.Len())
	for i, period := range schedule.Periods {
		installments = append(installments, entity.Installment{
			Sequence: i + 1,
			Amount:   schedule.PerInstallment,
			DueMonth: period.Month,
			DueYear:  period.Year,
		})
	}
	return installments
}

// PurchaseInput represents the create purchase input
type PurchaseInput struct {
	ProductCode string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Buyer       string
	Supplier    string
	Upfront     decimal.Decimal
	DebtAmount  decimal.Decimal
	Reference   string
	Note        string
}

// PurchaseResult is what ApplyPurchase reports back
type PurchaseResult struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Reference     string          `json:"reference"`
	ProductCode   string          `json:"product_code"`
	Total         decimal.Decimal `json:"total"`
	Upfront       decimal.Decimal `json:"upfront"`
	DebtAmount    decimal.Decimal `json:"debt_amount"`
	DebtID        *uuid.UUID      `json:"debt_id"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	NewProduct    bool            `json:"new_product"`
}

func validatePurchase(input *PurchaseInput) (decimal.Decimal, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.ProductCode) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_code", Message: "is required"})
	}
	if !input.Quantity.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if input.UnitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if strings.TrimSpace(input.Buyer) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "buyer", Message: "is required"})
	}
	if strings.TrimSpace(input.Supplier) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "supplier", Message: "is required"})
	}
	if input.Upfront.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "upfront", Message: "must not be negative"})
	}
	if input.DebtAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "debt_amount", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return decimal.Zero, apperror.NewValidationError(fieldErrors)
	}

	total := input.UnitPrice.Mul(input.Quantity)
	split := scheduler.Split{Total: total, Upfront: input.Upfront, InstallmentAmount: input.DebtAmount}
	if !split.Balanced() {
		return total, apperror.NewValidationMessage(fmt.Sprintf(
			"Upfront (%s) plus debt (%s) must equal the total (%s)",
			input.Upfront.StringFixed(2), input.DebtAmount.StringFixed(2), total.StringFixed(2)))
	}
	return total, nil
}

// ApplyPurchase records a stock purchase from a supplier
func (s *SettlementService) ApplyPurchase(ctx context.Context, input *PurchaseInput) (*PurchaseResult, error) {
	result, err := s.applyPurchase(ctx, input)
	s.record("apply_purchase", err)
	return result, err
}

func (s *SettlementService) applyPurchase(ctx context.Context, input *PurchaseInput) (*PurchaseResult, error) {
	total, err := validatePurchase(input)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	origin := scheduler.PeriodOf(now)
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		reference = utils.PurchaseReference(now)
	}

	var result *PurchaseResult
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.productRepo.GetByCode(ctx, input.ProductCode)
		if err != nil {
			return err
		}

		code := utils.NormalizeCode(input.ProductCode)
		previousStock := decimal.Zero
		if existing != nil {
			code = existing.Code
			previousStock = existing.Stock
			if err := s.productRepo.UpsertPurchase(ctx, code, input.Quantity, input.UnitPrice, now); err != nil {
				return err
			}
		} else {
			product := &entity.Product{
				Code:              code,
				Name:              strings.TrimSpace(input.ProductName),
				Stock:             input.Quantity,
				Cost:              input.UnitPrice,
				LastTransactionAt: &now,
				RecentActivity:    1,
			}
			if err := s.productRepo.Create(ctx, product); err != nil {
				return err
			}
		}

		// InstallmentAmount carries the amount left owed to the supplier.
		txn := &entity.Transaction{
			Type:              enum.TransactionTypePurchase,
			Reference:         reference,
			ProductCode:       code,
			Quantity:          input.Quantity,
			UnitPrice:         input.UnitPrice,
			UnitCost:          input.UnitPrice,
			Total:             total,
			Counterparty:      input.Supplier,
			PaymentType:       enum.PaymentCash,
			Note:              input.Note,
			Upfront:           input.Upfront,
			InstallmentAmount: input.DebtAmount,
			Margin:            decimal.Zero,
			OriginMonth:       origin.Month,
			OriginYear:        origin.Year,
			Buyer:             input.Buyer,
			CreatedAt:         now,
		}
		if err := s.transactionRepo.Create(ctx, txn); err != nil {
			return err
		}

		if input.Upfront.IsPositive() {
			if err := s.ledger.Outflow(ctx, origin, input.Upfront, "Purchase payment - "+input.Supplier, repository.NoteReplace); err != nil {
				return err
			}
		}

		var debtID *uuid.UUID
		if input.DebtAmount.IsPositive() {
			debt := &entity.DebtRecord{
				Counterparty: input.Supplier,
				Reference:    reference,
				Remaining:    input.DebtAmount,
				Original:     input.DebtAmount,
				CashPaid:     decimal.Zero,
			}
			if err := s.debtRepo.Create(ctx, debt); err != nil {
				return err
			}
			debtID = &debt.ID
		}

		result = &PurchaseResult{
			TransactionID: txn.ID,
			Reference:     reference,
			ProductCode:   code,
			Total:         total,
			Upfront:       input.Upfront,
			DebtAmount:    input.DebtAmount,
			DebtID:        debtID,
			UnitCost:      input.UnitPrice,
			PreviousStock: previousStock,
			NewStock:      previousStock.Add(input.Quantity),
			NewProduct:    existing == nil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase applied",
		zap.String("transaction_id", result.TransactionID.String()),
		zap.String("reference", reference),
		zap.String("product_code", result.ProductCode),
		zap.String("total", total.String()),
	)
	return result, nil
}

// PaymentResult describes one installment payment or its reversal
type PaymentResult struct {
	TransactionID  uuid.UUID       `json:"transaction_id"`
	PaymentPlanID  uuid.UUID       `json:"payment_plan_id"`
	InstallmentID  uuid.UUID       `json:"installment_id"`
	Sequence       int             `json:"sequence"`
	Amount         decimal.Decimal `json:"amount"`
	DueMonth       int             `json:"due_month"`
	DueYear        int             `json:"due_year"`
	UnpaidCount    int64           `json:"unpaid_count"`
	PlanStatus     enum.PlanStatus `json:"plan_status"`
	LedgerAffected bool            `json:"ledger_affected"`
}

// loadInstallmentSale fetches a sale and its plan for installment operations
func (s *SettlementService) loadInstallmentSale(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, *entity.PaymentPlan, error) {
	txn, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if txn == nil {
		return nil, nil, apperror.NewNotFoundError("Transaction")
	}
	if !txn.IsSale() {
		return nil, nil, apperror.NewInvalidStateError("Only sales have installments")
	}
	if txn.PaymentPlanID == nil {
		return nil, nil, apperror.NewNotFoundError("Payment plan")
	}
	plan, err := s.planRepo.GetByID(ctx, *txn.PaymentPlanID)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, apperror.NewNotFoundError("Payment plan")
	}
	return txn, plan, nil
}

// syncPlanStatus completes a plan with no unpaid installments and reopens a
// completed plan that has some again. Cancelled plans are left alone.
func syncPlanStatus(ctx context.Context, plans repository.PaymentPlanRepository, installments repository.InstallmentRepository, plan *entity.PaymentPlan) (int64, enum.PlanStatus, error) {
	unpaid, err := installments.CountUnpaid(ctx, plan.ID)
	if err != nil {
		return 0, plan.Status, err
	}

	status := plan.Status
	switch {
	case plan.Status == enum.PlanStatusCancelled:
	case unpaid == 0:
		status = enum.PlanStatusCompleted
	default:
		status = enum.PlanStatusActive
	}
	if status != plan.Status {
		if err := plans.UpdateStatus(ctx, plan.ID, status); err != nil {
			return unpaid, plan.Status, err
		}
	}
	return unpaid, status, nil
}

// PayInstallmentForTransaction pays the lowest-numbered unpaid installment of a sale
func (s *SettlementService) PayInstallmentForTransaction(ctx context.Context, transactionID uuid.UUID, amount decimal.Decimal) (*PaymentResult, error) {
	result, err := s.payInstallment(ctx, transactionID, amount)
	s.record("pay_installment", err)
	return result, err
}

func errCardCollected() error {
	return apperror.NewInvalidStateError("Card installments are collected by the card provider")
}

func (s *SettlementService) payInstallment(ctx context.Context, transactionID uuid.UUID, amount decimal.Decimal) (*PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationMessage("Payment amount must be positive")
	}
	now := s.clock()

	var result *PaymentResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, plan, err := s.loadInstallmentSale(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.CardCollected() {
			return errCardCollected()
		}
		if plan.Status == enum.PlanStatusCancelled {
			return apperror.NewInvalidStateError("Payment plan is cancelled")
		}

		inst, err := s.installmentRepo.FirstUnpaid(ctx, plan.ID)
		if err != nil {
			return err
		}
		if inst == nil {
			return apperror.NewNotFoundError("Unpaid installment")
		}
		if amount.GreaterThan(inst.Amount.Add(money.Tolerance)) {
			return apperror.NewValidationMessage(fmt.Sprintf(
				"Payment %s exceeds installment %d amount %s",
				amount.StringFixed(2), inst.Sequence, inst.Amount.StringFixed(2)))
		}

		if err := s.installmentRepo.MarkPaid(ctx, inst.ID, amount, now); err != nil {
			return err
		}

		due := scheduler.Period{Month: inst.DueMonth, Year: inst.DueYear}
		if !txn.IsMailOrder {
			if err := s.ledger.Inflow(ctx, due, amount, "Installment payment - "+txn.Counterparty, repository.NoteReplace); err != nil {
				return err
			}
		}

		unpaid, status, err := syncPlanStatus(ctx, s.planRepo, s.installmentRepo, plan)
		if err != nil {
			return err
		}

		result = &PaymentResult{
			TransactionID:  txn.ID,
			PaymentPlanID:  plan.ID,
			InstallmentID:  inst.ID,
			Sequence:       inst.Sequence,
			Amount:         amount,
			DueMonth:       inst.DueMonth,
			DueYear:        inst.DueYear,
			UnpaidCount:    unpaid,
			PlanStatus:     status,
			LedgerAffected: !txn.IsMailOrder,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("installment paid",
		zap.String("transaction_id", transactionID.String()),
		zap.Int("sequence", result.Sequence),
		zap.String("amount", amount.String()),
	)
	return result, nil
}

// UndoPaymentForTransaction reverts the highest-numbered paid installment of a sale
func (s *SettlementService) UndoPaymentForTransaction(ctx context.Context, transactionID uuid.UUID) (*PaymentResult, error) {
	result, err := s.undoPayment(ctx, transactionID)
	s.record("undo_payment", err)
	return result, err
}

func (s *SettlementService) undoPayment(ctx context.Context, transactionID uuid.UUID) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, plan, err := s.loadInstallmentSale(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.CardCollected() {
			return errCardCollected()
		}

		inst, err := s.installmentRepo.LastPaid(ctx, plan.ID)
		if err != nil {
			return err
		}
		if inst == nil {
			return apperror.NewNotFoundError("Paid installment")
		}

		reversed := inst.ReversibleAmount()
		if err := s.installmentRepo.MarkUnpaid(ctx, inst.ID); err != nil {
			return err
		}

		if !txn.IsMailOrder {
			due := scheduler.Period{Month: inst.DueMonth, Year: inst.DueYear}
			if err := s.ledger.Inflow(ctx, due, reversed.Neg(), "", repository.NoteKeep); err != nil {
				return err
			}
		}

		unpaid, status, err := syncPlanStatus(ctx, s.planRepo, s.installmentRepo, plan)
		if err != nil {
			return err
		}

		result = &PaymentResult{
			TransactionID:  txn.ID,
			PaymentPlanID:  plan.ID,
			InstallmentID:  inst.ID,
			Sequence:       inst.Sequence,
			Amount:         reversed,
			DueMonth:       inst.DueMonth,
			DueYear:        inst.DueYear,
			UnpaidCount:    unpaid,
			PlanStatus:     status,
			LedgerAffected: !txn.IsMailOrder,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("installment payment undone",
		zap.String("transaction_id", transactionID.String()),
		zap.Int("sequence", result.Sequence),
	)
	return result, nil
}

// DeleteTransaction removes a transaction and reverses its effects
func (s *SettlementService) DeleteTransaction(ctx context.Context, transactionID uuid.UUID) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.transactionRepo.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		if txn.IsSale() {
			err = s.reverseSale(ctx, txn)
		} else {
			err = s.reversePurchase(ctx, txn)
		}
		if err != nil {
			return err
		}
		return s.transactionRepo.Delete(ctx, txn.ID)
	})
	s.record("delete_transaction", err)
	if err != nil {
		return err
	}

	s.log.Info("transaction deleted", zap.String("transaction_id", transactionID.String()))
	return nil
}

func (s *SettlementService) reverseSale(ctx context.Context, txn *entity.Transaction) error {
	origin := scheduler.Period{Month: txn.OriginMonth, Year: txn.OriginYear}

	var plan *entity.PaymentPlan
	if txn.PaymentPlanID != nil {
		p, err := s.planRepo.GetByID(ctx, *txn.PaymentPlanID)
		if err != nil {
			return err
		}
		plan = p
	}

	if !txn.IsMailOrder {
		if txn.Upfront.IsPositive() {
			if err := s.ledger.Inflow(ctx, origin, txn.Upfront.Neg(), "", repository.NoteKeep); err != nil {
				return err
			}
		}

		// Same arithmetic as at creation, so each due month gets back exactly what it received.
		if txn.HasInstallments() {
			schedule := scheduler.ForSale(txn.InstallmentAmount, txn.InstallmentCount, origin)
			for _, period := range schedule.Periods {
				if err := s.ledger.Inflow(ctx, period, schedule.PerInstallment.Neg(), "", repository.NoteKeep); err != nil {
					return err
				}
			}
		}

		if plan != nil {
			for _, inst := range plan.Installments {
				if !inst.Paid {
					continue
				}
				due := scheduler.Period{Month: inst.DueMonth, Year: inst.DueYear}
				if err := s.ledger.Inflow(ctx, due, inst.ReversibleAmount().Neg(), "", repository.NoteKeep); err != nil {
					return err
				}
			}
		}
	}

	product, err := s.productRepo.GetByCode(ctx, txn.ProductCode)
	if err != nil {
		return err
	}
	if product != nil {
		if err := s.productRepo.AdjustStock(ctx, product.ID, txn.Quantity); err != nil {
			return err
		}
	} else {
		s.log.Warn("product missing while deleting sale, stock not restored",
			zap.String("transaction_id", txn.ID.String()),
			zap.String("product_code", txn.ProductCode),
		)
	}

	seller, err := s.sellerOf(ctx, txn)
	if err != nil {
		return err
	}
	if seller != nil {
		if err := s.employeeRepo.AddToRollingTotals(ctx, seller.ID, txn.Total.Neg()); err != nil {
			return err
		}
	}

	if plan != nil {
		return s.planRepo.Delete(ctx, plan.ID)
	}
	return nil
}

func (s *SettlementService) sellerOf(ctx context.Context, txn *entity.Transaction) (*entity.Employee, error) {
	if txn.SellerID != nil {
		seller, err := s.employeeRepo.GetByID(ctx, *txn.SellerID)
		if err != nil || seller != nil {
			return seller, err
		}
	}
	if txn.SellerName == "" {
		return nil, nil
	}
	return s.employeeRepo.GetByName(ctx, txn.SellerName)
}

func (s *SettlementService) reversePurchase(ctx context.Context, txn *entity.Transaction) error {
	origin := scheduler.Period{Month: txn.OriginMonth, Year: txn.OriginYear}

	if txn.InstallmentAmount.IsPositive() && txn.Reference != "" {
		debt, err := s.debtRepo.GetByReference(ctx, txn.Reference)
		if err != nil {
			return err
		}
		if debt != nil {
			planned, err := s.plannedRepo.CountByDebt(ctx, debt.ID)
			if err != nil {
				return err
			}
			if debt.PaymentMade || planned > 0 {
				return apperror.NewInvalidStateError("Purchase debt already has payments; undo them first")
			}
			if err := s.debtRepo.Delete(ctx, debt.ID); err != nil {
				return err
			}
		}
	}

	product, err := s.productRepo.GetByCode(ctx, txn.ProductCode)
	if err != nil {
		return err
	}
	if product != nil {
		if product.Stock.LessThan(txn.Quantity) {
			return apperror.NewInsufficientStockError(product.Code, product.Stock, txn.Quantity)
		}
		if err := s.productRepo.AdjustStock(ctx, product.ID, txn.Quantity.Neg()); err != nil {
			return err
		}
	}

	if txn.Upfront.IsPositive() {
		return s.ledger.Outflow(ctx, origin, txn.Upfront.Neg(), "", repository.NoteKeep)
	}
	return nil
}
