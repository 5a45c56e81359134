package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var july2025 = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	now  time.Time
	logs *observer.ObservedLogs

	products     domainRepo.ProductRepository
	employees    domainRepo.EmployeeRepository
	transactions domainRepo.TransactionRepository
	plans        domainRepo.PaymentPlanRepository
	installments domainRepo.InstallmentRepository
	ledgerRepo   domainRepo.LedgerRepository
	debts        domainRepo.DebtRepository
	planned      domainRepo.PlannedPaymentRepository
	expected     domainRepo.ExpectedPaymentRepository

	metrics     *metrics.Metrics
	ledger      *service.LedgerService
	settlement  *service.SettlementService
	planService *service.PaymentPlanService
	obligations *service.ObligationService
	debtService *service.DebtService
	reports     *service.ReportService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	f := &fixture{
		now:          now,
		logs:         logs,
		products:     repository.NewProductRepository(db),
		employees:    repository.NewEmployeeRepository(db),
		transactions: repository.NewTransactionRepository(db),
		plans:        repository.NewPaymentPlanRepository(db),
		installments: repository.NewInstallmentRepository(db),
		ledgerRepo:   repository.NewLedgerRepository(db),
		debts:        repository.NewDebtRepository(db),
		planned:      repository.NewPlannedPaymentRepository(db),
		expected:     repository.NewExpectedPaymentRepository(db),
		metrics:      metrics.New("shopledger_test"),
	}
	clock := func() time.Time { return f.now }
	txManager := repository.NewTxManager(db)

	f.ledger = service.NewLedgerService(f.ledgerRepo, f.metrics, log)
	f.settlement = service.NewSettlementService(txManager, service.SettlementRepositories{
		Transactions:    f.transactions,
		Products:        f.products,
		Employees:       f.employees,
		Plans:           f.plans,
		Installments:    f.installments,
		Debts:           f.debts,
		PlannedPayments: f.planned,
	}, f.ledger, f.metrics, log).WithClock(clock)
	f.planService = service.NewPaymentPlanService(txManager, f.plans, f.installments, f.transactions, f.ledger, log).WithClock(clock)
	f.obligations = service.NewObligationService(f.transactions, f.plans, f.expected, 25, 30).WithClock(clock)
	f.debtService = service.NewDebtService(txManager, f.debts, f.planned, f.ledger, log)
	f.reports = service.NewReportService(repository.NewReportRepository(db), f.plans, f.ledger)
	return f
}

func (f *fixture) seedProduct(t *testing.T, code, stock, cost, price string) *entity.Product {
	t.Helper()
	p := &entity.Product{Code: code, Name: code, Stock: testutil.D(stock), Cost: testutil.D(cost), Price: testutil.D(price)}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) seedSeller(t *testing.T, name string) *entity.Employee {
	t.Helper()
	e := &entity.Employee{Name: name, Position: "Sales"}
	require.NoError(t, f.employees.Create(context.Background(), e))
	return e
}

// cell returns inflow and outflow for a month, zero when it was never posted.
func (f *fixture) cell(t *testing.T, month, year int) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	c, err := f.ledgerRepo.GetByPeriod(context.Background(), month, year)
	require.NoError(t, err)
	if c == nil {
		return decimal.Zero, decimal.Zero
	}
	return c.Inflow, c.Outflow
}

func (f *fixture) stock(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	p, err := f.products.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) seller(t *testing.T, name string) *entity.Employee {
	t.Helper()
	e, err := f.employees.GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

// installmentSale is ten units at 300: 1000 up front and 2000 over five months.
func installmentSale() *service.SaleInput {
	return &service.SaleInput{
		ProductCode:       "KUMAS-1",
		Quantity:          testutil.D("10"),
		UnitPrice:         testutil.D("300"),
		Counterparty:      "Zeynep",
		PaymentType:       "nakit",
		Upfront:           testutil.D("1000"),
		InstallmentAmount: testutil.D("2000"),
		InstallmentCount:  5,
		SellerName:        "ayse",
	}
}
