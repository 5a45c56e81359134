package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/routes"
	"github.com/sangkips/shopledger-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorKind string          `json:"error_kind"`
	Data      json.RawMessage `json:"data"`
	Errors    []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e envelope) fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := zap.NewNop()
	m := metrics.New("shopledger_routes_test")

	txManager := repository.NewTxManager(db)
	transactionRepo := repository.NewTransactionRepository(db)
	productRepo := repository.NewProductRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	planRepo := repository.NewPaymentPlanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	plannedRepo := repository.NewPlannedPaymentRepository(db)

	ledger := service.NewLedgerService(repository.NewLedgerRepository(db), m, log)
	settlement := service.NewSettlementService(txManager, service.SettlementRepositories{
		Transactions:    transactionRepo,
		Products:        productRepo,
		Employees:       employeeRepo,
		Plans:           planRepo,
		Installments:    installmentRepo,
		Debts:           debtRepo,
		PlannedPayments: plannedRepo,
	}, ledger, m, log)

	obligations := service.NewObligationService(transactionRepo, planRepo, repository.NewExpectedPaymentRepository(db), 25, 30)
	reports := service.NewReportService(repository.NewReportRepository(db), planRepo, ledger)
	reset := service.NewResetService(txManager, repository.NewMaintenanceRepository(db), log)

	handlers := &routes.Handlers{
		Settlement:  handler.NewSettlementHandler(settlement),
		Transaction: handler.NewTransactionHandler(service.NewTransactionService(transactionRepo)),
		PaymentPlan: handler.NewPaymentPlanHandler(service.NewPaymentPlanService(txManager, planRepo, installmentRepo, transactionRepo, ledger, log)),
		Ledger:      handler.NewLedgerHandler(ledger),
		Obligation:  handler.NewObligationHandler(obligations),
		Debt:        handler.NewDebtHandler(service.NewDebtService(txManager, debtRepo, plannedRepo, ledger, log)),
		Report:      handler.NewReportHandler(reports),
		Product:     handler.NewProductHandler(service.NewProductService(productRepo)),
		Employee:    handler.NewEmployeeHandler(service.NewEmployeeService(employeeRepo)),
		Admin:       handler.NewAdminHandler(reset),
	}

	return routes.Setup(handlers, &routes.Deps{
		Cfg:             &config.Config{App: config.AppConfig{Name: "shopledger-api"}},
		Logger:          log,
		Metrics:         m,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
	})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func seedCatalog(t *testing.T, r http.Handler) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"code": "kumas-1", "name": "Kumas", "stock": 10, "cost": 100, "price": 300,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/v1/employees", map[string]interface{}{"name": "ayse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func installmentSale() map[string]interface{} {
	return map[string]interface{}{
		"product_code":       "KUMAS-1",
		"quantity":           2,
		"unit_price":         300,
		"counterparty":       "Mehmet",
		"payment_type":       "nakit",
		"upfront":            200,
		"installment_amount": 400,
		"installment_count":  4,
		"seller_name":        "ayse",
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopledger-api")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopledger_routes_test_http_requests_total")
}

func TestSaleLifecycle(t *testing.T) {
	r := newRouter(t)
	seedCatalog(t, r)

	w := do(t, r, http.MethodPost, "/api/v1/sales", installmentSale())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale struct {
		TransactionID  string          `json:"transaction_id"`
		PaymentPlanID  string          `json:"payment_plan_id"`
		RemainingStock decimal.Decimal `json:"remaining_stock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sale))
	require.NotEmpty(t, sale.TransactionID)
	assert.NotEmpty(t, sale.PaymentPlanID)
	testutil.RequireDecimal(t, testutil.D("8"), sale.RemainingStock)

	w = do(t, r, http.MethodGet, "/api/v1/transactions/"+sale.TransactionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/transactions/"+sale.TransactionID+"/pay", map[string]interface{}{"amount": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid struct {
		Sequence    int   `json:"sequence"`
		UnpaidCount int64 `json:"unpaid_count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &paid))
	assert.Equal(t, 1, paid.Sequence)
	assert.Equal(t, int64(3), paid.UnpaidCount)

	w = do(t, r, http.MethodPost, "/api/v1/transactions/"+sale.TransactionID+"/undo", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/transactions?type=sale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sale.TransactionID)

	w = do(t, r, http.MethodDelete, "/api/v1/transactions/"+sale.TransactionID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/products/KUMAS-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product struct {
		Stock decimal.Decimal `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &product))
	testutil.RequireDecimal(t, testutil.D("10"), product.Stock)

	w = do(t, r, http.MethodGet, "/api/v1/transactions/"+sale.TransactionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w).ErrorKind)
}

func TestSale_Rejections(t *testing.T) {
	r := newRouter(t)
	seedCatalog(t, r)

	unbalanced := installmentSale()
	unbalanced["upfront"] = 100
	w := do(t, r, http.MethodPost, "/api/v1/sales", unbalanced)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_error", decode(t, w).ErrorKind)

	tooMany := installmentSale()
	tooMany["quantity"] = 50
	tooMany["upfront"] = 0
	tooMany["installment_amount"] = 0
	w = do(t, r, http.MethodPost, "/api/v1/sales", tooMany)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", decode(t, w).ErrorKind)

	w = do(t, r, http.MethodPost, "/api/v1/sales", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Equal(t, "validation_error", env.ErrorKind)
	assert.ElementsMatch(t, []string{"product_code", "counterparty", "seller_name"}, env.fields())

	zero := installmentSale()
	zero["quantity"] = 0
	w = do(t, r, http.MethodPost, "/api/v1/sales", zero)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env = decode(t, w)
	assert.Equal(t, "validation_error", env.ErrorKind)
	assert.Contains(t, env.fields(), "quantity")

	w = do(t, r, http.MethodPost, "/api/v1/purchases", map[string]interface{}{"product_code": "KUMAS-1", "quantity": -2})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env = decode(t, w)
	assert.Equal(t, "validation_error", env.ErrorKind)
	assert.ElementsMatch(t, []string{"quantity", "buyer", "supplier"}, env.fields())

	w = do(t, r, http.MethodPost, "/api/v1/sales", `{"quantity":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decode(t, w).ErrorKind)
}

func TestSale_FractionalQuantity(t *testing.T) {
	r := newRouter(t)
	seedCatalog(t, r)

	w := do(t, r, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"product_code": "KUMAS-1",
		"quantity":     2.5,
		"unit_price":   300,
		"counterparty": "Mehmet",
		"seller_name":  "ayse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale struct {
		Total          decimal.Decimal `json:"total"`
		RemainingStock decimal.Decimal `json:"remaining_stock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sale))
	testutil.RequireDecimal(t, testutil.D("750"), sale.Total)
	testutil.RequireDecimal(t, testutil.D("7.5"), sale.RemainingStock)
}

func TestBadIdentifiers(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/transactions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/transactions?type=refund", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/cash-flow?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCashFlowAndIncome(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/income", map[string]interface{}{
		"month": 3, "year": 2025, "amount": 1500, "note": "Rent refund",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/cash-flow?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rent refund")
}

func TestReportExport(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/reports/export?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cash_flow_2025.xlsx")
	assert.Greater(t, w.Body.Len(), 0)

	w = do(t, r, http.MethodGet, "/api/v1/reports/summary?year=2025", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminReset_RequiresConfirmation(t *testing.T) {
	r := newRouter(t)
	seedCatalog(t, r)

	w := do(t, r, http.MethodPost, "/api/v1/admin/reset", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/admin/reset?confirm=RESET", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/products/KUMAS-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdempotentCreate(t *testing.T) {
	r := newRouter(t)
	body := map[string]interface{}{"name": "fatma"}

	first := do(t, r, http.MethodPost, "/api/v1/employees", body, "Idempotency-Key", "emp-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := do(t, r, http.MethodPost, "/api/v1/employees", body, "Idempotency-Key", "emp-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	conflict := do(t, r, http.MethodPost, "/api/v1/employees", map[string]interface{}{"name": "other"}, "Idempotency-Key", "emp-1")
	assert.Equal(t, http.StatusConflict, conflict.Code)

	// Without a key the duplicate name is rejected by the service.
	dup := do(t, r, http.MethodPost, "/api/v1/employees", body)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestDebtRoutes(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/debts", map[string]interface{}{
		"counterparty": "Toptanci", "amount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/debts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Toptanci")

	w = do(t, r, http.MethodPost, "/api/v1/planned-payments", map[string]interface{}{
		"debt_id": "not-a-uuid", "amount": 100, "month": 1, "year": 2026,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
