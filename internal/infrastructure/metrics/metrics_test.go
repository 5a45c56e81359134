package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New("shopledger")

	m.RecordSettlement("apply_sale", "ok")
	m.RecordSettlement("apply_sale", "ok")
	m.RecordSettlement("apply_sale", "insufficient_stock")
	m.RecordLedgerPosting("inflow", 400)
	m.RecordLedgerPosting("inflow", -150)
	m.RecordHTTPRequest("POST", "/api/v1/sales", 201, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SettlementOperations.WithLabelValues("apply_sale", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SettlementOperations.WithLabelValues("apply_sale", "insufficient_stock")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerPostings.WithLabelValues("inflow")))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.LedgerAmount.WithLabelValues("inflow", "reversal")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSettlement("delete_transaction", "ok")
		m.RecordLedgerPosting("outflow", 10)
		m.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("shopledger")
	m.RecordSettlement("apply_purchase", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopledger_settlement_operations_total")
}
