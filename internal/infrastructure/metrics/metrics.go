package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	SettlementOperations *prometheus.CounterVec
	LedgerPostings       *prometheus.CounterVec
	LedgerAmount         *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.SettlementOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_operations_total",
			Help:      "Settlement operations by operation and outcome kind",
		},
		[]string{"operation", "outcome"},
	)

	m.LedgerPostings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_postings_total",
			Help:      "Ledger postings by direction",
		},
		[]string{"direction"},
	)

	m.LedgerAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_posted_amount_total",
			Help:      "Absolute amount posted to the ledger by direction and sign",
		},
		[]string{"direction", "sign"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SettlementOperations,
		m.LedgerPostings,
		m.LedgerAmount,
	)

	return m
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSettlement records the outcome of a settlement operation.
// outcome is "ok" or an error kind.
func (m *Metrics) RecordSettlement(operation, outcome string) {
	if m == nil {
		return
	}
	m.SettlementOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordLedgerPosting records one posting. amount may be negative for reversals.
func (m *Metrics) RecordLedgerPosting(direction string, amount float64) {
	if m == nil {
		return
	}
	sign := "credit"
	if amount < 0 {
		sign = "reversal"
		amount = -amount
	}
	m.LedgerPostings.WithLabelValues(direction).Inc()
	m.LedgerAmount.WithLabelValues(direction, sign).Add(amount)
}
