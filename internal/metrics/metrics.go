// Package metrics exposes Prometheus collectors for RPC traffic and settlement runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/wildpay/internal/models"
)

const namespace = "wildpay"

// Metrics holds every collector on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	settlements     *prometheus.CounterVec
	settlementDebts prometheus.Histogram
	excluded        *prometheus.CounterVec
	unbalanced      prometheus.Counter
}

// New registers the collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "RPC calls by procedure and Connect code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "runs_total",
			Help:      "Settlement computations by resulting status.",
		}, []string{"status"}),
		settlementDebts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "debts",
			Help:      "Number of debts produced per settlement.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		excluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "excluded_expenditures_total",
			Help:      "Expenditures left out of a settlement, by reason.",
		}, []string{"reason"}),
		unbalanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settlement",
			Name:      "unbalanced_total",
			Help:      "Settlements whose balances did not sum to zero.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.settlements,
		m.settlementDebts,
		m.excluded,
		m.unbalanced,
	)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one finished call.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveSettlement records the outcome of one settlement run.
func (m *Metrics) ObserveSettlement(result *models.SettlementResult) {
	if m == nil || result == nil {
		return
	}
	m.settlements.WithLabelValues(result.Status.String()).Inc()
	m.settlementDebts.Observe(float64(len(result.Debts)))
	if result.MissingPayer > 0 {
		m.excluded.WithLabelValues("missing_payer").Add(float64(result.MissingPayer))
	}
	if result.EmptyContributors > 0 {
		m.excluded.WithLabelValues("empty_contributors").Add(float64(result.EmptyContributors))
	}
	if result.HasWarning(models.WarningUnbalancedInput) {
		m.unbalanced.Inc()
	}
}
