// Package metrics exposes Prometheus counters for query admission,
// execution, and schema cache activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the engine records. All collectors are
// registered on a private registry so tests can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	// ValidationResults counts validator outcomes by result and risk
	// level.
	ValidationResults *prometheus.CounterVec

	// RateLimitDenials counts queries rejected by the per-client rate
	// limiter.
	RateLimitDenials prometheus.Counter

	// QueryExecutions counts sandbox executions by status.
	QueryExecutions *prometheus.CounterVec

	// QueryDuration observes sandbox execution latency in seconds.
	QueryDuration prometheus.Histogram

	// SchemaRefreshes counts schema cache rebuilds by status.
	SchemaRefreshes *prometheus.CounterVec

	// CompletionRequests counts autocomplete calls.
	CompletionRequests prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ValidationResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querygym_validation_results_total",
				Help: "Validator outcomes by result and risk level.",
			},
			[]string{"result", "risk_level"},
		),
		RateLimitDenials: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "querygym_rate_limit_denials_total",
				Help: "Queries rejected by the per-client rate limiter.",
			},
		),
		QueryExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querygym_query_executions_total",
				Help: "Sandbox query executions by status.",
			},
			[]string{"status"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "querygym_query_duration_seconds",
				Help:    "Sandbox query execution latency.",
				Buckets: prometheus.DefBuckets,
			},
		),
		SchemaRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querygym_schema_refreshes_total",
				Help: "Schema cache rebuilds by status.",
			},
			[]string{"status"},
		),
		CompletionRequests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "querygym_completion_requests_total",
				Help: "Autocomplete requests served.",
			},
		),
	}

	registry.MustRegister(
		m.ValidationResults,
		m.RateLimitDenials,
		m.QueryExecutions,
		m.QueryDuration,
		m.SchemaRefreshes,
		m.CompletionRequests,
	)

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordValidation increments the validation outcome counter.
func (m *Metrics) RecordValidation(valid bool, riskLevel string) {
	result := "rejected"
	if valid {
		result = "accepted"
	}
	m.ValidationResults.WithLabelValues(result, riskLevel).Inc()
}
