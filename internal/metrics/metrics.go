package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for parse runs and the HTTP
// surface. A nil *Metrics is valid and records nothing.
type Metrics struct {
	parseRunsTotal         *prometheus.CounterVec
	parseDuration          *prometheus.HistogramVec
	blocksFoundTotal       prometheus.Counter
	transactionsKeptTotal  prometheus.Counter
	transactionsDiscarded  *prometheus.CounterVec
	transactionsByCategory *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		parseRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_parse_runs_total",
				Help: "Total number of statement parse runs by status",
			},
			[]string{"status"},
		),
		parseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_parse_duration_seconds",
				Help:    "Duration of statement parse runs in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"status"},
		),
		blocksFoundTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "finsight_blocks_found_total",
				Help: "Total number of transaction blocks produced by segmentation",
			},
		),
		transactionsKeptTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "finsight_transactions_kept_total",
				Help: "Total number of transactions that passed the amount filter",
			},
		),
		transactionsDiscarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_transactions_discarded_total",
				Help: "Total number of extracted records dropped by the amount filter",
			},
			[]string{"reason"},
		),
		transactionsByCategory: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_transactions_by_category_total",
				Help: "Total number of kept transactions by assigned category",
			},
			[]string{"category"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Parse run metric helpers

// RecordParseRun records a finished parse run with its duration.
func (m *Metrics) RecordParseRun(status string, duration float64) {
	if m == nil {
		return
	}
	m.parseRunsTotal.WithLabelValues(status).Inc()
	m.parseDuration.WithLabelValues(status).Observe(duration)
}

// RecordBlocks records the number of blocks found by the segmenter.
func (m *Metrics) RecordBlocks(count int) {
	if m == nil {
		return
	}
	m.blocksFoundTotal.Add(float64(count))
}

// RecordKept records transactions that survived filtering.
func (m *Metrics) RecordKept(count int) {
	if m == nil {
		return
	}
	m.transactionsKeptTotal.Add(float64(count))
}

// RecordDiscarded records records dropped by the amount filter.
func (m *Metrics) RecordDiscarded(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.transactionsDiscarded.WithLabelValues(reason).Add(float64(count))
}

// RecordCategory records one kept transaction in category.
func (m *Metrics) RecordCategory(category string) {
	if m == nil {
		return
	}
	m.transactionsByCategory.WithLabelValues(category).Inc()
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration)
}
