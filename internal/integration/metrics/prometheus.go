// Package metrics exposes reconciliation and HTTP metrics to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/condo-portal/ledger/internal/application/adapter"
)

const metricPrefix = "ledger_"

// Recorder implements adapter.LedgerMetrics with Prometheus collectors.
type Recorder struct {
	ledgersBuilt      prometheus.Counter
	ledgerRows        prometheus.Histogram
	excludedRecords   *prometheus.CounterVec
	classifications   *prometheus.CounterVec
	delinquents       prometheus.Gauge
	providerFailures  *prometheus.CounterVec
	notices           *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpRequestLength *prometheus.HistogramVec
}

var (
	_ adapter.LedgerMetrics = (*Recorder)(nil)
	_ adapter.NoticeMetrics = (*Recorder)(nil)
)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ledgersBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "ledgers_built_total",
			Help: "Total resident ledgers built",
		}),
		ledgerRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "ledger_rows",
			Help:    "Rows per built ledger",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		excludedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "excluded_records_total",
			Help: "Malformed charge and payment records excluded from computations",
		}, []string{"computation"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "delinquency_classifications_total",
			Help: "Delinquency classifications by source",
		}, []string{"source"}),
		delinquents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_delinquent_residents",
			Help: "Delinquent residents found by the latest classification",
		}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "provider_failures_total",
			Help: "Data provider failures by provider",
		}, []string{"provider"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "notices_total",
			Help: "Delinquency notice delivery attempts by outcome",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpRequestLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		r.ledgersBuilt,
		r.ledgerRows,
		r.excludedRecords,
		r.classifications,
		r.delinquents,
		r.providerFailures,
		r.notices,
		r.httpRequests,
		r.httpRequestLength,
	)
	return r
}

// LedgerBuilt records one ledger computation.
func (r *Recorder) LedgerBuilt(rows, warnings int) {
	r.ledgersBuilt.Inc()
	r.ledgerRows.Observe(float64(rows))
	if warnings > 0 {
		r.excludedRecords.WithLabelValues("ledger").Add(float64(warnings))
	}
}

// DelinquencyClassified records one classification run.
func (r *Recorder) DelinquencyClassified(residents, delinquents, warnings int, cached bool) {
	source := "computed"
	if cached {
		source = "cache"
	}
	r.classifications.WithLabelValues(source).Inc()
	r.delinquents.Set(float64(delinquents))
	if warnings > 0 && !cached {
		r.excludedRecords.WithLabelValues("delinquency").Add(float64(warnings))
	}
}

// ProviderFailed records a failed data provider.
func (r *Recorder) ProviderFailed(provider string) {
	r.providerFailures.WithLabelValues(provider).Inc()
}

// NoticeDelivered records one notice delivery attempt.
func (r *Recorder) NoticeDelivered(outcome string) {
	r.notices.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per route template.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpRequestLength.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
