package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ysherlin/ec3-assessment/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Lead metrics
	LeadOperationsCounter *prometheus.CounterVec

	// Report metrics
	ReportsGeneratedCounter prometheus.Counter
	ReportRowsCounter       prometheus.Counter

	initOnce    sync.Once
	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration. Safe to call
// more than once; registration happens only on the first call.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		prefix := config.Metrics.Prefix

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		LeadOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of lead operations",
			},
			[]string{"operation"},
		)

		ReportsGeneratedCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_reports_generated_total",
				Help: "Total number of CSV reports generated",
			},
		)

		ReportRowsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_report_rows_total",
				Help: "Total number of rows written to CSV reports",
			},
		)

		initialized = true
	})
}

// RecordLeadOperation increments the lead operations counter
func RecordLeadOperation(operation string) {
	if !initialized {
		return
	}
	LeadOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordReport records a generated report and its row count
func RecordReport(rows int) {
	if !initialized {
		return
	}
	ReportsGeneratedCounter.Inc()
	ReportRowsCounter.Add(float64(rows))
}

// TrackDBOperation returns a function to defer for tracking the duration of
// a database operation:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operationType string) func(time.Time) {
	return func(start time.Time) {
		if !initialized {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(start).Seconds())
	}
}

// Handler returns an HTTP handler for exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records a completed HTTP request
func RecordHTTPRequest(method, path, status string, duration float64) {
	if !initialized {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
}
