package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// GSTIN lookup metrics
	GSTINLookups        *prometheus.CounterVec
	GSTINLookupDuration prometheus.Histogram

	// Invoice metrics
	InvoicesCreated  *prometheus.CounterVec
	PaymentsRecorded prometheus.Counter

	// Location retention metrics
	CleanupRuns            prometheus.Counter
	CleanupSessionsThinned prometheus.Counter
	CleanupPointsDeleted   prometheus.Counter
	CleanupBatchFailures   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		GSTINLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerdesk_gstin_lookups_total",
				Help: "Total GSTIN verification attempts by outcome",
			},
			[]string{"outcome"},
		),
		GSTINLookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealerdesk_gstin_lookup_duration_seconds",
			Help:    "Duration of GSTIN verification calls",
			Buckets: prometheus.DefBuckets,
		}),

		InvoicesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerdesk_invoices_created_total",
				Help: "Total invoices posted by kind",
			},
			[]string{"kind"},
		),
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerdesk_payments_recorded_total",
			Help: "Total payments recorded against invoices",
		}),

		CleanupRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerdesk_location_cleanup_runs_total",
			Help: "Total location retention cleanup runs",
		}),
		CleanupSessionsThinned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerdesk_location_cleanup_sessions_total",
			Help: "Total duty sessions processed by the retention thinner",
		}),
		CleanupPointsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerdesk_location_cleanup_points_deleted_total",
			Help: "Total location points deleted by the retention thinner",
		}),
		CleanupBatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerdesk_location_cleanup_batch_failures_total",
			Help: "Total failed deletion batches during cleanup",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerdesk_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealerdesk_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerdesk_rate_limit_hits_total",
				Help: "Total requests rejected by rate limiting",
			},
			[]string{"limiter"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerdesk_audit_logs_created_total",
				Help: "Total audit log entries by action and outcome",
			},
			[]string{"action", "outcome"},
		),
	}
}
