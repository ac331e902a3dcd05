package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Budget metrics
	BudgetsCreated    prometheus.Counter
	EntriesRecorded   *prometheus.CounterVec
	EntryAmount       *prometheus.HistogramVec
	BalanceOverwrites prometheus.Counter
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec

	// Concurrency metrics
	VersionConflicts *prometheus.CounterVec
	RetriesExhausted *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationDrift *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Budget metrics
		BudgetsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_budgets_created_total",
			Help: "Total number of budgets created lazily",
		}),
		EntriesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_entries_recorded_total",
				Help: "Total number of budget entries recorded by type",
			},
			[]string{"type"},
		),
		EntryAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_entry_amount",
				Help:    "Recorded entry amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
		BalanceOverwrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_balance_overwrites_total",
			Help: "Total number of balances set directly",
		}),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_operation_duration_seconds",
				Help:    "Duration of budget operations including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_operation_errors_total",
				Help: "Total budget operation errors by kind",
			},
			[]string{"operation", "kind"},
		),

		// Concurrency metrics
		VersionConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_version_conflicts_total",
				Help: "Total optimistic version conflicts observed",
			},
			[]string{"operation"},
		),
		RetriesExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_retries_exhausted_total",
				Help: "Total operations that gave up after repeated conflicts",
			},
			[]string{"operation"},
		),

		// Reconciliation metrics
		ReconciliationDrift: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_reconciliation_checks_total",
				Help: "Total reconciliation checks by outcome",
			},
			[]string{"outcome"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobudget_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),

		// Idempotency metrics
		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_idempotency_replays_total",
			Help: "Total responses replayed from the idempotency store",
		}),
	}
}
