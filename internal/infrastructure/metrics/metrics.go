package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsApplied  *prometheus.CounterVec
	SettlementsReversed prometheus.Counter
	SettlementDuration  prometheus.Histogram
	SettlementAmount    prometheus.Histogram
	SettlementErrors    *prometheus.CounterVec
	Overpayments        prometheus.Counter
	ReplayedPayments    prometheus.Counter

	// Batch metrics
	BatchSize    prometheus.Histogram
	BatchResults *prometheus.CounterVec

	// Plan metrics
	PlansCreated        *prometheus.CounterVec
	InstallmentsCreated prometheus.Counter

	// Bank account metrics
	BankBalance           *prometheus.GaugeVec
	ReconciliationResults *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Settlement metrics
		SettlementsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_settlements_applied_total",
				Help: "Total payments applied to entries by entry kind and resulting status",
			},
			[]string{"kind", "status"},
		),
		SettlementsReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "settleledger_settlements_reversed_total",
			Help: "Total settlements undone",
		}),
		SettlementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleledger_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleledger_settlement_amount",
			Help:    "Applied payment amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		SettlementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_settlement_errors_total",
				Help: "Total settlement errors by type",
			},
			[]string{"error_type"},
		),
		Overpayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "settleledger_overpayments_total",
			Help: "Payments that pushed an entry past its value",
		}),
		ReplayedPayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "settleledger_replayed_payments_total",
			Help: "Payments answered from an existing ledger line",
		}),

		// Batch metrics
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleledger_batch_size",
			Help:    "Number of entries per batch settlement",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		BatchResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_batch_items_total",
				Help: "Batch items by outcome",
			},
			[]string{"outcome"},
		),

		// Plan metrics
		PlansCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_plans_created_total",
				Help: "Total installment plans created by entry kind",
			},
			[]string{"kind"},
		),
		InstallmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "settleledger_installments_created_total",
			Help: "Total installment entries created",
		}),

		// Bank account metrics
		BankBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "settleledger_bank_balance",
				Help: "Current bank account balance",
			},
			[]string{"bank_account_id"},
		),
		ReconciliationResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_reconciliation_checks_total",
				Help: "Reconciliation checks by scope and result",
			},
			[]string{"scope", "result"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settleledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_db_retries_total",
				Help: "Transactions retried after a transient database error",
			},
			[]string{"code"},
		),

		// Redis metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_cache_lookups_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_events_published_total",
				Help: "Outbox events published by type and result",
			},
			[]string{"event_type", "result"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settleledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
