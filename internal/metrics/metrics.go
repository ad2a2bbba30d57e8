package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for account and report activity.
type Metrics struct {
	AccountsProvisioned *prometheus.CounterVec   // role: Admin, Staff, Customer
	LifecycleEvents     *prometheus.CounterVec   // transition: delete, restore, purge
	ImportRows          *prometheus.CounterVec   // outcome: created, skipped, failed
	ReportGeneration    *prometheus.HistogramVec // format: xlsx, pdf
	LoginAttempts       *prometheus.CounterVec   // result: success, failure
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AccountsProvisioned: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "press_accounts_provisioned_total",
			Help: "Accounts created, by role.",
		}, []string{"role"}),
		LifecycleEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "press_account_lifecycle_events_total",
			Help: "Soft delete, restore and purge transitions.",
		}, []string{"transition"}),
		ImportRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "press_import_rows_total",
			Help: "Spreadsheet import rows by outcome.",
		}, []string{"outcome"}),
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "press_report_generation_duration_seconds",
			Help:    "Duration of account report generation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		LoginAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "press_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}
}
