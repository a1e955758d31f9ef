package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ledger append metrics
	AppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewledger_appends_total",
			Help: "Total number of timestamp-event append attempts",
		},
		[]string{"event_type", "status"},
	)

	AppendConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewledger_append_conflicts_total",
			Help: "Total number of append attempts lost to the conditional-write guard",
		},
	)

	// Derivation metrics
	AttendanceCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewledger_attendance_records_total",
			Help: "Total number of attendance-record creation attempts",
		},
		[]string{"status"},
	)

	TimesheetDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crewledger_timesheet_duration_seconds",
			Help:    "Duration of timesheet generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crewledger_audit_duration_seconds",
			Help:    "Duration of ledger integrity audits in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AuditViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewledger_audit_violations_total",
			Help: "Total number of integrity violations found by audits",
		},
		[]string{"class"},
	)

	// Cache metrics
	CategoryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewledger_category_cache_hits_total",
			Help: "Total number of work-category cache hits",
		},
	)

	CategoryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewledger_category_cache_misses_total",
			Help: "Total number of work-category cache misses",
		},
	)
)
