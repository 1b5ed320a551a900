package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuditRuns counts orchestrator runs by execution mode.
	AuditRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "audit_runs_total",
		Help:      "Completed audit runs by execution mode.",
	}, []string{"mode"})

	// DetectorDuration tracks per-detector wall time.
	DetectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "privesccord",
		Name:      "detector_duration_seconds",
		Help:      "Wall time of individual detector runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"detector"})

	// DetectorFailures counts contained detector faults.
	DetectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "detector_failures_total",
		Help:      "Detector runs that ended in a contained failure.",
	}, []string{"detector"})

	// FindingsEmitted counts findings by detector.
	FindingsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "findings_total",
		Help:      "Findings emitted by detector.",
	}, []string{"detector"})

	// CacheHits and CacheMisses track the role-permission cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "permcache_hits_total",
		Help:      "Role-permission cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "permcache_misses_total",
		Help:      "Role-permission cache misses (computations).",
	})

	// WebhookFetchUnavailable counts webhook enumerations that came
	// back forbidden or failed and were reported as unavailable.
	WebhookFetchUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "privesccord",
		Name:      "webhook_fetch_unavailable_total",
		Help:      "Webhook-count fetches substituted with the unavailable marker.",
	})
)
