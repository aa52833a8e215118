package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for AdDecisionsTotal.
const (
	OutcomeFill   = "fill"
	OutcomeNoFill = "no_fill"
	// OutcomeDegraded is a no-fill caused by a cache error or timeout.
	OutcomeDegraded = "degraded"
)

// Prometheus metrics for the serving, sync and batching paths
var (
	AdDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_decisions_total",
			Help: "Total number of ad decisions by outcome",
		},
		[]string{"outcome"},
	)

	AdDecisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ad_decision_duration_seconds",
			Help:    "Duration of ad decisions",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	CacheSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_sync_total",
			Help: "Total number of cache synchronizations by mode and result",
		},
		[]string{"mode", "result"},
	)

	CacheSyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_sync_duration_seconds",
			Help:    "Duration of cache synchronizations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	CacheNotificationsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_notifications_dropped_total",
			Help: "Targeted sync notifications dropped because the queue was full",
		},
	)

	ImpressionsTrackedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "impressions_tracked_total",
			Help: "Total number of impressions accepted into the queue",
		},
	)

	ImpressionsFlushedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "impressions_flushed_total",
			Help: "Total number of impressions committed to the store",
		},
	)

	ImpressionsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "impressions_dropped_total",
			Help: "Impressions dropped by the queue safety bound",
		},
	)

	ImpressionFlushFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "impression_flush_failures_total",
			Help: "Total number of failed impression flushes",
		},
	)

	ImpressionQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "impression_queue_depth",
			Help: "Impressions waiting to be flushed",
		},
	)

	ImpressionFlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "impression_flush_duration_seconds",
			Help:    "Duration of impression flushes",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(
		AdDecisionsTotal,
		AdDecisionDuration,
		CacheSyncTotal,
		CacheSyncDuration,
		CacheNotificationsDropped,
		ImpressionsTrackedTotal,
		ImpressionsFlushedTotal,
		ImpressionsDroppedTotal,
		ImpressionFlushFailuresTotal,
		ImpressionQueueDepth,
		ImpressionFlushDuration,
	)
}
