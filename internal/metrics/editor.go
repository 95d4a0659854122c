package metrics

import "github.com/prometheus/client_golang/prometheus"

// Editor Prometheus metrics.
var (
	EditorCommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "editor_commits_total",
			Help:      "Total committed aggregation edits",
		},
		[]string{"kind", "level"},
	)

	EditorCancelsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "editor_cancels_total",
			Help:      "Total edit sessions closed without commit",
		},
	)

	EditorUnknownKindsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "editor_unknown_kinds_total",
			Help:      "Total edits discarded because of an unknown aggregation kind",
		},
	)

	StatisticsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "statistics_requests_total",
			Help:      "Total field statistics requests",
		},
		[]string{"status"}, // "ok" / "error" / "mismatch" / "stale"
	)

	StatisticsRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aggspec",
			Name:      "statistics_request_duration_seconds",
			Help:      "Field statistics request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	StatisticsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "statistics_cache_total",
			Help:      "Total field statistics cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SnapshotsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "snapshots_published_total",
			Help:      "Total aggregation snapshots published to the saved search owner",
		},
		[]string{"status"},
	)
)

var editorMetricsRegistered bool

// RegisterEditorMetrics registers Prometheus editor metrics. Must be called once from main.
func RegisterEditorMetrics() {
	if editorMetricsRegistered {
		return
	}
	prometheus.MustRegister(EditorCommitsTotal)
	prometheus.MustRegister(EditorCancelsTotal)
	prometheus.MustRegister(EditorUnknownKindsTotal)
	prometheus.MustRegister(StatisticsRequestsTotal)
	prometheus.MustRegister(StatisticsRequestDuration)
	prometheus.MustRegister(StatisticsCacheTotal)
	prometheus.MustRegister(SnapshotsPublishedTotal)
	editorMetricsRegistered = true
}
