package metrics

import "github.com/prometheus/client_golang/prometheus"

// Elasticsearch transport metrics.
var (
	ElasticRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aggspec",
			Name:      "elasticsearch_requests_total",
			Help:      "Total Elasticsearch requests",
		},
		[]string{"op", "status"},
	)

	ElasticRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aggspec",
			Name:      "elasticsearch_request_duration_seconds",
			Help:      "Elasticsearch request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)
)

var elasticMetricsRegistered bool

// RegisterElasticMetrics registers Elasticsearch transport metrics. Must be called once from main.
func RegisterElasticMetrics() {
	if elasticMetricsRegistered {
		return
	}
	prometheus.MustRegister(ElasticRequestsTotal)
	prometheus.MustRegister(ElasticRequestDuration)
	elasticMetricsRegistered = true
}
