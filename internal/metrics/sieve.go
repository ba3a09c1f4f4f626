package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search widget Prometheus metrics.
var (
	SieveCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gravityview",
			Name:      "sieve_cache_total",
			Help:      "Sieve value cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SieveQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gravityview",
			Name:      "sieve_query_duration_seconds",
			Help:      "Entry value lookup duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver"},
	)

	SieveErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gravityview",
			Name:      "sieve_errors_total",
			Help:      "Failed entry value lookups",
		},
		[]string{"driver"},
	)

	FallbackFieldsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gravityview",
			Name:      "search_field_fallback_total",
			Help:      "Stored search fields replaced by the submit button",
		},
	)
)

var sieveMetricsRegistered bool

// RegisterSieveMetrics registers Prometheus search widget metrics. Must be called once from main.
func RegisterSieveMetrics() {
	if sieveMetricsRegistered {
		return
	}
	prometheus.MustRegister(SieveCacheTotal)
	prometheus.MustRegister(SieveQueryDuration)
	prometheus.MustRegister(SieveErrorsTotal)
	prometheus.MustRegister(FallbackFieldsTotal)
	sieveMetricsRegistered = true
}
