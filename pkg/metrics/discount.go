package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the discount recommendation HTTP handler
	DiscountRequestLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "discount_request_latency_seconds",
		Help:    "Latency of the discount recommendation handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of discount recommendation requests
	DiscountRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "discount_requests_total",
		Help: "Total number of discount recommendation requests",
	})

	// Forced artifact reloads triggered via request flag or admin endpoint
	ArtifactReloadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "discount_artifact_reloads_total",
		Help: "How many times model artifacts were force-reloaded",
	})
)

func Init() {
	prometheus.MustRegister(
		DiscountRequestLatency,
		DiscountRequestsTotal,
		ArtifactReloadsTotal,
	)
}
