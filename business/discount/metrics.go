package discount

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discount_recommendations_total",
			Help: "Count of served discount recommendations by campaign segment and clearance status.",
		},
		[]string{"segment", "status"},
	)

	InferenceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "discount_inference_failures_total",
			Help: "Count of recommendation calls that failed in model inference.",
		},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsTotal, InferenceFailuresTotal)
}
