package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the solver service collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	results  prometheus.Histogram
}

// NewMetrics registers the service collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jumble_solve_requests_total",
			Help: "Solve requests by HTTP status code.",
		}, []string{"code"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jumble_solve_duration_seconds",
			Help:    "Time spent resolving one word.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		results: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jumble_solve_results",
			Help:    "Number of words returned per solve.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}
