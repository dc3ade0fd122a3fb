// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spendwise"

// AI request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

var (
	// HTTPRequests counts handled requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "How many HTTP requests processed, partitioned by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by route template.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "The HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AIRequests counts calls to the completion backend by outcome.
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Completion requests partitioned by operation and whether the fallback was used.",
		},
		[]string{"operation", "outcome"},
	)
)

// ObserveAI records one AI operation outcome.
func ObserveAI(operation, outcome string) {
	AIRequests.WithLabelValues(operation, outcome).Inc()
}
