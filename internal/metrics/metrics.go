package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinecone_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pinecone_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pinecone_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	notificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pinecone_notification_failures_total",
			Help: "Total number of failed order notifications",
		},
	)
)

// RecordOrderOperation records the outcome of an order operation.
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

// RecordNotificationFailure counts a swallowed notification error.
func RecordNotificationFailure() {
	notificationFailures.Inc()
}
