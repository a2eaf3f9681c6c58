package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database/Repository Metrics
var (
	// DBOperations tracks total database operations
	DBOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devverse_db_operations_total",
			Help: "Total database operations by repository, operation, and status",
		},
		[]string{"repo", "operation", "status"},
	)

	// DBDuration tracks database operation latency
	DBDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "devverse_db_operation_duration_ms",
			Help:                            "Database operation duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"repo", "operation"},
	)

	// DBErrors tracks database errors by type
	DBErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devverse_db_errors_total",
			Help: "Total database errors by repository, operation, and error type",
		},
		[]string{"repo", "operation", "error_type"},
	)
)

// Authentication Metrics
var (
	// AuthAttempts tracks authentication attempts by flow and outcome
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devverse_auth_attempts_total",
			Help: "Total authentication attempts by flow and status",
		},
		[]string{"flow", "status"},
	)

	// AuthDuration tracks authentication flow latency
	AuthDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "devverse_auth_duration_ms",
			Help:                            "Authentication flow duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"flow"},
	)
)

// HTTP Metrics
var (
	// HTTPRequests tracks HTTP requests by route, method, and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devverse_http_requests_total",
			Help: "Total HTTP requests by route, method, and status code",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration tracks HTTP request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "devverse_http_request_duration_ms",
			Help:                            "HTTP request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"route", "method"},
	)
)
