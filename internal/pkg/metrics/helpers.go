package metrics

import (
	"strconv"
	"strings"
	"time"
)

// RecordDBOperation records database operation metrics consistently
// repo: repository name (e.g., "user", "post", "follower")
// operation: operation name (e.g., "create", "get_by_email", "update")
func RecordDBOperation(repo, operation string, duration time.Duration, err error) {
	DBDuration.WithLabelValues(repo, operation).Observe(float64(duration.Milliseconds()))

	status := "success"
	if err != nil {
		status = "error"
		DBErrors.WithLabelValues(repo, operation, classifyDBError(err)).Inc()
	}
	DBOperations.WithLabelValues(repo, operation, status).Inc()
}

// RecordAuthAttempt records the outcome of an authentication flow
// flow: "register", "login", "github_code", "github_token"
func RecordAuthAttempt(flow string, success bool, duration time.Duration) {
	status := "failure"
	if success {
		status = "success"
	}
	AuthAttempts.WithLabelValues(flow, status).Inc()
	AuthDuration.WithLabelValues(flow).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(float64(duration.Milliseconds()))
}

// classifyDBError categorizes database errors for metrics
func classifyDBError(err error) string {
	if err == nil {
		return "none"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate") || strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "already in use") || strings.Contains(errStr, "already linked"):
		return "duplicate"
	case strings.Contains(errStr, "not found") || strings.Contains(errStr, "no rows"):
		return "not_found"
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
		return "timeout"
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "connect"):
		return "connection"
	case strings.Contains(errStr, "foreign key") || strings.Contains(errStr, "fk_"):
		return "foreign_key"
	case strings.Contains(errStr, "constraint"):
		return "constraint"
	default:
		return "other"
	}
}
