package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/devverse/devverse/internal/pkg/metrics"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LogRequest logs HTTP requests and records request metrics. The route
// template, not the raw path, is used as the metric label to keep
// cardinality bounded.
func LogRequest(next http.Handler) http.Handler {
	logger := slog.Default().With(slog.String("component", "http"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging health checks to reduce noise
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     200, // default if WriteHeader not called
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		metrics.RecordHTTPRequest(route, r.Method, wrapped.statusCode, duration)

		// Get real IP (consider X-Forwarded-For if behind proxy)
		clientIP := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			clientIP = forwarded
		}

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.statusCode),
			slog.Int64("duration_ms", duration.Milliseconds()),
			slog.Int64("bytes", wrapped.written),
			slog.String("client_ip", clientIP),
			slog.String("user_agent", r.UserAgent()),
		}

		if claims := ClaimsFromContext(r.Context()); claims != nil {
			attrs = append(attrs,
				slog.String("user_id", claims.Subject),
				slog.String("username", claims.Username))
		}

		if wrapped.statusCode >= 400 {
			logger.Warn("request failed", attrs...)
		} else {
			logger.Info("request", attrs...)
		}
	})
}
