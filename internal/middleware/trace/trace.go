// Package trace assigns request IDs, logs request completion, and keeps
// atomic request counters for the metrics endpoint.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	applog "ledgerd/internal/log"
)

// ContextKey type for context keys.
type ContextKey string

// RequestIDKey is the context key for the request ID.
const RequestIDKey ContextKey = "request_id"

// Metrics tracks request counts with atomic counters.
type Metrics struct {
	TotalRequests int64
	ClientErrors  int64
	ServerErrors  int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalRequests int64 `json:"total_requests"`
	ClientErrors  int64 `json:"client_errors"`
	ServerErrors  int64 `json:"server_errors"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TotalRequests: atomic.LoadInt64(&m.TotalRequests),
		ClientErrors:  atomic.LoadInt64(&m.ClientErrors),
		ServerErrors:  atomic.LoadInt64(&m.ServerErrors),
	}
}

// Middleware traces requests: generates an ID, records the status, and logs
// completion with a level matching the outcome.
type Middleware struct {
	metrics *Metrics
}

func NewMiddleware(metrics *Metrics) *Middleware {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Middleware{metrics: metrics}
}

// Metrics exposes the counters backing this middleware.
func (m *Middleware) Metrics() *Metrics {
	return m.metrics
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rw, r.WithContext(ctx))
		duration := time.Since(start)

		atomic.AddInt64(&m.metrics.TotalRequests, 1)
		level := slog.LevelInfo
		switch {
		case rw.status >= 500:
			atomic.AddInt64(&m.metrics.ServerErrors, 1)
			level = slog.LevelError
		case rw.status >= 400:
			atomic.AddInt64(&m.metrics.ClientErrors, 1)
			level = slog.LevelWarn
		}

		slog.Default().Log(ctx, level, "HTTP request completed",
			applog.FieldRequestID, requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", duration.Milliseconds())
	})
}

// RequestIDFromContext returns the request ID assigned by the middleware,
// or an empty string outside a traced request.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
