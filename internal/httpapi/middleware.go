package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vontajamal/sentinel-eye/pkg/metrics"
)

// routeTemplate resolves the matched mux route's path template (e.g.
// "/api/v1/dashboard/snapshot") so metrics aren't cardinality-bombed by
// raw paths; it falls back to the raw path when no route matched.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDHeader is the header carrying the per-request correlation ID,
// generated if the caller did not supply one.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware generates or extracts the request ID and adds it
// to both the request context and the response headers.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context, or "" if absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// loggingMiddleware logs every request with structured fields once it
// completes and, when m is non-nil, records it on the HTTP metric
// collectors keyed by the matched route template rather than the raw path.
func loggingMiddleware(logger *slog.Logger, m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			routePath := routeTemplate(r)

			logger.Info("http request",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", duration.Milliseconds(),
				"size_bytes", sw.size,
				"remote_addr", r.RemoteAddr,
			)

			if m != nil {
				m.RecordRequest(r.Method, routePath, sw.status, duration.Seconds())
			}
		})
	}
}
