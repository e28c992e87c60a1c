package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTPMetrics instruments the dashboard HTTP surface.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics registers and returns the HTTP metric collectors.
func NewHTTPMetrics(namespace string) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	prometheus.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

// RecordRequest observes a completed HTTP request on both collectors.
func (m *HTTPMetrics) RecordRequest(method, path string, status int, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
