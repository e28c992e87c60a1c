package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics instruments the refresh loop: outcome counts, current
// backoff, and staleness.
type SchedulerMetrics struct {
	RefreshesTotal   *prometheus.CounterVec
	BackoffSeconds   prometheus.Gauge
	Stale            prometheus.Gauge
	RefreshDuration  prometheus.Histogram
}

// NewSchedulerMetrics registers and returns the scheduler metric collectors.
func NewSchedulerMetrics(namespace string) *SchedulerMetrics {
	m := &SchedulerMetrics{
		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "refreshes_total",
			Help:      "Refresh attempts by outcome (ok, retryable, failed, panic).",
		}, []string{"outcome"}),
		BackoffSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "backoff_seconds",
			Help:      "Current backoff delay before the next refresh attempt.",
		}),
		Stale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "stale",
			Help:      "1 when the published snapshot is stale, 0 otherwise.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "refresh_duration_seconds",
			Help:      "Wall-clock duration of one refresh cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	prometheus.MustRegister(m.RefreshesTotal, m.BackoffSeconds, m.Stale, m.RefreshDuration)
	return m
}
