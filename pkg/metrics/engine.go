package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics instruments the triage pipeline: per-build duration,
// pull-request throughput, and per-section failure counts.
type EngineMetrics struct {
	BuildDuration          prometheus.Histogram
	PullRequestsProcessedTotal prometheus.Counter
	SectionErrorsTotal      *prometheus.CounterVec
}

// NewEngineMetrics registers and returns the engine metric collectors.
func NewEngineMetrics(namespace string) *EngineMetrics {
	m := &EngineMetrics{
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "build_duration_seconds",
			Help:      "Wall-clock duration of one snapshot build.",
			Buckets:   prometheus.DefBuckets,
		}),
		PullRequestsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "pull_requests_processed_total",
			Help:      "Total pull requests scored by the triage engine.",
		}),
		SectionErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "section_errors_total",
			Help:      "Section build failures by section name and error code.",
		}, []string{"section", "code"}),
	}
	prometheus.MustRegister(m.BuildDuration, m.PullRequestsProcessedTotal, m.SectionErrorsTotal)
	return m
}
