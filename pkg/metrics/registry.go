// Package metrics provides centralized Prometheus metrics management for
// sentinel-eye.
//
// This package implements a three-category taxonomy:
//   - Engine metrics: triage pipeline duration, PRs processed, section errors
//   - Scheduler metrics: refresh outcomes, backoff seconds, staleness
//   - HTTP metrics: request count, duration, status code
//
// All metrics follow the naming convention:
// sentinel_eye_<category>_<metric_name>_<unit>
//
// Example:
//
//	registry := metrics.DefaultRegistry()
//	registry.Engine().PullRequestsProcessedTotal.Inc()
package metrics

import "sync"

// MetricsRegistry is the central registry for all Prometheus metrics.
// Categories are lazy-initialized on first access.
//
// Thread-safe: all Prometheus metrics are thread-safe by design.
// Singleton: use DefaultRegistry() to get the global instance.
type MetricsRegistry struct {
	namespace string

	engine    *EngineMetrics
	scheduler *SchedulerMetrics
	http      *HTTPMetrics

	engineOnce    sync.Once
	schedulerOnce sync.Once
	httpOnce      sync.Once
}

var (
	defaultRegistry     *MetricsRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global singleton MetricsRegistry.
func DefaultRegistry() *MetricsRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewMetricsRegistry("sentinel_eye")
	})
	return defaultRegistry
}

// NewMetricsRegistry creates a new MetricsRegistry with the given
// namespace. Most callers should use DefaultRegistry() instead.
func NewMetricsRegistry(namespace string) *MetricsRegistry {
	if namespace == "" {
		namespace = "sentinel_eye"
	}
	return &MetricsRegistry{namespace: namespace}
}

// Engine returns the triage engine metrics manager, lazy-initialized.
func (r *MetricsRegistry) Engine() *EngineMetrics {
	r.engineOnce.Do(func() {
		r.engine = NewEngineMetrics(r.namespace)
	})
	return r.engine
}

// Scheduler returns the refresh scheduler metrics manager, lazy-initialized.
func (r *MetricsRegistry) Scheduler() *SchedulerMetrics {
	r.schedulerOnce.Do(func() {
		r.scheduler = NewSchedulerMetrics(r.namespace)
	})
	return r.scheduler
}

// HTTP returns the HTTP surface metrics manager, lazy-initialized.
func (r *MetricsRegistry) HTTP() *HTTPMetrics {
	r.httpOnce.Do(func() {
		r.http = NewHTTPMetrics(r.namespace)
	})
	return r.http
}

// Namespace returns the configured Prometheus namespace.
func (r *MetricsRegistry) Namespace() string {
	return r.namespace
}
