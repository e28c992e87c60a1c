// Package scheduler wraps the snapshot builder in a single-flight
// periodic refresh loop with deterministic exponential backoff,
// last-known-good retention, and manual-refresh coalescing.
package scheduler

import (
	"time"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
)

// State is the scheduler's own view of what it is doing right now,
// distinct from the public Status document.
type State string

const (
	StateIdle       State = "idle"
	StateRefreshing State = "refreshing"
	StateBackingOff State = "backing_off"
)

// Status is the derived, read-only view handlers serve from cache.
type Status struct {
	Provider               string                    `json:"provider"`
	Repo                   providerapi.RepositoryRef `json:"repo"`
	Ready                  bool                      `json:"ready"`
	Stale                  bool                      `json:"stale"`
	GeneratedAt            time.Time                 `json:"generatedAt"`
	LastSuccessAt          *time.Time                `json:"lastSuccessAt,omitempty"`
	LastError              *ErrorInfo                `json:"lastError,omitempty"`
	BackoffSeconds         int                       `json:"backoffSeconds"`
	NextRefreshAt          time.Time                 `json:"nextRefreshAt"`
	RefreshIntervalSeconds int                       `json:"refreshIntervalSeconds"`
}

// ErrorInfo mirrors snapshot.SectionErrorInfo without importing the
// snapshot package's generic section type into the public status view.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
