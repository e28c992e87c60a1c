// Package snapshot orchestrates the two independent triage sub-pipelines
// (open pull requests, notifications) into a single four-section
// dashboard snapshot, isolating failures per section.
package snapshot

import (
	"time"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/triage"
)

// Clock abstracts time.Now so generatedAt is injectable and deterministic
// in tests; generatedAt is never taken from time.Now() directly (the
// builder reads the wall clock only to time itself for metrics).
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock is the production Clock implementation.
var RealClock Clock = realClock{}

// SectionErrorInfo is the serialized {code, message, remediation?,
// details?} shape carried by an error section.
type SectionErrorInfo struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Remediation string                 `json:"remediation,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// DashboardSection is the tagged union every snapshot section uses: a
// section holds either Data (status "ok") or Error (status "error"),
// never both.
type DashboardSection[T any] struct {
	Status string            `json:"status"`
	Data   *T                `json:"data,omitempty"`
	Error  *SectionErrorInfo `json:"error,omitempty"`
}

func ok[T any](data T) DashboardSection[T] {
	return DashboardSection[T]{Status: "ok", Data: &data}
}

func errSection[T any](info SectionErrorInfo) DashboardSection[T] {
	return DashboardSection[T]{Status: "error", Error: &info}
}

// errorCode reports the section's error code when Status is "error",
// used by the caller to attribute per-section failure metrics.
func (s DashboardSection[T]) errorCode() (string, bool) {
	if s.Status != "error" || s.Error == nil {
		return "", false
	}
	return s.Error.Code, true
}

// DigestItem is one entry in the digest section, capped to maxDigestItems.
type DigestItem = *triage.ScoredPullRequest

// ScoreSection carries the full scored item list for a repository.
type ScoreSection struct {
	Items []*triage.ScoredPullRequest `json:"items"`
}

// PatternsSection carries the cluster list for a repository.
type PatternsSection struct {
	Clusters []triage.PatternCluster `json:"clusters"`
}

// InboxSection carries the notification-path scored items.
type InboxSection struct {
	Items []*triage.ScoredPullRequest `json:"items"`
}

// DigestSection carries the top-N notification-path items.
type DigestSection struct {
	TopPriorities []DigestItem `json:"topPriorities"`
}

// Meta is the snapshot-wide envelope shared by every section.
type Meta struct {
	Repo                   providerapi.RepositoryRef `json:"repo"`
	Provider               string                     `json:"provider"`
	GeneratedAt            time.Time                  `json:"generatedAt"`
	Stale                  bool                       `json:"stale"`
	BackoffSeconds         int                        `json:"backoffSeconds"`
	NextRefreshAt          time.Time                  `json:"nextRefreshAt"`
	RefreshIntervalSeconds int                        `json:"refreshIntervalSeconds"`
}

// Snapshot is the full four-section dashboard payload.
type Snapshot struct {
	Meta     Meta                            `json:"meta"`
	Sections SectionsView                    `json:"sections"`
}

// SectionsView groups the four independently-failing sections.
type SectionsView struct {
	Digest   DashboardSection[DigestSection]   `json:"digest"`
	Inbox    DashboardSection[InboxSection]    `json:"inbox"`
	Score    DashboardSection[ScoreSection]    `json:"score"`
	Patterns DashboardSection[PatternsSection] `json:"patterns"`
}
