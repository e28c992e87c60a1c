// Package triage implements the deterministic dedupe → enrich → feature
// extraction → cluster → score → sort pipeline that turns raw provider
// replies into scored, clustered pull request reports.
package triage

import (
	"time"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
)

// WorkItem is one unit of input to the engine: a PR reference optionally
// pre-populated with a summary and/or the notification that surfaced it.
type WorkItem struct {
	Repo         providerapi.RepositoryRef
	PRNumber     int
	Summary      *providerapi.PullRequestSummary
	Notification *providerapi.Notification
}

// Breakdown carries the five weighted scoring contributions verbatim,
// for auditability.
type Breakdown struct {
	FailingRuns        float64 `json:"failingRuns"`
	UnresolvedComments float64 `json:"unresolvedComments"`
	ChangedFiles       float64 `json:"changedFiles"`
	LinesChanged       float64 `json:"linesChanged"`
	DuplicatePeers     float64 `json:"duplicatePeers"`
}

// NotificationMeta is the optional notification context attached to a
// scored pull request when the work item originated from one.
type NotificationMeta struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Unread    bool      `json:"unread"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScoredPullRequest is a fully enriched, featurized, clustered, and
// scored pull request.
type ScoredPullRequest struct {
	Repo         providerapi.RepositoryRef `json:"-"`
	Number       int                       `json:"number"`
	Title        string                    `json:"title"`
	HTMLURL      string                    `json:"htmlUrl"`
	State        string                    `json:"state"`
	Draft        bool                      `json:"draft"`
	Author       string                    `json:"author"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	ChangedFiles int                       `json:"changedFiles"`
	Additions    int                       `json:"additions"`
	Deletions    int                       `json:"deletions"`
	LinesChanged int                       `json:"linesChanged"`

	PathAreas         []string `json:"pathAreas"`
	TitleFingerprint  string   `json:"titleFingerprint"`
	FailureSignatures []string `json:"failureSignatures"`

	UnresolvedComments int `json:"unresolvedComments"`
	FailingRuns        int `json:"failingRuns"`
	DuplicatePeers     int `json:"duplicatePeers"`

	Breakdown     Breakdown `json:"breakdown"`
	RiskPoints    float64   `json:"riskPoints"`
	PriorityScore int       `json:"priorityScore"`
	TrustScore    int       `json:"trustScore"`

	Notification *NotificationMeta `json:"notification,omitempty"`
}

// RepoOwner returns "{owner}/{repo}" for canonical-ordering comparisons.
func (s *ScoredPullRequest) RepoOwner() string {
	return s.Repo.String()
}

// ClusterType enumerates the three membership kinds §4.3.4 builds.
type ClusterType string

const (
	ClusterPathArea        ClusterType = "path-area"
	ClusterTitleFingerprint ClusterType = "title-fingerprint"
	ClusterFailureSignature ClusterType = "failure-signature"
)

// PatternCluster is a group of pull requests sharing a feature key, with
// at least config.patterns.minClusterSize members.
type PatternCluster struct {
	Type          ClusterType          `json:"type"`
	Key           string               `json:"key"`
	Size          int                  `json:"size"`
	PullRequests  []*ScoredPullRequest `json:"pullRequests"`
}

// ScoreResult is the engine's full output: downstream reports slice this
// without re-sorting.
type ScoreResult struct {
	Items    []*ScoredPullRequest `json:"items"`
	Clusters []PatternCluster     `json:"clusters"`
}

// SectionError aborts the containing section build when enrichment fails
// for an individual pull request.
type SectionError struct {
	PRKey string
	Err   error
}

func (e *SectionError) Error() string {
	return e.Err.Error()
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// enriched is an internal per-item accumulator threaded through the
// pipeline stages before feature extraction.
type enriched struct {
	workItem WorkItem
	summary  providerapi.PullRequestSummary

	unresolvedComments int
	failureRuns        []providerapi.FailureRun
	files              []providerapi.PullRequestFile
}

// Config aliases the full loaded configuration (config.Config), which
// the triage engine receives explicitly on every call.
type Config = config.Config
