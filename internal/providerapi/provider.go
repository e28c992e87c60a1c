// Package providerapi declares the capability interface every source-control
// hosting adapter (GitHub, GitLab, Bitbucket) must implement. No HTTP client
// lives here — raw provider adapters are out of this repository's scope;
// only the interface, its request/response types, and a deterministic
// in-memory fixture (see the fixture subpackage) do.
package providerapi

import (
	"context"
	"time"
)

// RepositoryRef identifies a repository; both fields are required.
type RepositoryRef struct {
	Owner string
	Repo  string
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Repo
}

// Notification is a raw, unfiltered notification as returned by a provider.
// SubjectType is compared case-insensitively by callers; only
// "pullrequest"/"pull_request" survive filtering upstream.
type Notification struct {
	ID          string
	SubjectType string
	PullNumber  *int
	Reason      string
	Unread      bool
	UpdatedAt   time.Time
}

// PullRequestSummary is the provider's view of one open pull request.
type PullRequestSummary struct {
	Repo         RepositoryRef
	Number       int
	Title        string
	HTMLURL      string
	State        string
	Draft        bool
	Author       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ChangedFiles int
	Additions    int
	Deletions    int
}

// UnresolvedComment is a single review thread comment. Line is coerced to
// 1 by callers when the provider reports it absent or non-positive.
type UnresolvedComment struct {
	File      string
	Line      int
	Author    string
	Body      string
	CreatedAt time.Time
	URL       string
	Resolved  bool
	Outdated  bool
}

// Job is one step of a FailureRun's workflow execution.
type Job struct {
	JobID          string
	Name           string
	HTMLURL        string
	FailedStepName string // empty when not reported
}

// FailureRun is one failed CI run, with its constituent jobs.
type FailureRun struct {
	RunID        string
	WorkflowName string
	WorkflowPath string // empty when not reported
	RunNumber    int
	RunAttempt   int
	HTMLURL      string
	Jobs         []Job
}

// PullRequestFile is a single changed file path.
type PullRequestFile struct {
	Path string
}

// AuthContext carries the per-provider auth token resolved from the
// request's environment at context setup.
type AuthContext struct {
	AuthToken string
}

// ListNotificationsParams bounds a notification listing call.
type ListNotificationsParams struct {
	Repo         RepositoryRef
	MaxItems     int
	IncludeRead  bool
}

// ListOpenPullRequestsParams bounds an open-PR listing call.
type ListOpenPullRequestsParams struct {
	MaxPullRequests int
}

// ListFailureRunsParams bounds a failure-run listing call. PRNumber and
// RunID are mutually optional filters; zero value means unset.
type ListFailureRunsParams struct {
	PRNumber int
	RunID    string
	MaxRuns  int
}

// ListPullRequestFilesParams bounds a file-list call.
type ListPullRequestFilesParams struct {
	MaxFiles int
}

// JobLogsParams bounds a job-log fetch.
type JobLogsParams struct {
	Repo         RepositoryRef
	JobID        string
	MaxLogBytes  int
}

// Provider is the full capability surface a hosting adapter exposes. All
// calls are non-mutating and return exactly one of a success value or a
// typed error (see internal/sentinelerr). Implementations must resolve
// their auth token before any network I/O and fail with
// sentinelerr.AuthMissing when it is absent.
type Provider interface {
	ListNotifications(ctx context.Context, params ListNotificationsParams, auth AuthContext) ([]Notification, error)
	ListOpenPullRequests(ctx context.Context, repo RepositoryRef, params ListOpenPullRequestsParams, auth AuthContext) ([]PullRequestSummary, error)
	GetPullRequestSummary(ctx context.Context, repo RepositoryRef, number int, auth AuthContext) (PullRequestSummary, error)
	ListUnresolvedComments(ctx context.Context, repo RepositoryRef, number int, auth AuthContext) ([]UnresolvedComment, error)
	ListFailureRuns(ctx context.Context, repo RepositoryRef, params ListFailureRunsParams, auth AuthContext) ([]FailureRun, error)
	ListPullRequestFiles(ctx context.Context, repo RepositoryRef, number int, params ListPullRequestFilesParams, auth AuthContext) ([]PullRequestFile, error)
	GetJobLogs(ctx context.Context, params JobLogsParams) (string, error)
	ResolveOpenPullRequestForBranch(ctx context.Context, repo RepositoryRef, branch string, auth AuthContext) (*int, error)
}
