// Package fixture provides a deterministic in-memory Provider double used
// across the triage engine, snapshot builder, and scheduler tests, in the
// same spirit as any other hand-scripted in-memory test double.
package fixture

import (
	"context"
	"sort"
	"strconv"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

// Provider is a scriptable, deterministic providerapi.Provider. Its data
// maps are keyed by "owner/repo" unless a field notes another key;
// AuthToken, when set,
// must match the AuthContext passed to every call or AuthMissing is
// returned.
type Provider struct {
	AuthToken string

	Notifications map[string][]providerapi.Notification
	PullRequests  map[string][]providerapi.PullRequestSummary
	Comments      map[string][]providerapi.UnresolvedComment // key "owner/repo#number"
	FailureRuns   map[string][]providerapi.FailureRun         // key "owner/repo#number"
	Files         map[string][]providerapi.PullRequestFile    // key "owner/repo#number"
	JobLogs       map[string]string                           // key jobID

	// Err, when non-nil for a given method name, is returned instead of
	// the scripted data for that call.
	Err map[string]error
}

func New() *Provider {
	return &Provider{
		Notifications: map[string][]providerapi.Notification{},
		PullRequests:  map[string][]providerapi.PullRequestSummary{},
		Comments:      map[string][]providerapi.UnresolvedComment{},
		FailureRuns:   map[string][]providerapi.FailureRun{},
		Files:         map[string][]providerapi.PullRequestFile{},
		JobLogs:       map[string]string{},
		Err:           map[string]error{},
	}
}

func prKey(repo providerapi.RepositoryRef, number int) string {
	return repo.String() + "#" + strconv.Itoa(number)
}

func (p *Provider) checkAuth(auth providerapi.AuthContext) error {
	if p.AuthToken != "" && auth.AuthToken != p.AuthToken {
		return sentinelerr.New(sentinelerr.AuthMissing, "auth token missing or invalid")
	}
	return nil
}

func (p *Provider) ListNotifications(ctx context.Context, params providerapi.ListNotificationsParams, auth providerapi.AuthContext) ([]providerapi.Notification, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ListNotifications"]; err != nil {
		return nil, err
	}
	all := append([]providerapi.Notification{}, p.Notifications[params.Repo.String()]...)
	if !params.IncludeRead {
		filtered := all[:0]
		for _, n := range all {
			if n.Unread {
				filtered = append(filtered, n)
			}
		}
		all = filtered
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	if params.MaxItems > 0 && len(all) > params.MaxItems {
		all = all[:params.MaxItems]
	}
	return all, nil
}

func (p *Provider) ListOpenPullRequests(ctx context.Context, repo providerapi.RepositoryRef, params providerapi.ListOpenPullRequestsParams, auth providerapi.AuthContext) ([]providerapi.PullRequestSummary, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ListOpenPullRequests"]; err != nil {
		return nil, err
	}
	all := append([]providerapi.PullRequestSummary{}, p.PullRequests[repo.String()]...)
	if params.MaxPullRequests > 0 && len(all) > params.MaxPullRequests {
		all = all[:params.MaxPullRequests]
	}
	return all, nil
}

func (p *Provider) GetPullRequestSummary(ctx context.Context, repo providerapi.RepositoryRef, number int, auth providerapi.AuthContext) (providerapi.PullRequestSummary, error) {
	if err := p.checkAuth(auth); err != nil {
		return providerapi.PullRequestSummary{}, err
	}
	if err := p.Err["GetPullRequestSummary"]; err != nil {
		return providerapi.PullRequestSummary{}, err
	}
	for _, pr := range p.PullRequests[repo.String()] {
		if pr.Number == number {
			return pr, nil
		}
	}
	return providerapi.PullRequestSummary{}, sentinelerr.New(sentinelerr.APIError, "pull request %s#%d not found", repo, number)
}

func (p *Provider) ListUnresolvedComments(ctx context.Context, repo providerapi.RepositoryRef, number int, auth providerapi.AuthContext) ([]providerapi.UnresolvedComment, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ListUnresolvedComments"]; err != nil {
		return nil, err
	}
	return p.Comments[prKey(repo, number)], nil
}

func (p *Provider) ListFailureRuns(ctx context.Context, repo providerapi.RepositoryRef, params providerapi.ListFailureRunsParams, auth providerapi.AuthContext) ([]providerapi.FailureRun, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ListFailureRuns"]; err != nil {
		return nil, err
	}
	all := append([]providerapi.FailureRun{}, p.FailureRuns[prKey(repo, params.PRNumber)]...)
	if params.MaxRuns > 0 && len(all) > params.MaxRuns {
		all = all[:params.MaxRuns]
	}
	return all, nil
}

func (p *Provider) ListPullRequestFiles(ctx context.Context, repo providerapi.RepositoryRef, number int, params providerapi.ListPullRequestFilesParams, auth providerapi.AuthContext) ([]providerapi.PullRequestFile, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ListPullRequestFiles"]; err != nil {
		return nil, err
	}
	all := append([]providerapi.PullRequestFile{}, p.Files[prKey(repo, number)]...)
	if params.MaxFiles > 0 && len(all) > params.MaxFiles {
		all = all[:params.MaxFiles]
	}
	return all, nil
}

func (p *Provider) GetJobLogs(ctx context.Context, params providerapi.JobLogsParams) (string, error) {
	if err := p.Err["GetJobLogs"]; err != nil {
		return "", err
	}
	logs := p.JobLogs[params.JobID]
	if params.MaxLogBytes > 0 && len(logs) > params.MaxLogBytes {
		logs = logs[:params.MaxLogBytes]
	}
	return logs, nil
}

func (p *Provider) ResolveOpenPullRequestForBranch(ctx context.Context, repo providerapi.RepositoryRef, branch string, auth providerapi.AuthContext) (*int, error) {
	if err := p.checkAuth(auth); err != nil {
		return nil, err
	}
	if err := p.Err["ResolveOpenPullRequestForBranch"]; err != nil {
		return nil, err
	}
	return nil, nil
}
