package triage

import (
	"context"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
)

// enrichOne fetches whatever a work item is missing: summary (skipped if
// provided), unresolved comments, failure runs capped by
// maxFailureRunsPerPullRequest, and the file list capped by
// maxFilesPerPullRequest. Any provider failure aborts the containing
// section with SectionError — the engine never emits partial PRs.
func enrichOne(ctx context.Context, provider providerapi.Provider, auth providerapi.AuthContext, cfg *Config, item WorkItem) (*enriched, error) {
	var summary providerapi.PullRequestSummary
	if item.Summary != nil {
		summary = *item.Summary
	} else {
		s, err := provider.GetPullRequestSummary(ctx, item.Repo, item.PRNumber, auth)
		if err != nil {
			return nil, &SectionError{PRKey: itemKey(item), Err: err}
		}
		summary = s
	}

	comments, err := provider.ListUnresolvedComments(ctx, item.Repo, item.PRNumber, auth)
	if err != nil {
		return nil, &SectionError{PRKey: itemKey(item), Err: err}
	}
	unresolvedCount := 0
	for _, c := range comments {
		if !c.Resolved {
			unresolvedCount++
		}
	}

	runs, err := provider.ListFailureRuns(ctx, item.Repo, providerapi.ListFailureRunsParams{
		PRNumber: item.PRNumber,
		MaxRuns:  cfg.Limits.MaxFailureRunsPerPullRequest,
	}, auth)
	if err != nil {
		return nil, &SectionError{PRKey: itemKey(item), Err: err}
	}

	files, err := provider.ListPullRequestFiles(ctx, item.Repo, item.PRNumber, providerapi.ListPullRequestFilesParams{
		MaxFiles: cfg.Limits.MaxFilesPerPullRequest,
	}, auth)
	if err != nil {
		return nil, &SectionError{PRKey: itemKey(item), Err: err}
	}

	return &enriched{
		workItem:           item,
		summary:            summary,
		unresolvedComments: unresolvedCount,
		failureRuns:        runs,
		files:              files,
	}, nil
}

// enrichAll enriches every work item, aborting the whole section on the
// first failure (enrichment is independent per field but the section as
// a whole never emits partial PRs).
func enrichAll(ctx context.Context, provider providerapi.Provider, auth providerapi.AuthContext, cfg *Config, items []WorkItem) ([]*enriched, error) {
	out := make([]*enriched, 0, len(items))
	for _, item := range items {
		e, err := enrichOne(ctx, provider, auth, cfg, item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
