package triage

import (
	"context"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
)

// Run executes the full dedupe → enrich → feature extraction → cluster →
// score → sort pipeline against a list of work items and returns the
// items sliced to limit (0 means unlimited) plus every cluster meeting
// the configured minimum size. Output = {items, clusters}; downstream
// reports slice these without re-sorting.
func Run(ctx context.Context, provider providerapi.Provider, auth providerapi.AuthContext, cfg *Config, workItems []WorkItem, limit int) (*ScoreResult, error) {
	deduped := dedupe(workItems)

	enrichedItems, err := enrichAll(ctx, provider, auth, cfg, deduped)
	if err != nil {
		return nil, err
	}

	items := make([]*ScoredPullRequest, 0, len(enrichedItems))
	for _, e := range enrichedItems {
		items = append(items, buildFeatures(e, cfg))
	}

	rawClusters, peers := buildClusters(items, cfg.Patterns.MinClusterSize)
	for i, item := range items {
		item.DuplicatePeers = len(peers[i])
	}

	for _, item := range items {
		score(item, cfg)
	}

	patternClusters := make([]PatternCluster, 0, len(rawClusters))
	for _, c := range rawClusters {
		prs := make([]*ScoredPullRequest, 0, len(c.indices))
		for _, idx := range c.indices {
			prs = append(prs, items[idx])
		}
		patternClusters = append(patternClusters, PatternCluster{
			Type:         c.clusterType,
			Key:          c.key,
			Size:         len(c.indices),
			PullRequests: prs,
		})
	}
	sortClusters(patternClusters)

	canonicalSort(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return &ScoreResult{Items: items, Clusters: patternClusters}, nil
}

func buildFeatures(e *enriched, cfg *Config) *ScoredPullRequest {
	var views []failureRunView
	for _, r := range e.failureRuns {
		var jobs []jobView
		for _, j := range r.Jobs {
			jobs = append(jobs, jobView{Name: j.Name, FailedStepName: j.FailedStepName})
		}
		views = append(views, failureRunView{WorkflowName: r.WorkflowName, WorkflowPath: r.WorkflowPath, Jobs: jobs})
	}

	paths := make([]string, 0, len(e.files))
	for _, f := range e.files {
		paths = append(paths, f.Path)
	}

	item := &ScoredPullRequest{
		Repo:               e.workItem.Repo,
		Number:             e.summary.Number,
		Title:              e.summary.Title,
		HTMLURL:            e.summary.HTMLURL,
		State:              e.summary.State,
		Draft:              e.summary.Draft,
		Author:             e.summary.Author,
		CreatedAt:          e.summary.CreatedAt,
		UpdatedAt:          e.summary.UpdatedAt,
		ChangedFiles:       e.summary.ChangedFiles,
		Additions:          e.summary.Additions,
		Deletions:          e.summary.Deletions,
		LinesChanged:       e.summary.Additions + e.summary.Deletions,
		PathAreas:          pathAreas(paths, cfg.Patterns.PathDepth),
		TitleFingerprint:   titleFingerprint(e.summary.Title, cfg.Patterns.MinTitleTokenLength, cfg.Patterns.MaxTitleTokens),
		FailureSignatures:  failureSignatures(views),
		UnresolvedComments: e.unresolvedComments,
		FailingRuns:        len(e.failureRuns),
	}
	if e.workItem.Notification != nil {
		n := e.workItem.Notification
		item.Notification = &NotificationMeta{
			ID:        n.ID,
			Reason:    n.Reason,
			Unread:    n.Unread,
			UpdatedAt: n.UpdatedAt,
		}
	}
	if item.Number == 0 {
		item.Number = e.workItem.PRNumber
	}
	return item
}
