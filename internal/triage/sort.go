package triage

import "sort"

// canonicalSort orders items by priorityScore desc, unresolvedComments
// desc, failingRuns desc, "{owner}/{repo}" asc, prNumber asc.
func canonicalSort(items []*ScoredPullRequest) {
	sort.SliceStable(items, func(i, j int) bool {
		return itemLess(items[i], items[j])
	})
}

func itemLess(a, b *ScoredPullRequest) bool {
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}
	if a.UnresolvedComments != b.UnresolvedComments {
		return a.UnresolvedComments > b.UnresolvedComments
	}
	if a.FailingRuns != b.FailingRuns {
		return a.FailingRuns > b.FailingRuns
	}
	ao, bo := a.RepoOwner(), b.RepoOwner()
	if ao != bo {
		return ao < bo
	}
	return a.Number < b.Number
}

// sortClusters orders clusters by size desc, then "{type}:{key}" asc.
// Within each cluster, pull requests are sorted by priorityScore desc,
// then "{owner}/{repo}" asc, then prNumber asc — a distinct, narrower
// key set than canonicalSort's report-level ordering: unresolvedComments
// and failingRuns are never tiebreakers here.
func sortClusters(clusters []PatternCluster) {
	for i := range clusters {
		clusterItemSort(clusters[i].PullRequests)
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return string(a.Type)+":"+a.Key < string(b.Type)+":"+b.Key
	})
}

func clusterItemSort(items []*ScoredPullRequest) {
	sort.SliceStable(items, func(i, j int) bool {
		return clusterItemLess(items[i], items[j])
	})
}

func clusterItemLess(a, b *ScoredPullRequest) bool {
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}
	ao, bo := a.RepoOwner(), b.RepoOwner()
	if ao != bo {
		return ao < bo
	}
	return a.Number < b.Number
}
