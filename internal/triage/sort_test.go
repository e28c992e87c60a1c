package triage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vontajamal/sentinel-eye/internal/providerapi"
)

func TestSortClusters_WithinClusterIgnoresUnresolvedCommentsAndFailingRuns(t *testing.T) {
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	pr1 := &ScoredPullRequest{Repo: repo, Number: 1, PriorityScore: 50, UnresolvedComments: 1, FailingRuns: 0}
	pr2 := &ScoredPullRequest{Repo: repo, Number: 2, PriorityScore: 50, UnresolvedComments: 9, FailingRuns: 9}

	clusters := []PatternCluster{{
		Type:         ClusterPathArea,
		Key:          "worker",
		Size:         2,
		PullRequests: []*ScoredPullRequest{pr2, pr1},
	}}

	sortClusters(clusters)

	require.Equal(t, 1, clusters[0].PullRequests[0].Number)
	require.Equal(t, 2, clusters[0].PullRequests[1].Number)
}

func TestClusterItemLess_PriorityScoreThenOwnerRepoThenNumber(t *testing.T) {
	higher := &ScoredPullRequest{Repo: providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}, Number: 5, PriorityScore: 80}
	lower := &ScoredPullRequest{Repo: providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}, Number: 1, PriorityScore: 10}
	require.True(t, clusterItemLess(higher, lower))
	require.False(t, clusterItemLess(lower, higher))

	sameScoreEarlierRepo := &ScoredPullRequest{Repo: providerapi.RepositoryRef{Owner: "acme", Repo: "alpha"}, Number: 9, PriorityScore: 50}
	sameScoreLaterRepo := &ScoredPullRequest{Repo: providerapi.RepositoryRef{Owner: "acme", Repo: "beta"}, Number: 1, PriorityScore: 50}
	require.True(t, clusterItemLess(sameScoreEarlierRepo, sameScoreLaterRepo))
}
