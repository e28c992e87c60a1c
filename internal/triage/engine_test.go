package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi/fixture"
)

func testConfig() *config.Config {
	return config.Default()
}

func seedProvider(t *testing.T, n int) (*fixture.Provider, providerapi.RepositoryRef) {
	t.Helper()
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	for i := 1; i <= n; i++ {
		p.PullRequests[repo.String()] = append(p.PullRequests[repo.String()], providerapi.PullRequestSummary{
			Repo:         repo,
			Number:       i,
			Title:        "Fix flaky retry handling in worker pool",
			HTMLURL:      "https://example.test/pr/" + string(rune('0'+i)),
			State:        "open",
			Author:       "octocat",
			CreatedAt:    time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC),
			ChangedFiles: 3,
			Additions:    10,
			Deletions:    5,
		})
	}
	return p, repo
}

func TestRun_PriorityScoreInvariant(t *testing.T) {
	p, repo := seedProvider(t, 3)
	cfg := testConfig()

	var items []WorkItem
	for i := 1; i <= 3; i++ {
		items = append(items, WorkItem{Repo: repo, PRNumber: i})
	}

	result, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.NoError(t, err)

	for _, item := range result.Items {
		require.GreaterOrEqual(t, item.PriorityScore, 0)
		require.LessOrEqual(t, item.PriorityScore, 100)
		require.Equal(t, 100, item.PriorityScore+item.TrustScore)
	}
}

func TestRun_CanonicalOrderingHasNoInversion(t *testing.T) {
	p, repo := seedProvider(t, 5)
	cfg := testConfig()

	var items []WorkItem
	for i := 1; i <= 5; i++ {
		items = append(items, WorkItem{Repo: repo, PRNumber: i})
	}

	result, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.NoError(t, err)

	for i := 1; i < len(result.Items); i++ {
		require.False(t, itemLess(result.Items[i], result.Items[i-1]), "inversion at index %d", i)
	}
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	p, repo := seedProvider(t, 4)
	cfg := testConfig()

	var items []WorkItem
	for i := 1; i <= 4; i++ {
		items = append(items, WorkItem{Repo: repo, PRNumber: i})
	}

	r1, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.NoError(t, err)
	r2, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.NoError(t, err)

	require.Equal(t, len(r1.Items), len(r2.Items))
	for i := range r1.Items {
		require.Equal(t, r1.Items[i].PriorityScore, r2.Items[i].PriorityScore)
		require.Equal(t, r1.Items[i].TitleFingerprint, r2.Items[i].TitleFingerprint)
	}
}

func TestRun_ClusterSizeInvariant(t *testing.T) {
	p, repo := seedProvider(t, 4)
	cfg := testConfig()
	cfg.Patterns.MinClusterSize = 2

	var items []WorkItem
	for i := 1; i <= 4; i++ {
		items = append(items, WorkItem{Repo: repo, PRNumber: i})
	}

	result, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.NoError(t, err)

	for _, c := range result.Clusters {
		require.Equal(t, len(c.PullRequests), c.Size)
		require.GreaterOrEqual(t, c.Size, cfg.Patterns.MinClusterSize)
	}
}

func TestRun_EnrichmentFailureAbortsSection(t *testing.T) {
	p, repo := seedProvider(t, 2)
	p.Err["ListUnresolvedComments"] = &testErr{}
	cfg := testConfig()

	items := []WorkItem{{Repo: repo, PRNumber: 1}, {Repo: repo, PRNumber: 2}}
	_, err := Run(context.Background(), p, providerapi.AuthContext{}, cfg, items, 0)
	require.Error(t, err)
}

type testErr struct{}

func (e *testErr) Error() string { return "boom" }
