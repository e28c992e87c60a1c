package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi/fixture"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
	"github.com/vontajamal/sentinel-eye/internal/snapshot"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestScheduler(t *testing.T, p *fixture.Provider, cfg *config.Config) *Scheduler {
	t.Helper()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	builder := &snapshot.Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}
	return New(builder, repo, func() providerapi.AuthContext { return providerapi.AuthContext{} }, func() *config.Config { return cfg }, 60, builder.Clock, nil)
}

func TestScheduler_InitialStateIsPending(t *testing.T) {
	p := fixture.New()
	s := newTestScheduler(t, p, config.Default())

	snap := s.Latest()
	require.Equal(t, "error", snap.Sections.Score.Status)
	require.Equal(t, string(sentinelerr.DashboardPending), snap.Sections.Score.Error.Code)
	require.False(t, s.StatusView().Ready)
}

func TestScheduler_SuccessfulRefreshMarksReadyAndClearsStale(t *testing.T) {
	p := fixture.New()
	s := newTestScheduler(t, p, config.Default())

	s.Refresh(context.Background())
	status := s.StatusView()

	require.True(t, status.Ready)
	require.False(t, status.Stale)
	require.Equal(t, 0, status.BackoffSeconds)
	require.NotNil(t, status.LastSuccessAt)
}

func TestScheduler_RetryableFailureAfterSuccessKeepsLastKnownGood(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.PullRequests[repo.String()] = []providerapi.PullRequestSummary{{Repo: repo, Number: 1, Title: "x", UpdatedAt: time.Now()}}
	s := newTestScheduler(t, p, config.Default())

	s.Refresh(context.Background())
	goodSnapshot := s.Latest()

	p.Err["ListOpenPullRequests"] = sentinelerr.New(sentinelerr.APIError, "status=503 upstream down")
	s.Refresh(context.Background())

	status := s.StatusView()
	require.True(t, status.Stale)
	require.Greater(t, status.BackoffSeconds, 0)
	require.Equal(t, goodSnapshot.Sections.Score.Data, s.Latest().Sections.Score.Data)
	require.Equal(t, goodSnapshot.Meta.GeneratedAt, s.Latest().Meta.GeneratedAt)
	require.Equal(t, goodSnapshot.Meta.GeneratedAt, *status.LastSuccessAt)
}

func TestScheduler_ExplicitRetryAfterDetailsOverridesBackoffDoubling(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.PullRequests[repo.String()] = []providerapi.PullRequestSummary{{Repo: repo, Number: 1, Title: "x", UpdatedAt: time.Now()}}
	s := newTestScheduler(t, p, config.Default())

	s.Refresh(context.Background())

	p.Err["ListOpenPullRequests"] = sentinelerr.New(sentinelerr.APIError, "upstream rate limited").WithDetails(map[string]interface{}{
		"retryAfterSeconds": 300,
	})
	s.Refresh(context.Background())

	status := s.StatusView()
	require.True(t, status.Stale)
	require.Equal(t, 300, status.BackoffSeconds)
}

func TestScheduler_NonRetryableFailurePublishesAsIs(t *testing.T) {
	p := fixture.New()
	p.Err["ListOpenPullRequests"] = sentinelerr.New(sentinelerr.ProviderUnsupported, "provider not supported")
	s := newTestScheduler(t, p, config.Default())

	s.Refresh(context.Background())
	status := s.StatusView()

	require.True(t, status.Ready)
	require.Nil(t, status.LastSuccessAt)
	require.False(t, status.Stale)
	require.Equal(t, 0, status.BackoffSeconds)
}

func TestScheduler_ManualRefreshCoalescesWithInFlight(t *testing.T) {
	p := fixture.New()
	s := newTestScheduler(t, p, config.Default())

	var a, b snapshot.Snapshot
	done := make(chan struct{}, 2)
	go func() { a = s.Refresh(context.Background()); done <- struct{}{} }()
	go func() { b = s.Refresh(context.Background()); done <- struct{}{} }()
	<-done
	<-done

	require.Equal(t, a.Meta.GeneratedAt, b.Meta.GeneratedAt)
}
