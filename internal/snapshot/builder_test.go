package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi/fixture"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestBuild_AllSectionsOkOnHappyPath(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.PullRequests[repo.String()] = []providerapi.PullRequestSummary{
		{Repo: repo, Number: 1, Title: "Add retry budget", State: "open", UpdatedAt: time.Now()},
	}

	b := &Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}
	snap := b.Build(context.Background(), repo, providerapi.AuthContext{}, config.Default(), 10)

	require.Equal(t, "ok", snap.Sections.Score.Status)
	require.Equal(t, "ok", snap.Sections.Patterns.Status)
	require.Equal(t, "ok", snap.Sections.Inbox.Status)
	require.Equal(t, "ok", snap.Sections.Digest.Status)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), snap.Meta.GeneratedAt)
}

func TestBuild_OpenPRsFailureIsolatesItsSections(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.Err["ListOpenPullRequests"] = sentinelerr.New(sentinelerr.APIError, "boom")

	b := &Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Now()}}
	snap := b.Build(context.Background(), repo, providerapi.AuthContext{}, config.Default(), 10)

	require.Equal(t, "error", snap.Sections.Score.Status)
	require.Equal(t, "error", snap.Sections.Patterns.Status)
	require.Equal(t, "ok", snap.Sections.Inbox.Status)
	require.Equal(t, "ok", snap.Sections.Digest.Status)
}

func TestBuild_NotificationsFailureRequiredScopeIsFatal(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.Err["ListNotifications"] = sentinelerr.New(sentinelerr.APIError, "boom")

	cfg := config.Default()
	cfg.Inbox.RequireNotificationsScope = true

	b := &Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Now()}}
	snap := b.Build(context.Background(), repo, providerapi.AuthContext{}, cfg, 10)

	require.Equal(t, "error", snap.Sections.Inbox.Status)
	require.Equal(t, "error", snap.Sections.Digest.Status)
	require.Equal(t, "ok", snap.Sections.Score.Status)
}

func TestBuild_NotificationsFailureDegradesWhenScopeNotRequired(t *testing.T) {
	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	p.Err["ListNotifications"] = sentinelerr.New(sentinelerr.APIError, "boom")

	cfg := config.Default()
	cfg.Inbox.RequireNotificationsScope = false

	b := &Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Now()}}
	snap := b.Build(context.Background(), repo, providerapi.AuthContext{}, cfg, 10)

	require.Equal(t, "ok", snap.Sections.Inbox.Status)
	require.Equal(t, "ok", snap.Sections.Digest.Status)
}

func TestFailed_AllFourSectionsShareTheSameError(t *testing.T) {
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	snap := Failed(fixedClock{time.Now()}, repo, "github", sentinelerr.New(sentinelerr.ConfigNotFound, "no config"))

	require.Equal(t, "error", snap.Sections.Score.Status)
	require.Equal(t, snap.Sections.Score.Error.Code, snap.Sections.Digest.Error.Code)
	require.Equal(t, snap.Sections.Score.Error.Code, snap.Sections.Inbox.Error.Code)
	require.Equal(t, snap.Sections.Score.Error.Code, snap.Sections.Patterns.Error.Code)
}
