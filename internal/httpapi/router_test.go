package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi/fixture"
	"github.com/vontajamal/sentinel-eye/internal/scheduler"
	"github.com/vontajamal/sentinel-eye/internal/snapshot"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestRouter(t *testing.T) (http.Handler, *config.Watcher) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sentinel-eye.json")
	cfg := config.Default()
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	watcher, err := config.NewWatcher(loaded, nil)
	require.NoError(t, err)

	p := fixture.New()
	repo := providerapi.RepositoryRef{Owner: "acme", Repo: "widgets"}
	builder := &snapshot.Builder{Provider: p, ProviderName: "github", Clock: fixedClock{time.Now()}}
	sch := scheduler.New(builder, repo, func() providerapi.AuthContext { return providerapi.AuthContext{} }, func() *config.Config { return watcher.Current().Config }, 60, builder.Clock, slog.Default())

	router := NewRouter(RouterConfig{Scheduler: sch, ConfigWatcher: watcher, Logger: slog.Default()})
	return router, watcher
}

func TestHealthz_NeverFails(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics_ServesPrometheusExposition(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestConfigGet_ReturnsLoadedConfig(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body configResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, config.SourceFile, body.Source)
}

func TestMethodNotAllowed_ReturnsEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/dashboard/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "E_DASHBOARD_METHOD_NOT_ALLOWED", body.Code)
}

func TestRefresh_TriggersSingleFlightRefresh(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
