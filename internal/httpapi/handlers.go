package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/scheduler"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

// healthResponse is the never-failing /healthz payload.
type healthResponse struct {
	OK            bool      `json:"ok"`
	Ready         bool      `json:"ready"`
	Stale         bool      `json:"stale"`
	GeneratedAt   time.Time `json:"generatedAt"`
	NextRefreshAt time.Time `json:"nextRefreshAt"`
}

func healthHandler(sch *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := sch.StatusView()
		writeJSON(w, http.StatusOK, healthResponse{
			OK:            true,
			Ready:         status.Ready,
			Stale:         status.Stale,
			GeneratedAt:   status.GeneratedAt,
			NextRefreshAt: status.NextRefreshAt,
		})
	}
}

func statusHandler(sch *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sch.StatusView())
	}
}

func snapshotHandler(sch *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sch.Latest())
	}
}

func refreshHandler(sch *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := sch.Refresh(r.Context())
		writeJSON(w, http.StatusOK, struct {
			Status   scheduler.Status `json:"status"`
			Snapshot interface{}      `json:"snapshot"`
		}{
			Status:   sch.StatusView(),
			Snapshot: snap,
		})
	}
}

type configResponse struct {
	ConfigPath string         `json:"configPath"`
	Source     config.Source  `json:"source"`
	Config     *config.Config `json:"config"`
}

func getConfigHandler(watcher *config.Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded := watcher.Current()
		writeJSON(w, http.StatusOK, configResponse{
			ConfigPath: loaded.Path,
			Source:     loaded.Source,
			Config:     loaded.Config,
		})
	}
}

type putConfigRequest struct {
	Config config.Config `json:"config"`
}

func putConfigHandler(watcher *config.Watcher, sch *scheduler.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body putConfigRequest
		if err := decodeJSON(r, &body); err != nil {
			writeErrorCode(w, sentinelerr.ArgInvalid, "malformed request body: "+err.Error())
			return
		}

		cfg := body.Config
		if err := config.Validate(&cfg); err != nil {
			writeError(w, err)
			return
		}

		path := watcher.Current().Path
		if err := config.Write(path, &cfg); err != nil {
			writeError(w, err)
			return
		}

		loaded := &config.Loaded{Config: &cfg, Path: path, Source: config.SourceFile}
		writeJSON(w, http.StatusOK, configResponse{
			ConfigPath: loaded.Path,
			Source:     loaded.Source,
			Config:     loaded.Config,
		})

		go sch.Refresh(context.Background())
	}
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeErrorCode(w, sentinelerr.DashboardMethodNotAllowed, "method "+r.Method+" not allowed for "+r.URL.Path)
}
