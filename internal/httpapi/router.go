// Package httpapi serves the dashboard HTTP surface: health, status,
// snapshot, manual refresh, config read/write, static assets, and an
// additive OpenAPI doc endpoint.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/scheduler"
	"github.com/vontajamal/sentinel-eye/pkg/metrics"
)

// RouterConfig configures the router's dependencies and static asset root.
type RouterConfig struct {
	Scheduler      *scheduler.Scheduler
	ConfigWatcher  *config.Watcher
	Logger         *slog.Logger
	Metrics        *metrics.HTTPMetrics
	AssetRoot      string
	EnableAssets   bool
}

// NewRouter builds the dashboard mux.Router. Middleware order (global,
// always applied): RequestID, then Logging, regardless of which optional
// features (assets, metrics) are enabled.
//
// @title sentinel-eye dashboard API
// @version 1.0.0
// @description Maintainer-side pull request triage dashboard
// @BasePath /api/v1
// @schemes http
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware(cfg.Logger, cfg.Metrics))
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	router.HandleFunc("/healthz", healthHandler(cfg.Scheduler)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Dashboard routes are registered on the root router with full paths:
	// a mux subrouter's shared prefix matcher clears a method mismatch
	// recorded by an earlier sibling route, turning a 405 into a 404.
	const v1 = "/api/v1/dashboard"
	router.HandleFunc(v1+"/status", statusHandler(cfg.Scheduler)).Methods("GET")
	router.HandleFunc(v1+"/snapshot", snapshotHandler(cfg.Scheduler)).Methods("GET")
	router.HandleFunc(v1+"/refresh", refreshHandler(cfg.Scheduler)).Methods("POST")
	router.HandleFunc(v1+"/config", getConfigHandler(cfg.ConfigWatcher)).Methods("GET")
	router.HandleFunc(v1+"/config", putConfigHandler(cfg.ConfigWatcher, cfg.Scheduler)).Methods("PUT")
	router.PathPrefix(v1 + "/docs").Handler(httpSwagger.WrapHandler)

	if cfg.EnableAssets {
		router.PathPrefix("/").HandlerFunc(assetHandler(cfg.AssetRoot)).Methods("GET")
	}

	return router
}
