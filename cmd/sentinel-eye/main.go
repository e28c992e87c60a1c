// Package main is the entry point for sentinel-eye: the serve and
// validate-config subcommands are deliberately the only CLI surface this
// repository exposes; rendering and provider clients live elsewhere.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/httpapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/providerapi/fixture"
	"github.com/vontajamal/sentinel-eye/internal/scheduler"
	"github.com/vontajamal/sentinel-eye/internal/snapshot"
	"github.com/vontajamal/sentinel-eye/pkg/logger"
	"github.com/vontajamal/sentinel-eye/pkg/metrics"
)

const (
	serviceName    = "sentinel-eye"
	serviceVersion = "1.0.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     serviceName,
		Short:   "Maintainer-side pull request triage dashboard",
		Version: serviceVersion,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to sentinel-eye.json (defaults to .seven-shadow/sentinel-eye.json under cwd)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newValidateConfigCmd(&configPath))
	return root
}

func newValidateConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate a sentinel-eye.json file, exiting 0 on success or 1 on failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config valid: %s (source=%s)\n", loaded.Path, loaded.Source)
			return nil
		},
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	var (
		port           int
		providerName   string
		refreshSeconds int
		enableAssets   bool
		assetRoot      string
		logLevel       string
		logFormat      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refresh scheduler and the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveOptions{
				configPath:     *configPath,
				port:           port,
				providerName:   providerName,
				refreshSeconds: refreshSeconds,
				enableAssets:   enableAssets,
				assetRoot:      assetRoot,
				logLevel:       logLevel,
				logFormat:      logFormat,
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().StringVar(&providerName, "provider", "github", "source-control provider name reported in snapshot metadata")
	cmd.Flags().IntVar(&refreshSeconds, "refresh-interval", 300, "seconds between scheduled refreshes")
	cmd.Flags().BoolVar(&enableAssets, "enable-assets", false, "serve the static dashboard frontend, if built")
	cmd.Flags().StringVar(&assetRoot, "asset-root", "web/dist", "directory containing the built dashboard frontend")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "json or text")
	return cmd
}

type serveOptions struct {
	configPath     string
	port           int
	providerName   string
	refreshSeconds int
	enableAssets   bool
	assetRoot      string
	logLevel       string
	logFormat      string
}

func runServe(opts serveOptions) error {
	log := logger.New(logger.Config{Level: opts.logLevel, Format: opts.logFormat, Output: "stdout"})
	slog.SetDefault(log)
	log.Info("starting sentinel-eye", "service", serviceName, "version", serviceVersion)

	loaded, err := config.Load(opts.configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		return err
	}
	log.Info("config loaded", "path", loaded.Path, "source", loaded.Source)

	watcher, err := config.NewWatcher(loaded, log)
	if err != nil {
		log.Error("failed to start config watcher", "error", err)
		return err
	}
	defer watcher.Close()

	repo := providerapi.RepositoryRef{
		Owner: envOr("SENTINEL_EYE_REPO_OWNER", ""),
		Repo:  envOr("SENTINEL_EYE_REPO_NAME", ""),
	}
	authToken := envOr("SENTINEL_EYE_PROVIDER_TOKEN", "")

	// No real provider adapter ships in this repository (out of scope);
	// the fixture is the only Provider implementation available to serve.
	provider := fixture.New()
	provider.AuthToken = authToken

	registry := metrics.DefaultRegistry()

	builder := snapshot.NewBuilder(provider, opts.providerName)
	builder.Metrics = registry.Engine()

	sch := scheduler.New(
		builder,
		repo,
		func() providerapi.AuthContext { return providerapi.AuthContext{AuthToken: authToken} },
		func() *config.Config { return watcher.Current().Config },
		opts.refreshSeconds,
		snapshot.RealClock,
		log,
	)
	sch.SetMetrics(registry.Scheduler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sch.Start(ctx)
	defer sch.Stop()

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Scheduler:     sch,
		ConfigWatcher: watcher,
		Logger:        log,
		Metrics:       registry.HTTP(),
		AssetRoot:     opts.assetRoot,
		EnableAssets:  opts.enableAssets,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.port),
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server starting", "port", opts.port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("http server failed to start", "error", err)
			return err
		}
	case <-quit:
		log.Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server exited")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
