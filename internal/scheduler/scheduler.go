package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
	"github.com/vontajamal/sentinel-eye/internal/snapshot"
	"github.com/vontajamal/sentinel-eye/pkg/metrics"
)

const maxBackoffSeconds = 900

// Scheduler owns the single long-lived refresh worker. Concurrent
// request handlers read latestSnapshot/status lock-free from the
// atomic.Value pointer; only the worker (or a coalesced manual refresh)
// publishes a new value, keeping readers wait-free under concurrent polling.
type Scheduler struct {
	builder      *snapshot.Builder
	repo         providerapi.RepositoryRef
	authFn       func() providerapi.AuthContext
	configFn     func() *config.Config
	refreshSeconds int
	clock        snapshot.Clock
	logger       *slog.Logger
	metrics      *metrics.SchedulerMetrics

	latestSnapshot atomic.Value // snapshot.Snapshot
	status         atomic.Value // Status

	mu             sync.Mutex
	state          State
	lastSuccessAt  *time.Time
	hasAttempted   bool
	backoffSeconds int
	inFlight       chan struct{}
	inFlightResult snapshot.Snapshot

	timer  *time.Timer
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New constructs a Scheduler seeded with the pending snapshot defined in
// §4.5: all four sections error with E_DASHBOARD_PENDING.
func New(builder *snapshot.Builder, repo providerapi.RepositoryRef, authFn func() providerapi.AuthContext, configFn func() *config.Config, refreshSeconds int, clock snapshot.Clock, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = snapshot.RealClock
	}
	s := &Scheduler{
		builder:        builder,
		repo:           repo,
		authFn:         authFn,
		configFn:       configFn,
		refreshSeconds: refreshSeconds,
		clock:          clock,
		logger:         logger,
		state:          StateIdle,
		stopCh:         make(chan struct{}),
	}
	s.latestSnapshot.Store(snapshot.Pending(clock, repo, builder.ProviderName))
	s.status.Store(s.deriveStatus(s.latestSnapshot.Load().(snapshot.Snapshot)))
	return s
}

// SetMetrics attaches the Prometheus collectors the refresh loop reports
// to. Safe to call once before Start; nil keeps metrics recording disabled.
func (s *Scheduler) SetMetrics(m *metrics.SchedulerMetrics) {
	s.metrics = m
}

// Start begins the periodic refresh loop; it runs until ctx is canceled
// or Stop is called, which cancels the timer and waits for any in-flight
// refresh to complete.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Refresh(ctx)
		for {
			delay := s.nextDelay()
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
				s.Refresh(ctx)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stopCh:
				timer.Stop()
				return
			}
		}
	}()
}

// Stop cancels the timer and waits for any in-flight refresh to finish.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backoffSeconds > 0 {
		return time.Duration(s.backoffSeconds) * time.Second
	}
	return time.Duration(s.refreshSeconds) * time.Second
}

// Latest returns the most recently published snapshot.
func (s *Scheduler) Latest() snapshot.Snapshot {
	return s.latestSnapshot.Load().(snapshot.Snapshot)
}

// StatusView returns the derived, read-only status document.
func (s *Scheduler) StatusView() Status {
	return s.status.Load().(Status)
}

// Refresh triggers a single-flight refresh: a manual refresh request
// received while one is in flight awaits and returns that one's result
// rather than starting a second.
func (s *Scheduler) Refresh(ctx context.Context) snapshot.Snapshot {
	s.mu.Lock()
	if s.inFlight != nil {
		ch := s.inFlight
		s.mu.Unlock()
		<-ch
		s.mu.Lock()
		result := s.inFlightResult
		s.mu.Unlock()
		return result
	}
	ch := make(chan struct{})
	s.inFlight = ch
	s.state = StateRefreshing
	s.mu.Unlock()

	correlationID := uuid.NewString()
	if s.logger != nil {
		s.logger.Info("refresh started", "correlationId", correlationID, "repo", s.repo.String())
	}

	result := s.runOnce(ctx)

	s.mu.Lock()
	s.inFlightResult = result
	s.inFlight = nil
	close(ch)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("refresh finished", "correlationId", correlationID, "repo", s.repo.String())
	}
	return result
}

func (s *Scheduler) runOnce(ctx context.Context) (result snapshot.Snapshot) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		}
		if r := recover(); r != nil {
			result = s.handleBuilderPanic(r)
		}
	}()

	cfg := s.configFn()
	candidate := s.builder.Build(ctx, s.repo, s.authFn(), cfg, cfg.Limits.MaxPullRequests)
	return s.applyOutcome(candidate)
}

func (s *Scheduler) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RefreshesTotal.WithLabelValues(outcome).Inc()
	}
}

// applyOutcome implements the three-way refresh algorithm of §4.5.
func (s *Scheduler) applyOutcome(candidate snapshot.Snapshot) snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	primary, hasError := primarySectionError(candidate)

	if !hasError {
		s.lastSuccessAt = &candidate.Meta.GeneratedAt
		s.backoffSeconds = 0
		s.state = StateIdle
		candidate.Meta.Stale = false
		candidate.Meta.BackoffSeconds = 0
		s.publish(candidate, nil)
		s.recordOutcome("ok")
		return candidate
	}

	retryable := sentinelerr.IsRetryable(sentinelerr.Code(primary.Code), primary.Message)

	if retryable && s.lastSuccessAt != nil {
		previous := s.latestSnapshot.Load().(snapshot.Snapshot)
		previous.Meta.Stale = true

		backoff := s.nextBackoffSeconds(primary)
		s.backoffSeconds = backoff
		previous.Meta.BackoffSeconds = backoff
		s.state = StateBackingOff
		s.publish(previous, &primary)
		s.recordOutcome("retryable")
		return previous
	}

	s.backoffSeconds = 0
	s.state = StateIdle
	candidate.Meta.Stale = false
	candidate.Meta.BackoffSeconds = 0
	s.publish(candidate, &primary)
	s.recordOutcome("failed")
	return candidate
}

func (s *Scheduler) handleBuilderPanic(recovered interface{}) snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.latestSnapshot.Load().(snapshot.Snapshot)
	err := sentinelerr.New(sentinelerr.DashboardUnknown, "snapshot builder panicked: %v", recovered)
	errInfo := ErrorInfo{Code: string(sentinelerr.DashboardUnknown), Message: err.Error()}

	backoff := s.backoffSeconds * 2
	if backoff <= 0 {
		backoff = s.refreshSeconds * 2
	}
	if backoff > maxBackoffSeconds {
		backoff = maxBackoffSeconds
	}
	s.backoffSeconds = backoff
	s.state = StateBackingOff

	previous.Meta.Stale = true
	previous.Meta.BackoffSeconds = backoff
	s.publish(previous, &errInfo)
	s.recordOutcome("panic")
	return previous
}

// nextBackoffSeconds resolves an explicit retry-after hint when present,
// clamped to [refreshIntervalSeconds, 900]; otherwise it doubles the
// current backoff (or refreshIntervalSeconds on the first retry),
// capped at 900. No jitter is applied.
func (s *Scheduler) nextBackoffSeconds(primary ErrorInfo) int {
	if secs, ok := sentinelerr.ParseRetryAfterSeconds(primary.Details, primary.Message); ok {
		if secs < s.refreshSeconds {
			secs = s.refreshSeconds
		}
		if secs > maxBackoffSeconds {
			secs = maxBackoffSeconds
		}
		return secs
	}
	base := s.refreshSeconds * 2
	if s.backoffSeconds > 0 {
		base = s.backoffSeconds * 2
	}
	if base > maxBackoffSeconds {
		base = maxBackoffSeconds
	}
	return base
}

// publish stores the new latestSnapshot/status pair. Caller must hold s.mu.
// It is only reached once a refresh attempt has actually run, so the
// first call marks the scheduler as having left its initial Pending
// state regardless of whether that attempt succeeded.
func (s *Scheduler) publish(snap snapshot.Snapshot, lastError *ErrorInfo) {
	s.hasAttempted = true
	snap.Meta.RefreshIntervalSeconds = s.refreshSeconds
	snap.Meta.NextRefreshAt = snap.Meta.GeneratedAt.Add(time.Duration(s.currentDelaySeconds()) * time.Second)
	s.latestSnapshot.Store(snap)
	s.status.Store(s.deriveStatusLocked(snap, lastError))
	if s.metrics != nil {
		s.metrics.BackoffSeconds.Set(float64(s.backoffSeconds))
		if snap.Meta.Stale {
			s.metrics.Stale.Set(1)
		} else {
			s.metrics.Stale.Set(0)
		}
	}
}

func (s *Scheduler) currentDelaySeconds() int {
	if s.backoffSeconds > 0 {
		return s.backoffSeconds
	}
	return s.refreshSeconds
}

func (s *Scheduler) deriveStatus(snap snapshot.Snapshot) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deriveStatusLocked(snap, nil)
}

func (s *Scheduler) deriveStatusLocked(snap snapshot.Snapshot, lastError *ErrorInfo) Status {
	return Status{
		Provider:               snap.Meta.Provider,
		Repo:                   snap.Meta.Repo,
		Ready:                  s.hasAttempted,
		Stale:                  snap.Meta.Stale,
		GeneratedAt:            snap.Meta.GeneratedAt,
		LastSuccessAt:          s.lastSuccessAt,
		LastError:              lastError,
		BackoffSeconds:         snap.Meta.BackoffSeconds,
		NextRefreshAt:          snap.Meta.NextRefreshAt,
		RefreshIntervalSeconds: s.refreshSeconds,
	}
}

// primarySectionError scans digest → inbox → score → patterns and
// returns the first section in error, if any.
func primarySectionError(snap snapshot.Snapshot) (ErrorInfo, bool) {
	if snap.Sections.Digest.Status == "error" {
		return ErrorInfo{Code: snap.Sections.Digest.Error.Code, Message: snap.Sections.Digest.Error.Message, Details: snap.Sections.Digest.Error.Details}, true
	}
	if snap.Sections.Inbox.Status == "error" {
		return ErrorInfo{Code: snap.Sections.Inbox.Error.Code, Message: snap.Sections.Inbox.Error.Message, Details: snap.Sections.Inbox.Error.Details}, true
	}
	if snap.Sections.Score.Status == "error" {
		return ErrorInfo{Code: snap.Sections.Score.Error.Code, Message: snap.Sections.Score.Error.Message, Details: snap.Sections.Score.Error.Details}, true
	}
	if snap.Sections.Patterns.Status == "error" {
		return ErrorInfo{Code: snap.Sections.Patterns.Error.Code, Message: snap.Sections.Patterns.Error.Message, Details: snap.Sections.Patterns.Error.Details}, true
	}
	return ErrorInfo{}, false
}
