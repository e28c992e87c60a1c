package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vontajamal/sentinel-eye/internal/config"
	"github.com/vontajamal/sentinel-eye/internal/providerapi"
	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
	"github.com/vontajamal/sentinel-eye/internal/triage"
	"github.com/vontajamal/sentinel-eye/pkg/metrics"
)

// Builder resolves one full snapshot per call, fanning the open-PRs and
// notifications sub-pipelines out concurrently so a slow or failing path
// never blocks the other's independent sections.
type Builder struct {
	Provider     providerapi.Provider
	ProviderName string
	Clock        Clock
	Metrics      *metrics.EngineMetrics
}

// NewBuilder constructs a Builder with the production clock.
func NewBuilder(provider providerapi.Provider, providerName string) *Builder {
	return &Builder{Provider: provider, ProviderName: providerName, Clock: RealClock}
}

// Build resolves generatedAt once and reuses it across all four
// sections. It runs the open-PRs and notifications sub-pipelines
// concurrently; a failure in one sets both of its sections to error
// and leaves the other sub-pipeline's sections at ok.
func (b *Builder) Build(ctx context.Context, repo providerapi.RepositoryRef, auth providerapi.AuthContext, cfg *config.Config, limit int) Snapshot {
	generatedAt := b.Clock.Now()
	start := time.Now()

	var wg sync.WaitGroup
	var scoreSection DashboardSection[ScoreSection]
	var patternsSection DashboardSection[PatternsSection]
	var inboxSection DashboardSection[InboxSection]
	var digestSection DashboardSection[DigestSection]

	wg.Add(2)
	go func() {
		defer wg.Done()
		scoreSection, patternsSection = b.buildOpenPRsPath(ctx, repo, auth, cfg, limit)
	}()
	go func() {
		defer wg.Done()
		inboxSection, digestSection = b.buildNotificationsPath(ctx, repo, auth, cfg, limit)
	}()
	wg.Wait()

	if b.Metrics != nil {
		b.Metrics.BuildDuration.Observe(time.Since(start).Seconds())
		if scoreSection.Status == "ok" && scoreSection.Data != nil {
			b.Metrics.PullRequestsProcessedTotal.Add(float64(len(scoreSection.Data.Items)))
		}
		b.recordSectionError("digest", digestSection)
		b.recordSectionError("inbox", inboxSection)
		b.recordSectionError("score", scoreSection)
		b.recordSectionError("patterns", patternsSection)
	}

	return Snapshot{
		Meta: Meta{
			Repo:        repo,
			Provider:    b.ProviderName,
			GeneratedAt: generatedAt,
		},
		Sections: SectionsView{
			Digest:   digestSection,
			Inbox:    inboxSection,
			Score:    scoreSection,
			Patterns: patternsSection,
		},
	}
}

func (b *Builder) recordSectionError(name string, section interface{ errorCode() (string, bool) }) {
	if code, isErr := section.errorCode(); isErr {
		b.Metrics.SectionErrorsTotal.WithLabelValues(name, code).Inc()
	}
}

func (b *Builder) buildOpenPRsPath(ctx context.Context, repo providerapi.RepositoryRef, auth providerapi.AuthContext, cfg *config.Config, limit int) (DashboardSection[ScoreSection], DashboardSection[PatternsSection]) {
	maxPRs := limit
	if maxPRs <= 0 || maxPRs > cfg.Limits.MaxPullRequests {
		maxPRs = cfg.Limits.MaxPullRequests
	}

	prs, err := b.Provider.ListOpenPullRequests(ctx, repo, providerapi.ListOpenPullRequestsParams{MaxPullRequests: maxPRs}, auth)
	if err != nil {
		info := toSectionError(err)
		return errSection[ScoreSection](info), errSection[PatternsSection](info)
	}

	workItems := make([]triage.WorkItem, 0, len(prs))
	for _, pr := range prs {
		summary := pr
		workItems = append(workItems, triage.WorkItem{Repo: repo, PRNumber: pr.Number, Summary: &summary})
	}

	result, err := triage.Run(ctx, b.Provider, auth, cfg, workItems, limit)
	if err != nil {
		info := toSectionError(err)
		return errSection[ScoreSection](info), errSection[PatternsSection](info)
	}

	return ok(ScoreSection{Items: result.Items}), ok(PatternsSection{Clusters: result.Clusters})
}

func (b *Builder) buildNotificationsPath(ctx context.Context, repo providerapi.RepositoryRef, auth providerapi.AuthContext, cfg *config.Config, limit int) (DashboardSection[InboxSection], DashboardSection[DigestSection]) {
	// §9 Open Question: implemented exactly as the redundant formula
	// reads, not algebraically simplified, so a future simplification is
	// a deliberate, reviewed change rather than an accidental drift.
	tripled := limit * 3
	if tripled > cfg.Limits.MaxNotifications {
		tripled = cfg.Limits.MaxNotifications
	}
	bounded := limit
	if tripled > bounded {
		bounded = tripled
	}
	if bounded > cfg.Limits.MaxNotifications {
		bounded = cfg.Limits.MaxNotifications
	}
	maxItems := bounded

	notifications, err := b.Provider.ListNotifications(ctx, providerapi.ListNotificationsParams{
		Repo:        repo,
		MaxItems:    maxItems,
		IncludeRead: cfg.Inbox.IncludeReadByDefault,
	}, auth)
	if err != nil {
		if cfg.Inbox.RequireNotificationsScope {
			info := toSectionError(err)
			return errSection[InboxSection](info), errSection[DigestSection](info)
		}
		notifications = nil
	}

	filtered := filterPullRequestNotifications(notifications)
	deduped := dedupeNotificationsByPR(filtered)

	workItems := make([]triage.WorkItem, 0, len(deduped))
	for _, n := range deduped {
		n := n
		workItems = append(workItems, triage.WorkItem{Repo: repo, PRNumber: *n.PullNumber, Notification: &n})
	}

	result, err := triage.Run(ctx, b.Provider, auth, cfg, workItems, limit)
	if err != nil {
		info := toSectionError(err)
		return errSection[InboxSection](info), errSection[DigestSection](info)
	}

	digestItems := result.Items
	if len(digestItems) > cfg.Limits.MaxDigestItems {
		digestItems = digestItems[:cfg.Limits.MaxDigestItems]
	}

	return ok(InboxSection{Items: result.Items}), ok(DigestSection{TopPriorities: digestItems})
}

func filterPullRequestNotifications(notifications []providerapi.Notification) []providerapi.Notification {
	filtered := make([]providerapi.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.PullNumber == nil {
			continue
		}
		subject := normalizeSubjectType(n.SubjectType)
		if subject != "pullrequest" && subject != "pull_request" {
			continue
		}
		filtered = append(filtered, n)
	}
	return filtered
}

func normalizeSubjectType(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// dedupeNotificationsByPR keeps the latest-updated notification per PR
// number, preferring unread on ties.
func dedupeNotificationsByPR(notifications []providerapi.Notification) []providerapi.Notification {
	byPR := map[int]providerapi.Notification{}
	var order []int
	for _, n := range notifications {
		num := *n.PullNumber
		existing, ok := byPR[num]
		if !ok {
			byPR[num] = n
			order = append(order, num)
			continue
		}
		if n.UpdatedAt.After(existing.UpdatedAt) || (n.UpdatedAt.Equal(existing.UpdatedAt) && n.Unread && !existing.Unread) {
			byPR[num] = n
		}
	}
	sort.Ints(order)
	out := make([]providerapi.Notification, 0, len(order))
	for _, num := range order {
		out = append(out, byPR[num])
	}
	return out
}

func toSectionError(err error) SectionErrorInfo {
	code, message, details := sentinelerr.ExtractCodeWithDetails(err)
	return SectionErrorInfo{Code: string(code), Message: message, Details: details}
}

// Failed builds an all-error snapshot for base-context failures (config
// load, auth resolution, repo resolution) that never reach Build: every
// section carries the same error, with generatedAt still advancing.
func Failed(clock Clock, repo providerapi.RepositoryRef, providerName string, err error) Snapshot {
	info := toSectionError(err)
	return Snapshot{
		Meta: Meta{
			Repo:        repo,
			Provider:    providerName,
			GeneratedAt: clock.Now(),
		},
		Sections: SectionsView{
			Digest:   errSection[DigestSection](info),
			Inbox:    errSection[InboxSection](info),
			Score:    errSection[ScoreSection](info),
			Patterns: errSection[PatternsSection](info),
		},
	}
}

// Pending returns the initial latestSnapshot value the scheduler
// publishes before its first refresh completes.
func Pending(clock Clock, repo providerapi.RepositoryRef, providerName string) Snapshot {
	return Failed(clock, repo, providerName, sentinelerr.New(sentinelerr.DashboardPending, "initial refresh has not completed"))
}
