// Package reconcile implements the scheduled reconciler, C9: periodic
// passes driven by an external cron trigger rather than an in-process
// scheduler (§4.9, §9 Design Notes — "Scheduled jobs are not cron-in-process
// by default; an external trigger provides the cron expression").
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
)

const (
	cronDueRetry  = "*/5 * * * *"
	cronGrace     = "0 * * * *"
	cronRetention = "30 2 * * *"
)

// WebhookClaimer claims and processes one webhook row (C7+C8 together, as
// exposed by webhookqueue.Worker.ClaimAndProcess).
type WebhookClaimer interface {
	ClaimAndProcess(ctx context.Context, eventID string) error
}

// CatalogSyncer runs C10.
type CatalogSyncer interface {
	Sync(ctx context.Context, forced bool) (scanned, eligible, updated, missing int, err error)
}

type Config struct {
	RetryBatchSize int
	GraceBatchSize int
	CatalogCron    string
	RetentionAge   time.Duration
}

type Reconciler struct {
	q       dbrpc.Querier
	claimer WebhookClaimer
	catalog CatalogSyncer
	cfg     Config
}

func New(q dbrpc.Querier, claimer WebhookClaimer, catalog CatalogSyncer, cfg Config) *Reconciler {
	if cfg.RetentionAge == 0 {
		cfg.RetentionAge = 30 * 24 * time.Hour
	}
	return &Reconciler{q: q, claimer: claimer, catalog: catalog, cfg: cfg}
}

// Tick dispatches a single scheduler firing by matching its cron expression
// against §4.9's fixed set. An unrecognized cron runs every pass
// sequentially, per spec.
func (r *Reconciler) Tick(ctx context.Context, cron string) error {
	log := logger.For(logger.ComponentReconciler)
	switch cron {
	case cronDueRetry:
		return r.RunDueRetry(ctx)
	case cronGrace:
		return r.RunGraceExpiry(ctx)
	case r.cfg.CatalogCron:
		return r.RunCatalogSync(ctx)
	case cronRetention:
		return r.RunRetention(ctx)
	default:
		log.Warn("unrecognized reconciler cron expression, running all passes", zap.String("cron", cron))
		var errs []error
		if err := r.RunDueRetry(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := r.RunGraceExpiry(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := r.RunCatalogSync(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := r.RunRetention(ctx); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return fmt.Errorf("reconciler pass(es) failed: %v", errs)
		}
		return nil
	}
}

// RunDueRetry implements §4.9's due-retry pass: pending/failed rows whose
// next_attempt_at has elapsed, plus stale processing rows whose lease
// expired, oldest first, capped at RetryBatchSize.
func (r *Reconciler) RunDueRetry(ctx context.Context) error {
	log := logger.For(logger.ComponentReconciler)
	now := time.Now()
	limit := r.cfg.RetryBatchSize
	if limit <= 0 {
		limit = 200
	}

	due, err := r.q.ListWebhooksDueForRetry(ctx, now, limit)
	if err != nil {
		return fmt.Errorf("list webhooks due for retry: %w", err)
	}
	stale, err := r.q.ReclaimExpiredWebhookClaims(ctx, now, "reconciler", 0, limit)
	if err != nil {
		return fmt.Errorf("reclaim expired webhook claims: %w", err)
	}

	events := append(due, stale...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	if len(events) > limit {
		events = events[:limit]
	}
	log.Info("due-retry pass", zap.Int("candidates", len(events)))
	for _, event := range events {
		if err := r.claimer.ClaimAndProcess(ctx, event.EventID); err != nil {
			log.Warn("retry claim/process failed", zap.String("event_id", event.EventID), zap.Error(err))
		}
	}
	return nil
}

// RunGraceExpiry implements §4.9's grace-expiry pass.
func (r *Reconciler) RunGraceExpiry(ctx context.Context) error {
	log := logger.For(logger.ComponentReconciler)
	now := time.Now()
	limit := r.cfg.GraceBatchSize
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.q.ListSubscriptionsInGracePastDeadline(ctx, now, limit)
	if err != nil {
		return fmt.Errorf("list subscriptions past grace deadline: %w", err)
	}
	log.Info("grace-expiry pass", zap.Int("candidates", len(rows)))
	for _, sub := range rows {
		if err := r.q.ExpireSubscriptionGrace(ctx, sub.ID); err != nil {
			log.Warn("expire subscription grace failed", zap.String("subscription_id", sub.ID), zap.Error(err))
			continue
		}
		if err := r.q.EnsureFreeSubscriptionForWorkspace(ctx, sub.WorkspaceID); err != nil {
			log.Warn("ensure free subscription failed", zap.String("workspace_id", sub.WorkspaceID), zap.Error(err))
			continue
		}
		if err := r.q.RefreshWorkspacePlanCache(ctx, sub.WorkspaceID, "free"); err != nil {
			log.Warn("refresh plan cache failed", zap.String("workspace_id", sub.WorkspaceID), zap.Error(err))
		}
	}
	return nil
}

// RunCatalogSync implements §4.9's catalog-sync pass.
func (r *Reconciler) RunCatalogSync(ctx context.Context) error {
	if r.catalog == nil {
		return nil
	}
	scanned, eligible, updated, missing, err := r.catalog.Sync(ctx, false)
	if err != nil {
		return fmt.Errorf("catalog sync: %w", err)
	}
	logger.For(logger.ComponentReconciler).Info("catalog sync pass",
		zap.Int("scanned", scanned), zap.Int("eligible", eligible),
		zap.Int("updated", updated), zap.Int("missing", missing))
	return nil
}

// RunRetention implements §4.9's retention pass: delete completed webhook
// rows older than RetentionAge.
func (r *Reconciler) RunRetention(ctx context.Context) error {
	cutoff := time.Now().Add(-r.cfg.RetentionAge)
	return r.q.DeleteCompletedWebhooksBefore(ctx, cutoff)
}
