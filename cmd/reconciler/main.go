// Command reconciler runs a single scheduled-reconciler pass (C9) and
// exits. It takes no in-process scheduler of its own: an external trigger
// (cron, EventBridge, whatever invokes the binary) supplies the cron
// expression that fired, and Tick dispatches to the matching pass (§4.9,
// §9 Design Notes).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/billing/catalog"
	"github.com/formgate/gateway/internal/billing/events"
	"github.com/formgate/gateway/internal/billing/reconcile"
	"github.com/formgate/gateway/internal/billing/webhookqueue"
	"github.com/formgate/gateway/internal/config"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
	"github.com/formgate/gateway/internal/stripeclient"
)

const usageText = `Formgate Reconciler

Usage:
  reconciler --cron="<cron expression>"

The cron expression must match one of the configured reconciler schedules
(due-retry, grace-expiry, catalog-sync, retention); an unrecognized
expression runs every pass in sequence.
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	cronExpr := flag.String("cron", "", "cron expression supplied by the external scheduler trigger")
	flag.Parse()

	if *cronExpr == "" {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Stage)
	log := logger.For(logger.ComponentReconciler)
	defer func() { _ = logger.Sync() }()

	pool, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to create database pool", zap.Error(err))
	}
	defer pool.Close()

	q := dbrpc.New(pool)
	stripe := stripeclient.New(cfg.StripeSecretKey, cfg.StripeWebhookSigningSecret)
	catalogSyncer := catalog.New(q, stripe, cfg.CatalogEnv, cfg.CatalogSyncEnabled)
	processor := events.New(q, stripe, catalogSyncer, cfg.GraceDuration())
	worker := webhookqueue.NewWorker(q, processor, "reconciler", time.Duration(cfg.WebhookClaimTTLSeconds)*time.Second)

	r := reconcile.New(q, worker, catalogSyncer, reconcile.Config{
		RetryBatchSize: cfg.RetryBatchSize,
		GraceBatchSize: cfg.GraceBatchSize,
		CatalogCron:    cfg.CatalogSyncCron,
	})

	log.Info("running reconciler pass", zap.String("cron", *cronExpr))
	if err := r.Tick(ctx, *cronExpr); err != nil {
		log.Error("reconciler pass failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("reconciler pass completed", zap.String("cron", *cronExpr))
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
