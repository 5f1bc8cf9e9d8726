// Command gateway runs the public form-runner and billing HTTP surface
// (spec §6.1), backed by a Postgres pool and the Stripe API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/billing/catalog"
	"github.com/formgate/gateway/internal/billing/customer"
	"github.com/formgate/gateway/internal/billing/events"
	"github.com/formgate/gateway/internal/billing/idempotency"
	"github.com/formgate/gateway/internal/billing/webhookqueue"
	"github.com/formgate/gateway/internal/config"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/dispatch"
	"github.com/formgate/gateway/internal/httpapi"
	"github.com/formgate/gateway/internal/logger"
	"github.com/formgate/gateway/internal/middleware"
	"github.com/formgate/gateway/internal/stripeclient"
	"github.com/formgate/gateway/internal/submission"
)

// @title           Formgate Gateway API
// @version         1.0
// @description     Public form runner and billing integration surface.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Stage)
	log := logger.For(logger.ComponentServer)
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
	worker := webhookqueue.NewWorker(q, processor, "gateway", time.Duration(cfg.WebhookClaimTTLSeconds)*time.Second)

	dispatchPool := dispatch.New(worker, 8, 512, 30*time.Second)
	dispatchPool.Start(ctx)
	defer dispatchPool.Stop()

	queue := webhookqueue.New(q, stripe, dispatchPool, cfg.WebhookMaxBodyBytes)

	var verifier *middleware.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		verifier, err = middleware.NewTokenVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience)
		if err != nil {
			log.Fatal("unable to initialize token verifier", zap.Error(err))
		}
	}

	h := &httpapi.Handler{
		Querier:  q,
		Cfg:      cfg,
		Pipeline: submission.New(q),
		Ledger:   idempotency.New(q),
		Recovery: customer.New(q, stripe),
		Stripe:   stripe,
		Queue:    queue,
		Catalog:  catalogSyncer,
	}
	router := httpapi.NewRouter(h, verifier)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Info("gateway listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
