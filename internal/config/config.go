// Package config loads and validates the gateway's runtime configuration.
//
// Local development reads values straight from the environment (optionally
// seeded by a .env file); a deployed stage resolves secrets through AWS
// Secrets Manager, the same two-path split the teacher's InitializeHandlers
// uses for its own database DSN and third-party credentials.
package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/formgate/gateway/internal/logger"
)

// Config holds every recognized option from spec §6.3 plus process bootstrap.
type Config struct {
	Stage string

	ListenAddr string

	DatabaseURL string

	StripeSecretKey          string
	StripeWebhookSigningSecret string

	CheckoutSuccessURL   string
	CheckoutCancelURL    string
	BillingPortalReturnURL string
	ContactSalesURL      string

	BillingGraceDays             int
	WebhookClaimTTLSeconds       int
	WebhookMaxBodyBytes          int64
	RetryBatchSize               int
	GraceBatchSize                int
	CatalogSyncEnabled           bool
	CatalogSyncCron              string
	CatalogEnv                   string
	InternalAdminToken           string

	AuthJWKSURL   string
	AuthIssuer    string
	AuthAudience  string
}

const (
	defaultBillingGraceDays       = 7
	defaultWebhookClaimTTLSeconds = 300
	defaultWebhookMaxBodyBytes    = 262144
	defaultRetryBatchSize         = 200
	defaultGraceBatchSize         = 500
	defaultCatalogSyncCron        = "*/15 * * * *"
)

// Load reads configuration from the environment. It loads a local .env file
// first (ignored if absent), mirroring godotenv.Load() in server.go.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: error loading .env file: %v", err)
	}

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = logger.StageLocal
		log.Printf("warning: STAGE not set, defaulting to %q", stage)
	}
	if stage != logger.StageLocal && stage != logger.StageDev && stage != logger.StageProd {
		return nil, fmt.Errorf("invalid STAGE %q: must be one of local, dev, prod", stage)
	}

	cfg := &Config{
		Stage:      stage,
		ListenAddr: envOr("LISTEN_ADDR", ":8080"),

		CheckoutSuccessURL:     os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:      os.Getenv("CHECKOUT_CANCEL_URL"),
		BillingPortalReturnURL: os.Getenv("BILLING_PORTAL_RETURN_URL"),
		ContactSalesURL:        os.Getenv("CONTACT_SALES_URL"),

		BillingGraceDays:       envInt("BILLING_GRACE_DAYS", defaultBillingGraceDays),
		WebhookClaimTTLSeconds: envInt("STRIPE_WEBHOOK_CLAIM_TTL_SECONDS", defaultWebhookClaimTTLSeconds),
		WebhookMaxBodyBytes:    envInt64("STRIPE_WEBHOOK_MAX_BODY_BYTES", defaultWebhookMaxBodyBytes),
		RetryBatchSize:         envInt("STRIPE_RETRY_BATCH_SIZE", defaultRetryBatchSize),
		GraceBatchSize:         envInt("STRIPE_GRACE_BATCH_SIZE", defaultGraceBatchSize),
		CatalogSyncEnabled:     envBool("STRIPE_CATALOG_SYNC_ENABLED", true),
		CatalogSyncCron:        envOr("STRIPE_CATALOG_SYNC_CRON", defaultCatalogSyncCron),
		CatalogEnv:             os.Getenv("STRIPE_CATALOG_ENV"),
		InternalAdminToken:     os.Getenv("STRIPE_INTERNAL_ADMIN_TOKEN"),

		AuthJWKSURL:  os.Getenv("AUTH_JWKS_URL"),
		AuthIssuer:   os.Getenv("AUTH_ISSUER"),
		AuthAudience: os.Getenv("AUTH_AUDIENCE"),
	}

	if _, err := cron.ParseStandard(cfg.CatalogSyncCron); err != nil {
		return nil, fmt.Errorf("invalid STRIPE_CATALOG_SYNC_CRON %q: %w", cfg.CatalogSyncCron, err)
	}

	if err := cfg.resolveSecrets(ctx); err != nil {
		return nil, err
	}

	if stage != logger.StageLocal {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for stage %q", stage)
		}
		if cfg.StripeSecretKey == "" || cfg.StripeWebhookSigningSecret == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SIGNING_SECRET are required for stage %q", stage)
		}
	}

	return cfg, nil
}

// resolveSecrets fills in the DSN and provider credentials. In a deployed
// stage these come from AWS Secrets Manager (see awssecrets.go); locally
// they're read straight from the environment.
func (c *Config) resolveSecrets(ctx context.Context) error {
	if c.Stage == logger.StageLocal {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
		c.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
		c.StripeWebhookSigningSecret = os.Getenv("STRIPE_WEBHOOK_SIGNING_SECRET")
		return nil
	}

	resolver, err := newSecretsResolver(ctx)
	if err != nil {
		return fmt.Errorf("initializing secrets resolver: %w", err)
	}

	c.DatabaseURL, err = resolver.stringSecret(ctx, "DATABASE_URL_ARN", "DATABASE_URL")
	if err != nil {
		return err
	}
	c.StripeSecretKey, err = resolver.stringSecret(ctx, "STRIPE_SECRET_KEY_ARN", "STRIPE_SECRET_KEY")
	if err != nil {
		return err
	}
	c.StripeWebhookSigningSecret, err = resolver.stringSecret(ctx, "STRIPE_WEBHOOK_SIGNING_SECRET_ARN", "STRIPE_WEBHOOK_SIGNING_SECRET")
	if err != nil {
		return err
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warning: invalid int for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("warning: invalid int64 for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warning: invalid bool for %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}

// GraceDuration returns BillingGraceDays as a time.Duration.
func (c *Config) GraceDuration() time.Duration {
	return time.Duration(c.BillingGraceDays) * 24 * time.Hour
}
