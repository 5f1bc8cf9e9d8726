package dbrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXQuerier is the pgx/v5-backed Querier. The seven RPCs in §6.2 are
// invoked as opaque SQL functions (SELECT * FROM fn(...)), matching how
// the teacher's db.Queries wraps stored functions rather than reimplementing
// their logic in Go. Everything else is ordinary table access.
type PGXQuerier struct {
	pool *pgxpool.Pool
}

// New wraps an existing pgxpool.Pool. Pool construction (DSN parsing, pool
// sizing) lives in cmd/gateway/main.go, same split as the
// teacher's db connection bootstrap.
func New(pool *pgxpool.Pool) *PGXQuerier {
	return &PGXQuerier{pool: pool}
}

func (q *PGXQuerier) CheckRequest(ctx context.Context, formID, clientIP string) (bool, error) {
	var allowed bool
	err := q.pool.QueryRow(ctx, `SELECT allowed FROM check_request($1, $2)`, formID, clientIP).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("check_request: %w", err)
	}
	return allowed, nil
}

func (q *PGXQuerier) GetPublishedFormByID(ctx context.Context, formID string) (*Form, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, workspace_id, title, description, published_schema, success_message,
		       redirect_url, meta_title, meta_description, meta_image_url,
		       captcha_enabled, captcha_provider, require_auth, password_protected
		FROM get_published_form_by_id($1)`, formID)

	var f Form
	var redirectURL *string
	if err := row.Scan(
		&f.ID, &f.WorkspaceID, &f.Title, &f.Description, &f.PublishedSchema, &f.SuccessMessage,
		&redirectURL, &f.MetaTitle, &f.MetaDescription, &f.MetaImageURL,
		&f.CaptchaEnabled, &f.CaptchaProvider, &f.RequireAuth, &f.PasswordProtected,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_published_form_by_id: %w", err)
	}
	f.RedirectURL = redirectURL
	return &f, nil
}

func (q *PGXQuerier) PublishForm(ctx context.Context, formID string, schema json.RawMessage) error {
	_, err := q.pool.Exec(ctx, `SELECT publish_form($1, $2)`, formID, schema)
	if err != nil {
		return fmt.Errorf("publish_form: %w", err)
	}
	return nil
}

func (q *PGXQuerier) GetFormSubmissionQuota(ctx context.Context, workspaceID string) (*SubmissionQuota, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT feature_key, is_enabled, limit_value, current_usage, workspace_id
		FROM get_form_submission_quota($1)`, workspaceID)

	var sq SubmissionQuota
	if err := row.Scan(&sq.FeatureKey, &sq.IsEnabled, &sq.LimitValue, &sq.CurrentUsage, &sq.WorkspaceID); err != nil {
		return nil, fmt.Errorf("get_form_submission_quota: %w", err)
	}
	return &sq, nil
}

func (q *PGXQuerier) SubmitForm(ctx context.Context, p SubmitFormParams) (string, *RPCError, error) {
	var submissionID string
	err := q.pool.QueryRow(ctx, `
		SELECT submission_id FROM submit_form($1, $2, $3, $4, $5, $6, $7)`,
		p.FormID, p.Data, p.IdempotencyKey, p.IP, p.UserAgent, p.Referer, p.StartedAt,
	).Scan(&submissionID)
	if err == nil {
		return submissionID, nil, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "", &RPCError{Code: pgErr.Code, Message: pgErr.Message}, nil
	}
	return "", nil, fmt.Errorf("submit_form: %w", err)
}

func (q *PGXQuerier) EnsureFreeSubscriptionForWorkspace(ctx context.Context, workspaceID string) error {
	_, err := q.pool.Exec(ctx, `SELECT ensure_free_subscription_for_workspace($1)`, workspaceID)
	if err != nil {
		return fmt.Errorf("ensure_free_subscription_for_workspace: %w", err)
	}
	return nil
}

func (q *PGXQuerier) ClaimStripeWebhookEvent(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
	var claimed bool
	err := q.pool.QueryRow(ctx, `
		SELECT claimed FROM claim_stripe_webhook_event($1, $2, $3, $4)`,
		eventID, processorID, int64(claimTTL.Seconds()), maxAttempts,
	).Scan(&claimed)
	if err != nil {
		return false, fmt.Errorf("claim_stripe_webhook_event: %w", err)
	}
	return claimed, nil
}

func (q *PGXQuerier) GetWorkspaceEntitlements(ctx context.Context, workspaceID string) ([]Entitlement, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT feature_key, is_enabled, limit_value FROM get_workspace_entitlements($1)`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("get_workspace_entitlements: %w", err)
	}
	defer rows.Close()

	var out []Entitlement
	for rows.Next() {
		var e Entitlement
		if err := rows.Scan(&e.FeatureKey, &e.IsEnabled, &e.LimitValue); err != nil {
			return nil, fmt.Errorf("get_workspace_entitlements scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- Checkout idempotency ledger -----------------------------------------

func (q *PGXQuerier) GetCheckoutIdempotency(ctx context.Context, workspaceID, clientKey string) (*CheckoutIdempotency, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT workspace_id, client_key, plan_variant_id, request_fingerprint,
		       upstream_idempotency_key, upstream_session_id, upstream_session_url,
		       status, expires_at, coalesce(last_error, ''), created_at
		FROM checkout_idempotency WHERE workspace_id = $1 AND client_key = $2`,
		workspaceID, clientKey)

	var rec CheckoutIdempotency
	if err := row.Scan(
		&rec.WorkspaceID, &rec.ClientKey, &rec.PlanVariantID, &rec.RequestFingerprint,
		&rec.UpstreamIdempotencyKey, &rec.UpstreamSessionID, &rec.UpstreamSessionURL,
		&rec.Status, &rec.ExpiresAt, &rec.LastError, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkout idempotency: %w", err)
	}
	return &rec, nil
}

func (q *PGXQuerier) InsertCheckoutIdempotencyInProgress(ctx context.Context, rec CheckoutIdempotency) (bool, error) {
	tag, err := q.pool.Exec(ctx, `
		INSERT INTO checkout_idempotency
			(workspace_id, client_key, plan_variant_id, request_fingerprint,
			 upstream_idempotency_key, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (workspace_id, client_key) DO NOTHING`,
		rec.WorkspaceID, rec.ClientKey, rec.PlanVariantID, rec.RequestFingerprint,
		rec.UpstreamIdempotencyKey, CheckoutInProgress, rec.ExpiresAt)
	if err != nil {
		return false, fmt.Errorf("insert checkout idempotency: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *PGXQuerier) CompleteCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, upstreamSessionID, upstreamSessionURL string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE checkout_idempotency
		SET status = $3, upstream_session_id = $4, upstream_session_url = $5
		WHERE workspace_id = $1 AND client_key = $2`,
		workspaceID, clientKey, CheckoutCompleted, upstreamSessionID, upstreamSessionURL)
	if err != nil {
		return fmt.Errorf("complete checkout idempotency: %w", err)
	}
	return nil
}

func (q *PGXQuerier) FailCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, lastError string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE checkout_idempotency SET status = $3, last_error = $4
		WHERE workspace_id = $1 AND client_key = $2`,
		workspaceID, clientKey, CheckoutFailed, lastError)
	if err != nil {
		return fmt.Errorf("fail checkout idempotency: %w", err)
	}
	return nil
}

// --- Customer mapping -----------------------------------------------------

func (q *PGXQuerier) GetWorkspaceBillingCustomer(ctx context.Context, workspaceID string) (*WorkspaceBillingCustomer, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT workspace_id, customer_id FROM workspace_billing_customers WHERE workspace_id = $1`, workspaceID)

	var rec WorkspaceBillingCustomer
	if err := row.Scan(&rec.WorkspaceID, &rec.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace billing customer: %w", err)
	}
	return &rec, nil
}

func (q *PGXQuerier) UpsertWorkspaceBillingCustomer(ctx context.Context, workspaceID, customerID string) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO workspace_billing_customers (workspace_id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (workspace_id) DO UPDATE SET customer_id = excluded.customer_id`,
		workspaceID, customerID)
	if err != nil {
		return fmt.Errorf("upsert workspace billing customer: %w", err)
	}
	return nil
}

func (q *PGXQuerier) DeleteWorkspaceBillingCustomer(ctx context.Context, workspaceID string) error {
	_, err := q.pool.Exec(ctx, `DELETE FROM workspace_billing_customers WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return fmt.Errorf("delete workspace billing customer: %w", err)
	}
	return nil
}

func (q *PGXQuerier) InsertBillingCustomerEvent(ctx context.Context, evt BillingCustomerEvent) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO billing_customer_events
			(workspace_id, type, old_customer_id, new_customer_id, reason, upstream_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		evt.WorkspaceID, evt.Type, evt.OldCustomerID, evt.NewCustomerID, evt.Reason, evt.UpstreamEventID)
	if err != nil {
		return fmt.Errorf("insert billing customer event: %w", err)
	}
	return nil
}

// --- Webhook claim queue ----------------------------------------------------

func (q *PGXQuerier) InsertWebhookEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
	tag, err := q.pool.Exec(ctx, `
		INSERT INTO stripe_webhook_events (event_id, type, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType, payload, WebhookPending)
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *PGXQuerier) GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT event_id, type, payload, status, attempts, coalesce(last_error, ''),
		       coalesce(processor_id, ''), processing_started_at, claim_expires_at,
		       next_attempt_at, created_at, processed_at
		FROM stripe_webhook_events WHERE event_id = $1`, eventID)

	var w WebhookEvent
	if err := row.Scan(
		&w.EventID, &w.Type, &w.Payload, &w.Status, &w.Attempts, &w.LastError,
		&w.ProcessorID, &w.ProcessingStartedAt, &w.ClaimExpiresAt,
		&w.NextAttemptAt, &w.CreatedAt, &w.ProcessedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook event: %w", err)
	}
	return &w, nil
}

func (q *PGXQuerier) MarkWebhookCompleted(ctx context.Context, eventID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE stripe_webhook_events SET status = $2, processed_at = now() WHERE event_id = $1`,
		eventID, WebhookCompleted)
	if err != nil {
		return fmt.Errorf("mark webhook completed: %w", err)
	}
	return nil
}

func (q *PGXQuerier) MarkWebhookFailedForRetry(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE stripe_webhook_events
		SET status = $2, last_error = $3, next_attempt_at = $4, attempts = $5,
		    processor_id = NULL, processing_started_at = NULL, claim_expires_at = NULL
		WHERE event_id = $1`,
		eventID, WebhookPending, lastError, nextAttemptAt, attempts)
	if err != nil {
		return fmt.Errorf("mark webhook failed for retry: %w", err)
	}
	return nil
}

func (q *PGXQuerier) MarkWebhookDeadLettered(ctx context.Context, eventID, lastError string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE stripe_webhook_events SET status = $2, last_error = $3 WHERE event_id = $1`,
		eventID, WebhookFailed, lastError)
	if err != nil {
		return fmt.Errorf("mark webhook dead lettered: %w", err)
	}
	return nil
}

func (q *PGXQuerier) ListWebhooksDueForRetry(ctx context.Context, now time.Time, limit int) ([]WebhookEvent, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT event_id, type, payload, status, attempts, coalesce(last_error, ''),
		       coalesce(processor_id, ''), processing_started_at, claim_expires_at,
		       next_attempt_at, created_at, processed_at
		FROM stripe_webhook_events
		WHERE status = $1 AND (next_attempt_at IS NULL OR next_attempt_at <= $2)
		ORDER BY next_attempt_at ASC
		LIMIT $3`, WebhookPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list webhooks due for retry: %w", err)
	}
	defer rows.Close()
	return scanWebhookEvents(rows)
}

func (q *PGXQuerier) ReclaimExpiredWebhookClaims(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]WebhookEvent, error) {
	rows, err := q.pool.Query(ctx, `
		UPDATE stripe_webhook_events
		SET processor_id = $2, processing_started_at = $1, claim_expires_at = $1 + $3 * interval '1 second'
		WHERE event_id IN (
			SELECT event_id FROM stripe_webhook_events
			WHERE status = $4 AND claim_expires_at < $1
			ORDER BY claim_expires_at ASC
			LIMIT $5
			FOR UPDATE SKIP LOCKED
		)
		RETURNING event_id, type, payload, status, attempts, coalesce(last_error, ''),
		          coalesce(processor_id, ''), processing_started_at, claim_expires_at,
		          next_attempt_at, created_at, processed_at`,
		now, processorID, int64(claimTTL.Seconds()), WebhookProcessing, limit)
	if err != nil {
		return nil, fmt.Errorf("reclaim expired webhook claims: %w", err)
	}
	defer rows.Close()
	return scanWebhookEvents(rows)
}

func scanWebhookEvents(rows pgx.Rows) ([]WebhookEvent, error) {
	var out []WebhookEvent
	for rows.Next() {
		var w WebhookEvent
		if err := rows.Scan(
			&w.EventID, &w.Type, &w.Payload, &w.Status, &w.Attempts, &w.LastError,
			&w.ProcessorID, &w.ProcessingStartedAt, &w.ClaimExpiresAt,
			&w.NextAttemptAt, &w.CreatedAt, &w.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan webhook event: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeleteCompletedWebhooksBefore implements C9's retention pass (§4.9).
func (q *PGXQuerier) DeleteCompletedWebhooksBefore(ctx context.Context, cutoff time.Time) error {
	_, err := q.pool.Exec(ctx, `
		DELETE FROM stripe_webhook_events WHERE status = $1 AND processed_at < $2`,
		WebhookCompleted, cutoff)
	if err != nil {
		return fmt.Errorf("delete completed webhooks before cutoff: %w", err)
	}
	return nil
}

// --- Subscriptions -----------------------------------------------------------

func (q *PGXQuerier) GetSubscriptionByUpstreamID(ctx context.Context, upstreamSubscriptionID string) (*Subscription, error) {
	return q.scanOneSubscription(ctx, `
		SELECT id, workspace_id, plan, plan_variant_id, status, upstream_subscription_id, customer_id,
		       current_period_start, current_period_end, trial_start, trial_end,
		       cancel_at_period_end, canceled_at, ended_at, grace_period_end, metadata
		FROM subscriptions WHERE upstream_subscription_id = $1`, upstreamSubscriptionID)
}

// GetSubscriptionByWorkspace returns the newest subscription row for a
// workspace. A workspace can legitimately accumulate more than one row over
// time (cancel, then a fresh upstream subscription on resubscribe), since
// UpsertSubscription conflicts on id, not workspace_id — so callers that
// want "the current one" need this ordering, not just any matching row.
func (q *PGXQuerier) GetSubscriptionByWorkspace(ctx context.Context, workspaceID string) (*Subscription, error) {
	return q.scanOneSubscription(ctx, `
		SELECT id, workspace_id, plan, plan_variant_id, status, upstream_subscription_id, customer_id,
		       current_period_start, current_period_end, trial_start, trial_end,
		       cancel_at_period_end, canceled_at, ended_at, grace_period_end, metadata
		FROM subscriptions WHERE workspace_id = $1
		ORDER BY current_period_start DESC NULLS LAST, created_at DESC
		LIMIT 1`, workspaceID)
}

func (q *PGXQuerier) scanOneSubscription(ctx context.Context, sql string, arg any) (*Subscription, error) {
	row := q.pool.QueryRow(ctx, sql, arg)
	var s Subscription
	if err := row.Scan(
		&s.ID, &s.WorkspaceID, &s.Plan, &s.PlanVariantID, &s.Status, &s.UpstreamSubscriptionID, &s.CustomerID,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.TrialStart, &s.TrialEnd,
		&s.CancelAtPeriodEnd, &s.CanceledAt, &s.EndedAt, &s.GracePeriodEnd, &s.Metadata,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

func (q *PGXQuerier) UpsertSubscription(ctx context.Context, s Subscription) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO subscriptions
			(id, workspace_id, plan, plan_variant_id, status, upstream_subscription_id, customer_id,
			 current_period_start, current_period_end, trial_start, trial_end,
			 cancel_at_period_end, canceled_at, ended_at, grace_period_end, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			plan = excluded.plan, plan_variant_id = excluded.plan_variant_id, status = excluded.status,
			customer_id = excluded.customer_id,
			current_period_start = excluded.current_period_start, current_period_end = excluded.current_period_end,
			trial_start = excluded.trial_start, trial_end = excluded.trial_end,
			cancel_at_period_end = excluded.cancel_at_period_end, canceled_at = excluded.canceled_at,
			ended_at = excluded.ended_at, grace_period_end = excluded.grace_period_end, metadata = excluded.metadata`,
		s.ID, s.WorkspaceID, s.Plan, s.PlanVariantID, s.Status, s.UpstreamSubscriptionID, s.CustomerID,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.TrialStart, s.TrialEnd,
		s.CancelAtPeriodEnd, s.CanceledAt, s.EndedAt, s.GracePeriodEnd, s.Metadata)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (q *PGXQuerier) ListSubscriptionsInGracePastDeadline(ctx context.Context, now time.Time, limit int) ([]Subscription, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, workspace_id, plan, plan_variant_id, status, upstream_subscription_id, customer_id,
		       current_period_start, current_period_end, trial_start, trial_end,
		       cancel_at_period_end, canceled_at, ended_at, grace_period_end, metadata
		FROM subscriptions
		WHERE status = $1 AND grace_period_end IS NOT NULL AND grace_period_end <= $2
		ORDER BY grace_period_end ASC
		LIMIT $3`, SubPastDue, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions past grace: %w", err)
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(
			&s.ID, &s.WorkspaceID, &s.Plan, &s.PlanVariantID, &s.Status, &s.UpstreamSubscriptionID, &s.CustomerID,
			&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.TrialStart, &s.TrialEnd,
			&s.CancelAtPeriodEnd, &s.CanceledAt, &s.EndedAt, &s.GracePeriodEnd, &s.Metadata,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *PGXQuerier) ExpireSubscriptionGrace(ctx context.Context, subscriptionID string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE subscriptions SET status = $2, ended_at = now() WHERE id = $1`,
		subscriptionID, SubCanceled)
	if err != nil {
		return fmt.Errorf("expire subscription grace: %w", err)
	}
	return nil
}

func (q *PGXQuerier) GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*Subscription, error) {
	return q.scanOneSubscription(ctx, `
		SELECT id, workspace_id, plan, plan_variant_id, status, upstream_subscription_id, customer_id,
		       current_period_start, current_period_end, trial_start, trial_end,
		       cancel_at_period_end, canceled_at, ended_at, grace_period_end, metadata
		FROM subscriptions WHERE customer_id = $1
		ORDER BY current_period_start DESC NULLS LAST LIMIT 1`, customerID)
}

func (q *PGXQuerier) CancelSubscriptionsForWorkspace(ctx context.Context, workspaceID string, canceledAt time.Time) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2, canceled_at = $3, ended_at = $3
		WHERE workspace_id = $1 AND upstream_subscription_id IS NOT NULL AND upstream_subscription_id <> ''`,
		workspaceID, SubCanceled, canceledAt)
	if err != nil {
		return fmt.Errorf("cancel subscriptions for workspace: %w", err)
	}
	return nil
}

func (q *PGXQuerier) RefreshWorkspacePlanCache(ctx context.Context, workspaceID, planSlug string) error {
	_, err := q.pool.Exec(ctx, `UPDATE workspaces SET plan = $2 WHERE id = $1`, workspaceID, planSlug)
	if err != nil {
		return fmt.Errorf("refresh workspace plan cache: %w", err)
	}
	return nil
}

func (q *PGXQuerier) GetWorkspaceIDByBillingCustomerID(ctx context.Context, customerID string) (string, error) {
	var workspaceID string
	err := q.pool.QueryRow(ctx, `
		SELECT workspace_id FROM workspace_billing_customers WHERE customer_id = $1`, customerID).Scan(&workspaceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get workspace id by billing customer: %w", err)
	}
	return workspaceID, nil
}

func (q *PGXQuerier) DeleteBillingCustomerByCustomerID(ctx context.Context, customerID string) ([]string, error) {
	rows, err := q.pool.Query(ctx, `
		DELETE FROM workspace_billing_customers WHERE customer_id = $1 RETURNING workspace_id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("delete billing customer by customer id: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var workspaceID string
		if err := rows.Scan(&workspaceID); err != nil {
			return nil, fmt.Errorf("scan deleted billing customer: %w", err)
		}
		out = append(out, workspaceID)
	}
	return out, rows.Err()
}

// --- Catalog -------------------------------------------------------------------

func (q *PGXQuerier) ListPlanVariants(ctx context.Context) ([]PlanVariant, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, plan_slug, interval, currency, active, upstream_price_id, amount_cents, trial_period_days
		FROM plan_variants`)
	if err != nil {
		return nil, fmt.Errorf("list plan variants: %w", err)
	}
	defer rows.Close()

	var out []PlanVariant
	for rows.Next() {
		var pv PlanVariant
		if err := rows.Scan(&pv.ID, &pv.PlanSlug, &pv.Interval, &pv.Currency, &pv.Active,
			&pv.UpstreamPriceID, &pv.AmountCents, &pv.TrialPeriodDays); err != nil {
			return nil, fmt.Errorf("scan plan variant: %w", err)
		}
		out = append(out, pv)
	}
	return out, rows.Err()
}

func (q *PGXQuerier) UpsertPlanVariant(ctx context.Context, pv PlanVariant) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO plan_variants (id, plan_slug, interval, currency, active, upstream_price_id, amount_cents, trial_period_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (upstream_price_id) DO UPDATE SET
			plan_slug = excluded.plan_slug, interval = excluded.interval, currency = excluded.currency,
			active = excluded.active, amount_cents = excluded.amount_cents, trial_period_days = excluded.trial_period_days`,
		pv.ID, pv.PlanSlug, pv.Interval, pv.Currency, pv.Active, pv.UpstreamPriceID, pv.AmountCents, pv.TrialPeriodDays)
	if err != nil {
		return fmt.Errorf("upsert plan variant: %w", err)
	}
	return nil
}

func (q *PGXQuerier) GetPlanVariantByUpstreamPriceID(ctx context.Context, priceID string) (*PlanVariant, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, plan_slug, interval, currency, active, upstream_price_id, amount_cents, trial_period_days
		FROM plan_variants WHERE upstream_price_id = $1`, priceID)

	var pv PlanVariant
	if err := row.Scan(&pv.ID, &pv.PlanSlug, &pv.Interval, &pv.Currency, &pv.Active,
		&pv.UpstreamPriceID, &pv.AmountCents, &pv.TrialPeriodDays); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan variant by upstream price id: %w", err)
	}
	return &pv, nil
}

func (q *PGXQuerier) DeactivatePlanVariant(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `UPDATE plan_variants SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate plan variant: %w", err)
	}
	return nil
}

var _ Querier = (*PGXQuerier)(nil)
