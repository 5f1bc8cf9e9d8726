package dbrpc

import (
	"context"
	"encoding/json"
	"time"
)

// Querier is the single data-access surface every core component depends
// on, mirroring the teacher's db.Queries interface. The top half exposes
// the seven opaque RPCs spec §6.2 names; the bottom half is plain CRUD
// over the billing-integration tables the core's state machines (C5-C10)
// own directly.
type Querier interface {
	// --- §6.2 opaque RPCs ---

	// CheckRequest evaluates the rate-limit RPC for a (form, IP) pair.
	// Returns allowed=false without error when the caller should receive a
	// 429; err is reserved for the check itself failing (§4.4 step 2).
	CheckRequest(ctx context.Context, formID, clientIP string) (allowed bool, err error)

	GetPublishedFormByID(ctx context.Context, formID string) (*Form, error)

	// PublishForm exists for interface completeness; builder CRUD is out
	// of scope (spec Non-goals) and nothing in this module calls it.
	PublishForm(ctx context.Context, formID string, schema json.RawMessage) error

	GetFormSubmissionQuota(ctx context.Context, workspaceID string) (*SubmissionQuota, error)

	// SubmitForm persists a validated submission. A non-nil *RPCError
	// carries the machine-readable code from §4.4 step 8 (P0002 form not
	// found, 42501 not permitted, P0003-P0008 form state conflict).
	SubmitForm(ctx context.Context, params SubmitFormParams) (submissionID string, rpcErr *RPCError, err error)

	EnsureFreeSubscriptionForWorkspace(ctx context.Context, workspaceID string) error

	// ClaimStripeWebhookEvent is §6.2's claim RPC: atomically selects a
	// pending/retriable/stale-processing row by event id and marks it
	// processing under processorID's lease. Returns claimed=false if no
	// such row is eligible (already claimed, exhausted, or unknown id).
	ClaimStripeWebhookEvent(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (claimed bool, err error)

	GetWorkspaceEntitlements(ctx context.Context, workspaceID string) ([]Entitlement, error)

	// --- Checkout idempotency ledger (C5) ---

	GetCheckoutIdempotency(ctx context.Context, workspaceID, clientKey string) (*CheckoutIdempotency, error)
	InsertCheckoutIdempotencyInProgress(ctx context.Context, rec CheckoutIdempotency) (inserted bool, err error)
	CompleteCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, upstreamSessionID, upstreamSessionURL string) error
	FailCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, lastError string) error

	// --- Customer mapping (C6) ---

	GetWorkspaceBillingCustomer(ctx context.Context, workspaceID string) (*WorkspaceBillingCustomer, error)
	UpsertWorkspaceBillingCustomer(ctx context.Context, workspaceID, customerID string) error
	DeleteWorkspaceBillingCustomer(ctx context.Context, workspaceID string) error
	InsertBillingCustomerEvent(ctx context.Context, evt BillingCustomerEvent) error

	// --- Webhook claim queue (C7) ---

	// InsertWebhookEvent is the ingestion-time insert (§4.7 step 4): a
	// unique-violation on event_id is reported back as inserted=false so
	// the handler can answer 200 duplicate:true without reprocessing.
	InsertWebhookEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (inserted bool, err error)

	GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error)
	MarkWebhookCompleted(ctx context.Context, eventID string) error
	MarkWebhookFailedForRetry(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error
	MarkWebhookDeadLettered(ctx context.Context, eventID, lastError string) error
	ListWebhooksDueForRetry(ctx context.Context, now time.Time, limit int) ([]WebhookEvent, error)
	ReclaimExpiredWebhookClaims(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]WebhookEvent, error)

	// DeleteCompletedWebhooksBefore implements C9's retention pass (§4.9):
	// purge completed rows whose processed_at predates the cutoff.
	DeleteCompletedWebhooksBefore(ctx context.Context, cutoff time.Time) error

	// --- Subscriptions (C8, C9) ---

	GetSubscriptionByUpstreamID(ctx context.Context, upstreamSubscriptionID string) (*Subscription, error)
	GetSubscriptionByWorkspace(ctx context.Context, workspaceID string) (*Subscription, error)
	GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*Subscription, error)
	UpsertSubscription(ctx context.Context, sub Subscription) error
	CancelSubscriptionsForWorkspace(ctx context.Context, workspaceID string, canceledAt time.Time) error
	ListSubscriptionsInGracePastDeadline(ctx context.Context, now time.Time, limit int) ([]Subscription, error)
	ExpireSubscriptionGrace(ctx context.Context, subscriptionID string) error

	// RefreshWorkspacePlanCache writes the workspace's denormalized current
	// plan slug, per §4.8 step 5 ("free" when no entitled subscription).
	RefreshWorkspacePlanCache(ctx context.Context, workspaceID, planSlug string) error

	// GetWorkspaceIDByBillingCustomerID is the reverse of
	// GetWorkspaceBillingCustomer, used by the subscription-sync workspace
	// resolution order (§4.8 step 1).
	GetWorkspaceIDByBillingCustomerID(ctx context.Context, customerID string) (string, error)

	// DeleteBillingCustomerByCustomerID removes every mapping row pointing
	// at a deleted upstream customer and returns the affected workspace ids
	// (§4.8's customer.deleted branch).
	DeleteBillingCustomerByCustomerID(ctx context.Context, customerID string) ([]string, error)

	// --- Catalog (C10) ---

	ListPlanVariants(ctx context.Context) ([]PlanVariant, error)
	GetPlanVariantByUpstreamPriceID(ctx context.Context, priceID string) (*PlanVariant, error)
	UpsertPlanVariant(ctx context.Context, pv PlanVariant) error
	DeactivatePlanVariant(ctx context.Context, id string) error
}
