// Package dbrpc is the gateway's sole data-access surface. It exposes the
// seven RPCs the core consumes as opaque operations (spec §6.2) alongside
// plain CRUD for the billing-integration tables the core owns the state
// machine for (§3.1) — mirroring the teacher's single db.Queries type,
// which mixes hand-written SQL functions and straight table access behind
// one interface backed by a pgxpool.Pool.
package dbrpc

import (
	"encoding/json"
	"time"
)

// --- Public form surface -----------------------------------------------

// Form is the immutable published schema row (§3.1).
type Form struct {
	ID                 string
	WorkspaceID        string
	Title              string
	Description        string
	PublishedSchema    json.RawMessage
	SuccessMessage     string
	RedirectURL        *string
	MetaTitle          string
	MetaDescription    string
	MetaImageURL       string
	CaptchaEnabled     bool
	CaptchaProvider    string
	RequireAuth        bool
	PasswordProtected  bool
}

// SubmissionQuota is the result of get_form_submission_quota.
type SubmissionQuota struct {
	FeatureKey    string
	IsEnabled     bool
	LimitValue    int64 // -1 means unlimited
	CurrentUsage  int64
	WorkspaceID   string
}

// Entitlement is one row from get_workspace_entitlements.
type Entitlement struct {
	FeatureKey string
	IsEnabled  bool
	LimitValue int64
}

// SubmitFormParams bundles the submit_form RPC's arguments.
type SubmitFormParams struct {
	FormID         string
	Data           json.RawMessage
	IdempotencyKey string
	IP             string
	UserAgent      string
	Referer        string
	StartedAt      *time.Time
}

// RPCError wraps a machine-readable error code surfaced by an RPC, per
// §4.4 step 8's P0002/42501/P0003..P0008 mapping and §4.4 step 2's
// 429-shaped check_request error.
type RPCError struct {
	Code    string
	Message string
}

func (e *RPCError) Error() string { return e.Message }

// --- Billing: checkout idempotency (C5, §3.1) ---------------------------

type CheckoutStatus string

const (
	CheckoutInProgress CheckoutStatus = "in_progress"
	CheckoutCompleted  CheckoutStatus = "completed"
	CheckoutFailed     CheckoutStatus = "failed"
)

type CheckoutIdempotency struct {
	WorkspaceID          string
	ClientKey            string
	PlanVariantID         string
	RequestFingerprint    string
	UpstreamIdempotencyKey string
	UpstreamSessionID     string
	UpstreamSessionURL    string
	Status                CheckoutStatus
	ExpiresAt             time.Time
	LastError             string
	CreatedAt             time.Time
}

// --- Billing: customer mapping (C6, §3.1) --------------------------------

type WorkspaceBillingCustomer struct {
	WorkspaceID string
	CustomerID  string
}

type BillingCustomerEventType string

const (
	CustomerEventValidated     BillingCustomerEventType = "validated"
	CustomerEventInvalidated   BillingCustomerEventType = "invalidated"
	CustomerEventRecreated     BillingCustomerEventType = "recreated"
	CustomerEventWebhookDeleted BillingCustomerEventType = "webhook_deleted"
)

type BillingCustomerEvent struct {
	WorkspaceID     string
	Type            BillingCustomerEventType
	OldCustomerID   string
	NewCustomerID   string
	Reason          string
	UpstreamEventID string
	CreatedAt       time.Time
}

// --- Billing: webhook claim queue (C7, §3.1) -----------------------------

type WebhookStatus string

const (
	WebhookPending    WebhookStatus = "pending"
	WebhookProcessing WebhookStatus = "processing"
	WebhookCompleted  WebhookStatus = "completed"
	WebhookFailed     WebhookStatus = "failed"
)

type WebhookEvent struct {
	EventID              string
	Type                 string
	Payload              json.RawMessage
	Status               WebhookStatus
	Attempts             int
	LastError            string
	ProcessorID           string
	ProcessingStartedAt  *time.Time
	ClaimExpiresAt       *time.Time
	NextAttemptAt        *time.Time
	CreatedAt            time.Time
	ProcessedAt          *time.Time
}

// --- Billing: subscriptions and catalog (C8/C10, §3.1) -------------------

type SubscriptionStatus string

const (
	SubTrialing SubscriptionStatus = "trialing"
	SubActive   SubscriptionStatus = "active"
	SubPastDue  SubscriptionStatus = "past_due"
	SubUnpaid   SubscriptionStatus = "unpaid"
	SubPaused   SubscriptionStatus = "paused"
	SubCanceled SubscriptionStatus = "canceled"
)

// EntitledStatuses grants paid capability per the GLOSSARY.
var EntitledStatuses = map[SubscriptionStatus]bool{
	SubActive:   true,
	SubTrialing: true,
	SubPastDue:  true,
}

// NonEntitledTerminalStatuses per §4.8.
var NonEntitledTerminalStatuses = map[SubscriptionStatus]bool{
	SubCanceled: true,
	SubUnpaid:   true,
	SubPaused:   true,
}

type Subscription struct {
	ID                 string
	WorkspaceID        string
	Plan               string
	PlanVariantID      string
	Status             SubscriptionStatus
	UpstreamSubscriptionID string
	CustomerID         string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	EndedAt            *time.Time
	GracePeriodEnd     *time.Time
	Metadata           json.RawMessage
}

type PlanInterval string

const (
	IntervalMonthly PlanInterval = "monthly"
	IntervalYearly  PlanInterval = "yearly"
)

type PlanVariant struct {
	ID             string
	PlanSlug       string
	Interval       PlanInterval
	Currency       string
	Active         bool
	UpstreamPriceID string
	AmountCents    int64
	TrialPeriodDays int
}
