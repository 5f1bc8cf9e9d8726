// Package testsupport provides a hand-rolled dbrpc.Querier fake shared by
// most components' tests. Tests that assert exact calls use the generated
// gomock MockQuerier in internal/dbrpc/mocks instead.
package testsupport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/formgate/gateway/internal/dbrpc"
)

// FakeQuerier implements dbrpc.Querier entirely through overridable
// function fields. New fills every field with a safe, inert default; tests
// override only the methods their scenario exercises.
type FakeQuerier struct {
	CheckRequestFn                      func(ctx context.Context, formID, clientIP string) (bool, error)
	GetPublishedFormByIDFn              func(ctx context.Context, formID string) (*dbrpc.Form, error)
	PublishFormFn                       func(ctx context.Context, formID string, schema json.RawMessage) error
	GetFormSubmissionQuotaFn            func(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error)
	SubmitFormFn                        func(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error)
	EnsureFreeSubscriptionFn            func(ctx context.Context, workspaceID string) error
	ClaimStripeWebhookEventFn           func(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error)
	GetWorkspaceEntitlementsFn          func(ctx context.Context, workspaceID string) ([]dbrpc.Entitlement, error)
	GetCheckoutIdempotencyFn            func(ctx context.Context, workspaceID, clientKey string) (*dbrpc.CheckoutIdempotency, error)
	InsertCheckoutIdempotencyFn         func(ctx context.Context, rec dbrpc.CheckoutIdempotency) (bool, error)
	CompleteCheckoutIdempotencyFn       func(ctx context.Context, workspaceID, clientKey, sessionID, sessionURL string) error
	FailCheckoutIdempotencyFn           func(ctx context.Context, workspaceID, clientKey, lastError string) error
	GetWorkspaceBillingCustomerFn       func(ctx context.Context, workspaceID string) (*dbrpc.WorkspaceBillingCustomer, error)
	UpsertWorkspaceBillingCustomerFn    func(ctx context.Context, workspaceID, customerID string) error
	DeleteWorkspaceBillingCustomerFn    func(ctx context.Context, workspaceID string) error
	InsertBillingCustomerEventFn        func(ctx context.Context, evt dbrpc.BillingCustomerEvent) error
	InsertWebhookEventFn                func(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error)
	GetWebhookEventFn                   func(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error)
	MarkWebhookCompletedFn              func(ctx context.Context, eventID string) error
	MarkWebhookFailedForRetryFn         func(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error
	MarkWebhookDeadLetteredFn           func(ctx context.Context, eventID, lastError string) error
	ListWebhooksDueForRetryFn           func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error)
	ReclaimExpiredWebhookClaimsFn       func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error)
	DeleteCompletedWebhooksBeforeFn     func(ctx context.Context, cutoff time.Time) error
	GetSubscriptionByUpstreamIDFn       func(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error)
	GetSubscriptionByWorkspaceFn        func(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error)
	GetSubscriptionByCustomerIDFn       func(ctx context.Context, customerID string) (*dbrpc.Subscription, error)
	UpsertSubscriptionFn                func(ctx context.Context, sub dbrpc.Subscription) error
	CancelSubscriptionsForWorkspaceFn   func(ctx context.Context, workspaceID string, canceledAt time.Time) error
	ListSubscriptionsInGraceFn          func(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error)
	ExpireSubscriptionGraceFn           func(ctx context.Context, subscriptionID string) error
	RefreshWorkspacePlanCacheFn         func(ctx context.Context, workspaceID, planSlug string) error
	GetWorkspaceIDByBillingCustomerIDFn func(ctx context.Context, customerID string) (string, error)
	DeleteBillingCustomerByCustomerIDFn func(ctx context.Context, customerID string) ([]string, error)
	ListPlanVariantsFn                  func(ctx context.Context) ([]dbrpc.PlanVariant, error)
	GetPlanVariantByUpstreamPriceIDFn   func(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error)
	UpsertPlanVariantFn                 func(ctx context.Context, pv dbrpc.PlanVariant) error
	DeactivatePlanVariantFn             func(ctx context.Context, id string) error

	// Subscriptions backs the default GetSubscriptionByWorkspaceFn, so
	// tests can populate more than one row per workspace (a workspace can
	// legitimately accumulate several over time — cancel, then a fresh
	// upstream subscription on resubscribe) and exercise the same
	// "newest row wins" ordering PGXQuerier applies in SQL, instead of
	// every test silently exercising only the single-row case.
	Subscriptions []dbrpc.Subscription
}

// latestSubscriptionForWorkspace mirrors PGXQuerier.GetSubscriptionByWorkspace's
// `ORDER BY current_period_start DESC NULLS LAST LIMIT 1`: the row with the
// latest current_period_start wins, with a nil period sorting last, and
// ties broken by whichever row was appended last.
func latestSubscriptionForWorkspace(subs []dbrpc.Subscription, workspaceID string) *dbrpc.Subscription {
	var latest *dbrpc.Subscription
	for i := range subs {
		s := subs[i]
		if s.WorkspaceID != workspaceID {
			continue
		}
		if latest == nil {
			latest = &s
			continue
		}
		switch {
		case s.CurrentPeriodStart == nil:
			// nil sorts last: never replaces an existing candidate.
		case latest.CurrentPeriodStart == nil:
			latest = &s
		case !s.CurrentPeriodStart.Before(*latest.CurrentPeriodStart):
			latest = &s
		}
	}
	return latest
}

// New returns a FakeQuerier with every field defaulted to an inert
// implementation (no-op writes, nil/zero reads, never erroring).
func New() *FakeQuerier {
	f := &FakeQuerier{
		CheckRequestFn:           func(ctx context.Context, formID, clientIP string) (bool, error) { return true, nil },
		GetPublishedFormByIDFn:   func(ctx context.Context, formID string) (*dbrpc.Form, error) { return nil, nil },
		PublishFormFn:            func(ctx context.Context, formID string, schema json.RawMessage) error { return nil },
		GetFormSubmissionQuotaFn: func(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error) { return nil, nil },
		SubmitFormFn: func(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error) {
			return "", nil, nil
		},
		EnsureFreeSubscriptionFn: func(ctx context.Context, workspaceID string) error { return nil },
		ClaimStripeWebhookEventFn: func(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
			return false, nil
		},
		GetWorkspaceEntitlementsFn: func(ctx context.Context, workspaceID string) ([]dbrpc.Entitlement, error) { return nil, nil },
		GetCheckoutIdempotencyFn: func(ctx context.Context, workspaceID, clientKey string) (*dbrpc.CheckoutIdempotency, error) {
			return nil, nil
		},
		InsertCheckoutIdempotencyFn: func(ctx context.Context, rec dbrpc.CheckoutIdempotency) (bool, error) { return true, nil },
		CompleteCheckoutIdempotencyFn: func(ctx context.Context, workspaceID, clientKey, sessionID, sessionURL string) error {
			return nil
		},
		FailCheckoutIdempotencyFn: func(ctx context.Context, workspaceID, clientKey, lastError string) error { return nil },
		GetWorkspaceBillingCustomerFn: func(ctx context.Context, workspaceID string) (*dbrpc.WorkspaceBillingCustomer, error) {
			return nil, nil
		},
		UpsertWorkspaceBillingCustomerFn: func(ctx context.Context, workspaceID, customerID string) error { return nil },
		DeleteWorkspaceBillingCustomerFn: func(ctx context.Context, workspaceID string) error { return nil },
		InsertBillingCustomerEventFn:     func(ctx context.Context, evt dbrpc.BillingCustomerEvent) error { return nil },
		InsertWebhookEventFn: func(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
			return true, nil
		},
		GetWebhookEventFn: func(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error) { return nil, nil },
		MarkWebhookCompletedFn:           func(ctx context.Context, eventID string) error { return nil },
		MarkWebhookFailedForRetryFn: func(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error {
			return nil
		},
		MarkWebhookDeadLetteredFn: func(ctx context.Context, eventID, lastError string) error { return nil },
		ListWebhooksDueForRetryFn: func(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
			return nil, nil
		},
		ReclaimExpiredWebhookClaimsFn: func(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
			return nil, nil
		},
		DeleteCompletedWebhooksBeforeFn: func(ctx context.Context, cutoff time.Time) error { return nil },
		GetSubscriptionByUpstreamIDFn: func(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error) {
			return nil, nil
		},
		GetSubscriptionByCustomerIDFn: func(ctx context.Context, customerID string) (*dbrpc.Subscription, error) {
			return nil, nil
		},
		UpsertSubscriptionFn: func(ctx context.Context, sub dbrpc.Subscription) error { return nil },
		CancelSubscriptionsForWorkspaceFn: func(ctx context.Context, workspaceID string, canceledAt time.Time) error {
			return nil
		},
		ListSubscriptionsInGraceFn: func(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
			return nil, nil
		},
		ExpireSubscriptionGraceFn:   func(ctx context.Context, subscriptionID string) error { return nil },
		RefreshWorkspacePlanCacheFn: func(ctx context.Context, workspaceID, planSlug string) error { return nil },
		GetWorkspaceIDByBillingCustomerIDFn: func(ctx context.Context, customerID string) (string, error) {
			return "", nil
		},
		DeleteBillingCustomerByCustomerIDFn: func(ctx context.Context, customerID string) ([]string, error) {
			return nil, nil
		},
		ListPlanVariantsFn: func(ctx context.Context) ([]dbrpc.PlanVariant, error) { return nil, nil },
		GetPlanVariantByUpstreamPriceIDFn: func(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
			return nil, nil
		},
		UpsertPlanVariantFn:     func(ctx context.Context, pv dbrpc.PlanVariant) error { return nil },
		DeactivatePlanVariantFn: func(ctx context.Context, id string) error { return nil },
	}
	f.GetSubscriptionByWorkspaceFn = func(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
		return latestSubscriptionForWorkspace(f.Subscriptions, workspaceID), nil
	}
	return f
}

func (f *FakeQuerier) CheckRequest(ctx context.Context, formID, clientIP string) (bool, error) {
	return f.CheckRequestFn(ctx, formID, clientIP)
}
func (f *FakeQuerier) GetPublishedFormByID(ctx context.Context, formID string) (*dbrpc.Form, error) {
	return f.GetPublishedFormByIDFn(ctx, formID)
}
func (f *FakeQuerier) PublishForm(ctx context.Context, formID string, schema json.RawMessage) error {
	return f.PublishFormFn(ctx, formID, schema)
}
func (f *FakeQuerier) GetFormSubmissionQuota(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error) {
	return f.GetFormSubmissionQuotaFn(ctx, workspaceID)
}
func (f *FakeQuerier) SubmitForm(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error) {
	return f.SubmitFormFn(ctx, p)
}
func (f *FakeQuerier) EnsureFreeSubscriptionForWorkspace(ctx context.Context, workspaceID string) error {
	return f.EnsureFreeSubscriptionFn(ctx, workspaceID)
}
func (f *FakeQuerier) ClaimStripeWebhookEvent(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
	return f.ClaimStripeWebhookEventFn(ctx, eventID, processorID, claimTTL, maxAttempts)
}
func (f *FakeQuerier) GetWorkspaceEntitlements(ctx context.Context, workspaceID string) ([]dbrpc.Entitlement, error) {
	return f.GetWorkspaceEntitlementsFn(ctx, workspaceID)
}
func (f *FakeQuerier) GetCheckoutIdempotency(ctx context.Context, workspaceID, clientKey string) (*dbrpc.CheckoutIdempotency, error) {
	return f.GetCheckoutIdempotencyFn(ctx, workspaceID, clientKey)
}
func (f *FakeQuerier) InsertCheckoutIdempotencyInProgress(ctx context.Context, rec dbrpc.CheckoutIdempotency) (bool, error) {
	return f.InsertCheckoutIdempotencyFn(ctx, rec)
}
func (f *FakeQuerier) CompleteCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, sessionID, sessionURL string) error {
	return f.CompleteCheckoutIdempotencyFn(ctx, workspaceID, clientKey, sessionID, sessionURL)
}
func (f *FakeQuerier) FailCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, lastError string) error {
	return f.FailCheckoutIdempotencyFn(ctx, workspaceID, clientKey, lastError)
}
func (f *FakeQuerier) GetWorkspaceBillingCustomer(ctx context.Context, workspaceID string) (*dbrpc.WorkspaceBillingCustomer, error) {
	return f.GetWorkspaceBillingCustomerFn(ctx, workspaceID)
}
func (f *FakeQuerier) UpsertWorkspaceBillingCustomer(ctx context.Context, workspaceID, customerID string) error {
	return f.UpsertWorkspaceBillingCustomerFn(ctx, workspaceID, customerID)
}
func (f *FakeQuerier) DeleteWorkspaceBillingCustomer(ctx context.Context, workspaceID string) error {
	return f.DeleteWorkspaceBillingCustomerFn(ctx, workspaceID)
}
func (f *FakeQuerier) InsertBillingCustomerEvent(ctx context.Context, evt dbrpc.BillingCustomerEvent) error {
	return f.InsertBillingCustomerEventFn(ctx, evt)
}
func (f *FakeQuerier) InsertWebhookEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
	return f.InsertWebhookEventFn(ctx, eventID, eventType, payload)
}
func (f *FakeQuerier) GetWebhookEvent(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error) {
	return f.GetWebhookEventFn(ctx, eventID)
}
func (f *FakeQuerier) MarkWebhookCompleted(ctx context.Context, eventID string) error {
	return f.MarkWebhookCompletedFn(ctx, eventID)
}
func (f *FakeQuerier) MarkWebhookFailedForRetry(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error {
	return f.MarkWebhookFailedForRetryFn(ctx, eventID, lastError, nextAttemptAt, attempts)
}
func (f *FakeQuerier) MarkWebhookDeadLettered(ctx context.Context, eventID, lastError string) error {
	return f.MarkWebhookDeadLetteredFn(ctx, eventID, lastError)
}
func (f *FakeQuerier) ListWebhooksDueForRetry(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
	return f.ListWebhooksDueForRetryFn(ctx, now, limit)
}
func (f *FakeQuerier) ReclaimExpiredWebhookClaims(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
	return f.ReclaimExpiredWebhookClaimsFn(ctx, now, processorID, claimTTL, limit)
}
func (f *FakeQuerier) DeleteCompletedWebhooksBefore(ctx context.Context, cutoff time.Time) error {
	return f.DeleteCompletedWebhooksBeforeFn(ctx, cutoff)
}
func (f *FakeQuerier) GetSubscriptionByUpstreamID(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error) {
	return f.GetSubscriptionByUpstreamIDFn(ctx, upstreamSubscriptionID)
}
func (f *FakeQuerier) GetSubscriptionByWorkspace(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
	return f.GetSubscriptionByWorkspaceFn(ctx, workspaceID)
}
func (f *FakeQuerier) GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*dbrpc.Subscription, error) {
	return f.GetSubscriptionByCustomerIDFn(ctx, customerID)
}
func (f *FakeQuerier) UpsertSubscription(ctx context.Context, sub dbrpc.Subscription) error {
	return f.UpsertSubscriptionFn(ctx, sub)
}
func (f *FakeQuerier) CancelSubscriptionsForWorkspace(ctx context.Context, workspaceID string, canceledAt time.Time) error {
	return f.CancelSubscriptionsForWorkspaceFn(ctx, workspaceID, canceledAt)
}
func (f *FakeQuerier) ListSubscriptionsInGracePastDeadline(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
	return f.ListSubscriptionsInGraceFn(ctx, now, limit)
}
func (f *FakeQuerier) ExpireSubscriptionGrace(ctx context.Context, subscriptionID string) error {
	return f.ExpireSubscriptionGraceFn(ctx, subscriptionID)
}
func (f *FakeQuerier) RefreshWorkspacePlanCache(ctx context.Context, workspaceID, planSlug string) error {
	return f.RefreshWorkspacePlanCacheFn(ctx, workspaceID, planSlug)
}
func (f *FakeQuerier) GetWorkspaceIDByBillingCustomerID(ctx context.Context, customerID string) (string, error) {
	return f.GetWorkspaceIDByBillingCustomerIDFn(ctx, customerID)
}
func (f *FakeQuerier) DeleteBillingCustomerByCustomerID(ctx context.Context, customerID string) ([]string, error) {
	return f.DeleteBillingCustomerByCustomerIDFn(ctx, customerID)
}
func (f *FakeQuerier) ListPlanVariants(ctx context.Context) ([]dbrpc.PlanVariant, error) {
	return f.ListPlanVariantsFn(ctx)
}
func (f *FakeQuerier) GetPlanVariantByUpstreamPriceID(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
	return f.GetPlanVariantByUpstreamPriceIDFn(ctx, priceID)
}
func (f *FakeQuerier) UpsertPlanVariant(ctx context.Context, pv dbrpc.PlanVariant) error {
	return f.UpsertPlanVariantFn(ctx, pv)
}
func (f *FakeQuerier) DeactivatePlanVariant(ctx context.Context, id string) error {
	return f.DeactivatePlanVariantFn(ctx, id)
}

var _ dbrpc.Querier = (*FakeQuerier)(nil)
