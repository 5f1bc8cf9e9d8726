// Package events implements the billing webhook event processor, C8: it
// maps upstream billing-provider events onto the local subscription state
// machine and refreshes the workspace plan cache (§4.8). It is the
// Processor a webhookqueue.Worker hands each claimed event to.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
)

// ErrWorkspaceUnresolved is returned when none of §4.8 step 1's resolution
// strategies can attach an upstream subscription to a workspace.
var ErrWorkspaceUnresolved = errors.New("unable to resolve workspace for subscription event")

// ErrCatalogOutOfSync is §4.8 step 2's terminal failure: the subscription's
// price is unknown even after a forced catalog sync, and no existing row
// carries a plan variant to fall back on.
var ErrCatalogOutOfSync = errors.New("CATALOG_OUT_OF_SYNC")

// UpstreamSubscription is the subset of a billing-provider subscription
// object the sync algorithm needs. It is decoded directly from a webhook
// payload or a Retrieve call's response, independent of the provider SDK's
// own wire struct so that version drift in deeply-nested fields (billing
// anchors, multi-item period bounds) cannot silently break the sync.
type UpstreamSubscription struct {
	ID                 string
	CustomerID         string
	Status             string
	PriceID            string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	EndedAt            *time.Time
	Metadata           map[string]string
}

// StripeClient is the subset of the billing provider C8 needs: retrieving
// a subscription by id for the checkout.session.completed branch.
type StripeClient interface {
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*UpstreamSubscription, error)
}

// CatalogSyncer forces a catalog refresh (C10) when a price id is unknown.
type CatalogSyncer interface {
	Sync(ctx context.Context, forced bool) (ScannedCount int, EligibleCount int, UpdatedCount int, MissingCount int, err error)
}

const planFree = "free"

// Processor applies §4.8's status mapping and sync algorithm.
type Processor struct {
	q       dbrpc.Querier
	stripe  StripeClient
	catalog CatalogSyncer
	grace   time.Duration
}

func New(q dbrpc.Querier, stripe StripeClient, catalog CatalogSyncer, graceDuration time.Duration) *Processor {
	return &Processor{q: q, stripe: stripe, catalog: catalog, grace: graceDuration}
}

// MapStatus implements §4.8's upstream→internal status mapping.
func MapStatus(upstream string) dbrpc.SubscriptionStatus {
	switch upstream {
	case "trialing":
		return dbrpc.SubTrialing
	case "active":
		return dbrpc.SubActive
	case "past_due":
		return dbrpc.SubPastDue
	case "unpaid":
		return dbrpc.SubUnpaid
	case "paused":
		return dbrpc.SubPaused
	case "incomplete":
		return dbrpc.SubPastDue
	case "incomplete_expired", "canceled":
		return dbrpc.SubCanceled
	default:
		return dbrpc.SubPastDue
	}
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	Subscription string `json:"subscription"`
}

type subscriptionObject struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	Status            string            `json:"status"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	CanceledAt        *int64            `json:"canceled_at"`
	EndedAt           *int64            `json:"ended_at"`
	TrialStart        *int64            `json:"trial_start"`
	TrialEnd          *int64            `json:"trial_end"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

func (o subscriptionObject) toUpstream() UpstreamSubscription {
	sub := UpstreamSubscription{
		ID:                o.ID,
		CustomerID:        o.Customer,
		Status:            o.Status,
		CancelAtPeriodEnd: o.CancelAtPeriodEnd,
		CanceledAt:        unixPtr(o.CanceledAt),
		EndedAt:           unixPtr(o.EndedAt),
		TrialStart:        unixPtr(o.TrialStart),
		TrialEnd:          unixPtr(o.TrialEnd),
		Metadata:          o.Metadata,
	}
	if len(o.Items.Data) > 0 {
		item := o.Items.Data[0]
		sub.PriceID = item.Price.ID
		if item.CurrentPeriodStart > 0 {
			t := time.Unix(item.CurrentPeriodStart, 0).UTC()
			sub.CurrentPeriodStart = &t
		}
		if item.CurrentPeriodEnd > 0 {
			t := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			sub.CurrentPeriodEnd = &t
		}
	}
	return sub
}

func unixPtr(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

type invoiceObject struct {
	Subscription string `json:"subscription"`
}

type customerObject struct {
	ID string `json:"id"`
}

// Process implements webhookqueue.Processor: it maps event to one of
// §4.8's per-type handlers. An unrecognized event type is a no-op success
// (the claim queue still marks it completed).
func (p *Processor) Process(ctx context.Context, event dbrpc.WebhookEvent) error {
	log := logger.For(logger.ComponentBilling)

	var envelope eventEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("decode webhook envelope: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var session checkoutSessionObject
		if err := json.Unmarshal(envelope.Data.Object, &session); err != nil {
			return fmt.Errorf("decode checkout session object: %w", err)
		}
		if session.Mode != "subscription" || session.Subscription == "" {
			return nil
		}
		sub, err := p.stripe.RetrieveSubscription(ctx, session.Subscription)
		if err != nil {
			return fmt.Errorf("retrieve subscription %s: %w", session.Subscription, err)
		}
		return p.syncSubscription(ctx, *sub, "")

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var obj subscriptionObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return fmt.Errorf("decode subscription object: %w", err)
		}
		return p.syncSubscription(ctx, obj.toUpstream(), "")

	case "customer.deleted":
		var cust customerObject
		if err := json.Unmarshal(envelope.Data.Object, &cust); err != nil {
			return fmt.Errorf("decode customer object: %w", err)
		}
		return p.handleCustomerDeleted(ctx, cust.ID, event.EventID)

	case "invoice.payment_failed":
		var inv invoiceObject
		if err := json.Unmarshal(envelope.Data.Object, &inv); err != nil {
			return fmt.Errorf("decode invoice object: %w", err)
		}
		return p.setGracePeriod(ctx, inv.Subscription)

	case "invoice.paid":
		var inv invoiceObject
		if err := json.Unmarshal(envelope.Data.Object, &inv); err != nil {
			return fmt.Errorf("decode invoice object: %w", err)
		}
		return p.clearGracePeriod(ctx, inv.Subscription)

	default:
		log.Debug("unhandled webhook event type, treating as no-op", zap.String("type", event.Type))
		return nil
	}
}

// syncSubscription implements §4.8's subscription sync algorithm, steps 1-5.
func (p *Processor) syncSubscription(ctx context.Context, sub UpstreamSubscription, workspaceHint string) error {
	existing, err := p.q.GetSubscriptionByUpstreamID(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("load existing subscription by upstream id: %w", err)
	}

	workspaceID, err := p.resolveWorkspace(ctx, sub, workspaceHint, existing)
	if err != nil {
		return err
	}

	planVariant, err := p.resolvePlanVariant(ctx, sub.PriceID, existing)
	if err != nil {
		return err
	}

	mappedStatus := MapStatus(sub.Status)

	target := existing
	if target == nil && dbrpc.EntitledStatuses[mappedStatus] {
		byWorkspace, err := p.q.GetSubscriptionByWorkspace(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("load latest subscription for workspace: %w", err)
		}
		if byWorkspace != nil && dbrpc.EntitledStatuses[byWorkspace.Status] {
			target = byWorkspace
		}
	}

	row := dbrpc.Subscription{
		WorkspaceID:            workspaceID,
		Plan:                   planVariant.PlanSlug,
		PlanVariantID:          planVariant.ID,
		Status:                 mappedStatus,
		UpstreamSubscriptionID: sub.ID,
		CustomerID:             sub.CustomerID,
		CurrentPeriodStart:     sub.CurrentPeriodStart,
		CurrentPeriodEnd:       sub.CurrentPeriodEnd,
		TrialStart:             sub.TrialStart,
		TrialEnd:               sub.TrialEnd,
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
		CanceledAt:             sub.CanceledAt,
		EndedAt:                sub.EndedAt,
	}
	if target != nil {
		row.ID = target.ID
		row.GracePeriodEnd = target.GracePeriodEnd
	}
	if err := p.q.UpsertSubscription(ctx, row); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if dbrpc.NonEntitledTerminalStatuses[mappedStatus] {
		if err := p.q.EnsureFreeSubscriptionForWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("ensure free subscription: %w", err)
		}
	}

	return p.refreshPlanCache(ctx, workspaceID)
}

// resolveWorkspace implements §4.8 step 1's resolution order.
func (p *Processor) resolveWorkspace(ctx context.Context, sub UpstreamSubscription, hint string, existing *dbrpc.Subscription) (string, error) {
	if isUUID(hint) {
		return hint, nil
	}
	if ws := sub.Metadata["workspace_id"]; isUUID(ws) {
		return ws, nil
	}
	if existing != nil && existing.WorkspaceID != "" {
		return existing.WorkspaceID, nil
	}
	if sub.CustomerID != "" {
		workspaceID, err := p.q.GetWorkspaceIDByBillingCustomerID(ctx, sub.CustomerID)
		if err != nil {
			return "", fmt.Errorf("resolve workspace by billing customer: %w", err)
		}
		if workspaceID != "" {
			return workspaceID, nil
		}
		byCustomer, err := p.q.GetSubscriptionByCustomerID(ctx, sub.CustomerID)
		if err != nil {
			return "", fmt.Errorf("resolve workspace by subscription customer id: %w", err)
		}
		if byCustomer != nil {
			return byCustomer.WorkspaceID, nil
		}
	}
	return "", ErrWorkspaceUnresolved
}

// resolvePlanVariant implements §4.8 step 2.
func (p *Processor) resolvePlanVariant(ctx context.Context, priceID string, existing *dbrpc.Subscription) (*dbrpc.PlanVariant, error) {
	pv, err := p.q.GetPlanVariantByUpstreamPriceID(ctx, priceID)
	if err != nil {
		return nil, fmt.Errorf("lookup plan variant by price: %w", err)
	}
	if pv == nil && p.catalog != nil {
		if _, _, _, _, serr := p.catalog.Sync(ctx, true); serr != nil {
			logger.For(logger.ComponentBilling).Warn("forced catalog sync failed", zap.Error(serr))
		} else {
			pv, err = p.q.GetPlanVariantByUpstreamPriceID(ctx, priceID)
			if err != nil {
				return nil, fmt.Errorf("re-lookup plan variant by price: %w", err)
			}
		}
	}
	if pv != nil {
		return pv, nil
	}
	if existing != nil && existing.PlanVariantID != "" {
		return &dbrpc.PlanVariant{ID: existing.PlanVariantID, PlanSlug: existing.Plan}, nil
	}
	return nil, ErrCatalogOutOfSync
}

func (p *Processor) handleCustomerDeleted(ctx context.Context, customerID, upstreamEventID string) error {
	workspaceIDs, err := p.q.DeleteBillingCustomerByCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("delete billing customer mapping: %w", err)
	}
	now := time.Now()
	for _, workspaceID := range workspaceIDs {
		if err := p.q.CancelSubscriptionsForWorkspace(ctx, workspaceID, now); err != nil {
			return fmt.Errorf("cancel subscriptions for workspace %s: %w", workspaceID, err)
		}
		if err := p.q.EnsureFreeSubscriptionForWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("ensure free subscription for workspace %s: %w", workspaceID, err)
		}
		if err := p.refreshPlanCache(ctx, workspaceID); err != nil {
			return err
		}
		_ = p.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
			WorkspaceID:     workspaceID,
			Type:            dbrpc.CustomerEventWebhookDeleted,
			OldCustomerID:   customerID,
			Reason:          "customer.deleted webhook",
			UpstreamEventID: upstreamEventID,
		})
	}
	return nil
}

func (p *Processor) setGracePeriod(ctx context.Context, upstreamSubscriptionID string) error {
	sub, err := p.q.GetSubscriptionByUpstreamID(ctx, upstreamSubscriptionID)
	if err != nil {
		return fmt.Errorf("load subscription for grace period: %w", err)
	}
	if sub == nil {
		return nil
	}
	deadline := time.Now().Add(p.grace)
	sub.GracePeriodEnd = &deadline
	return p.q.UpsertSubscription(ctx, *sub)
}

func (p *Processor) clearGracePeriod(ctx context.Context, upstreamSubscriptionID string) error {
	sub, err := p.q.GetSubscriptionByUpstreamID(ctx, upstreamSubscriptionID)
	if err != nil {
		return fmt.Errorf("load subscription to clear grace period: %w", err)
	}
	if sub == nil {
		return nil
	}
	sub.GracePeriodEnd = nil
	return p.q.UpsertSubscription(ctx, *sub)
}

// refreshPlanCache implements §4.8 step 5.
func (p *Processor) refreshPlanCache(ctx context.Context, workspaceID string) error {
	latest, err := p.q.GetSubscriptionByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("load latest subscription for plan cache refresh: %w", err)
	}
	slug := planFree
	if latest != nil && dbrpc.EntitledStatuses[latest.Status] {
		slug = latest.Plan
	}
	if err := p.q.RefreshWorkspacePlanCache(ctx, workspaceID, slug); err != nil {
		return fmt.Errorf("refresh workspace plan cache: %w", err)
	}
	return nil
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, c := range s {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
	}
	return true
}
