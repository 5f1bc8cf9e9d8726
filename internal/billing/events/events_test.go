package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/testsupport"
)

type fakeStripeClient struct {
	sub *UpstreamSubscription
	err error
}

func (f *fakeStripeClient) RetrieveSubscription(ctx context.Context, subscriptionID string) (*UpstreamSubscription, error) {
	return f.sub, f.err
}

func subscriptionPayload(t *testing.T, id, customer, status, priceID string, metadata map[string]string) []byte {
	t.Helper()
	obj := map[string]any{
		"id":                   id,
		"customer":             customer,
		"status":               status,
		"cancel_at_period_end": false,
		"metadata":             metadata,
		"items": map[string]any{
			"data": []map[string]any{
				{
					"price":                 map[string]any{"id": priceID},
					"current_period_start": time.Now().Unix(),
					"current_period_end":   time.Now().Add(30 * 24 * time.Hour).Unix(),
				},
			},
		},
	}
	envelope := map[string]any{
		"id":   "evt_" + id,
		"type": "customer.subscription.updated",
		"data": map[string]any{"object": obj},
	}
	b, err := json.Marshal(envelope)
	require.NoError(t, err)
	return b
}

func TestMapStatus(t *testing.T) {
	cases := map[string]dbrpc.SubscriptionStatus{
		"trialing":           dbrpc.SubTrialing,
		"active":             dbrpc.SubActive,
		"past_due":           dbrpc.SubPastDue,
		"unpaid":             dbrpc.SubUnpaid,
		"paused":             dbrpc.SubPaused,
		"incomplete":         dbrpc.SubPastDue,
		"incomplete_expired": dbrpc.SubCanceled,
		"canceled":           dbrpc.SubCanceled,
		"something_else":     dbrpc.SubPastDue,
	}
	for upstream, want := range cases {
		assert.Equal(t, want, MapStatus(upstream), upstream)
	}
}

func TestProcess_SubscriptionUpdated_ResolvesViaCustomerMapping(t *testing.T) {
	q := testsupport.New()
	var upserted dbrpc.Subscription
	var cacheWorkspace, cachePlan string

	q.GetWorkspaceIDByBillingCustomerIDFn = func(ctx context.Context, customerID string) (string, error) {
		return "ws-1", nil
	}
	q.GetPlanVariantByUpstreamPriceIDFn = func(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
		return &dbrpc.PlanVariant{ID: "pv-pro-monthly", PlanSlug: "pro"}, nil
	}
	q.UpsertSubscriptionFn = func(ctx context.Context, sub dbrpc.Subscription) error {
		upserted = sub
		return nil
	}
	q.GetSubscriptionByWorkspaceFn = func(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
		return &upserted, nil
	}
	q.RefreshWorkspacePlanCacheFn = func(ctx context.Context, workspaceID, planSlug string) error {
		cacheWorkspace, cachePlan = workspaceID, planSlug
		return nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload := subscriptionPayload(t, "sub_123", "cus_abc", "active", "price_pro_monthly", nil)

	err := p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_sub_123", Type: "customer.subscription.updated", Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "ws-1", upserted.WorkspaceID)
	assert.Equal(t, dbrpc.SubActive, upserted.Status)
	assert.Equal(t, "pro", upserted.Plan)
	assert.Equal(t, "ws-1", cacheWorkspace)
	assert.Equal(t, "pro", cachePlan)
}

func TestProcess_SubscriptionCanceled_EnsuresFreeAndRefreshesCache(t *testing.T) {
	q := testsupport.New()
	freeEnsured := false
	q.GetWorkspaceIDByBillingCustomerIDFn = func(ctx context.Context, customerID string) (string, error) {
		return "ws-2", nil
	}
	q.GetPlanVariantByUpstreamPriceIDFn = func(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
		return &dbrpc.PlanVariant{ID: "pv-pro-monthly", PlanSlug: "pro"}, nil
	}
	q.EnsureFreeSubscriptionFn = func(ctx context.Context, workspaceID string) error {
		freeEnsured = true
		return nil
	}
	q.GetSubscriptionByWorkspaceFn = func(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
		return nil, nil
	}
	var cachedPlan string
	q.RefreshWorkspacePlanCacheFn = func(ctx context.Context, workspaceID, planSlug string) error {
		cachedPlan = planSlug
		return nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload := subscriptionPayload(t, "sub_456", "cus_def", "canceled", "price_pro_monthly", nil)

	err := p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_sub_456", Type: "customer.subscription.deleted", Payload: payload,
	})
	require.NoError(t, err)
	assert.True(t, freeEnsured)
	assert.Equal(t, planFree, cachedPlan)
}

func TestProcess_UnresolvableWorkspace_Errors(t *testing.T) {
	q := testsupport.New()
	q.GetWorkspaceIDByBillingCustomerIDFn = func(ctx context.Context, customerID string) (string, error) {
		return "", nil
	}
	q.GetSubscriptionByCustomerIDFn = func(ctx context.Context, customerID string) (*dbrpc.Subscription, error) {
		return nil, nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload := subscriptionPayload(t, "sub_789", "cus_ghi", "active", "price_pro_monthly", nil)

	err := p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_sub_789", Type: "customer.subscription.created", Payload: payload,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkspaceUnresolved)
}

func TestProcess_UnknownPriceWithNoExisting_CatalogOutOfSync(t *testing.T) {
	q := testsupport.New()
	q.GetWorkspaceIDByBillingCustomerIDFn = func(ctx context.Context, customerID string) (string, error) {
		return "ws-3", nil
	}
	q.GetPlanVariantByUpstreamPriceIDFn = func(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
		return nil, nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload := subscriptionPayload(t, "sub_999", "cus_jkl", "active", "price_unknown", nil)

	err := p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_sub_999", Type: "customer.subscription.created", Payload: payload,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogOutOfSync)
}

func TestProcess_CustomerDeleted_CancelsAndRecordsAudit(t *testing.T) {
	q := testsupport.New()
	var auditEvents []dbrpc.BillingCustomerEvent
	var canceledWorkspace string
	q.DeleteBillingCustomerByCustomerIDFn = func(ctx context.Context, customerID string) ([]string, error) {
		return []string{"ws-4"}, nil
	}
	q.CancelSubscriptionsForWorkspaceFn = func(ctx context.Context, workspaceID string, canceledAt time.Time) error {
		canceledWorkspace = workspaceID
		return nil
	}
	q.GetSubscriptionByWorkspaceFn = func(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
		return nil, nil
	}
	q.InsertBillingCustomerEventFn = func(ctx context.Context, evt dbrpc.BillingCustomerEvent) error {
		auditEvents = append(auditEvents, evt)
		return nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload, err := json.Marshal(map[string]any{
		"id": "evt_cust_del", "type": "customer.deleted",
		"data": map[string]any{"object": map[string]any{"id": "cus_deleted"}},
	})
	require.NoError(t, err)

	err = p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_cust_del", Type: "customer.deleted", Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "ws-4", canceledWorkspace)
	require.Len(t, auditEvents, 1)
	assert.Equal(t, dbrpc.CustomerEventWebhookDeleted, auditEvents[0].Type)
}

func TestProcess_InvoicePaymentFailed_SetsGracePeriod(t *testing.T) {
	q := testsupport.New()
	sub := &dbrpc.Subscription{ID: "sub-row-1", WorkspaceID: "ws-5", Status: dbrpc.SubActive, UpstreamSubscriptionID: "sub_abc"}
	q.GetSubscriptionByUpstreamIDFn = func(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error) {
		return sub, nil
	}
	var upserted dbrpc.Subscription
	q.UpsertSubscriptionFn = func(ctx context.Context, s dbrpc.Subscription) error {
		upserted = s
		return nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload, err := json.Marshal(map[string]any{
		"id": "evt_invoice_fail", "type": "invoice.payment_failed",
		"data": map[string]any{"object": map[string]any{"subscription": "sub_abc"}},
	})
	require.NoError(t, err)

	err = p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_invoice_fail", Type: "invoice.payment_failed", Payload: payload,
	})
	require.NoError(t, err)
	require.NotNil(t, upserted.GracePeriodEnd)
	assert.Equal(t, dbrpc.SubActive, upserted.Status)
}

func TestProcess_InvoicePaid_ClearsGracePeriod(t *testing.T) {
	q := testsupport.New()
	deadline := time.Now().Add(2 * 24 * time.Hour)
	sub := &dbrpc.Subscription{ID: "sub-row-2", WorkspaceID: "ws-6", Status: dbrpc.SubPastDue, UpstreamSubscriptionID: "sub_xyz", GracePeriodEnd: &deadline}
	q.GetSubscriptionByUpstreamIDFn = func(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error) {
		return sub, nil
	}
	var upserted dbrpc.Subscription
	q.UpsertSubscriptionFn = func(ctx context.Context, s dbrpc.Subscription) error {
		upserted = s
		return nil
	}

	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload, err := json.Marshal(map[string]any{
		"id": "evt_invoice_paid", "type": "invoice.paid",
		"data": map[string]any{"object": map[string]any{"subscription": "sub_xyz"}},
	})
	require.NoError(t, err)

	err = p.Process(context.Background(), dbrpc.WebhookEvent{
		EventID: "evt_invoice_paid", Type: "invoice.paid", Payload: payload,
	})
	require.NoError(t, err)
	assert.Nil(t, upserted.GracePeriodEnd)
	assert.Equal(t, dbrpc.SubPastDue, upserted.Status)
}

func TestProcess_UnhandledEventType_IsNoOp(t *testing.T) {
	q := testsupport.New()
	p := New(q, &fakeStripeClient{}, nil, 7*24*time.Hour)
	payload, err := json.Marshal(map[string]any{"id": "evt_other", "type": "account.updated", "data": map[string]any{"object": map[string]any{}}})
	require.NoError(t, err)

	err = p.Process(context.Background(), dbrpc.WebhookEvent{EventID: "evt_other", Type: "account.updated", Payload: payload})
	require.NoError(t, err)
}
