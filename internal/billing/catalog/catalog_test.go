package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/testsupport"
)

type fakeStripeClient struct {
	prices []UpstreamPrice
}

func (f *fakeStripeClient) ListActivePrices(ctx context.Context) ([]UpstreamPrice, error) {
	return f.prices, nil
}

func TestSync_LookupKeyMatch_UpdatesVariant(t *testing.T) {
	q := testsupport.New()
	q.ListPlanVariantsFn = func(ctx context.Context) ([]dbrpc.PlanVariant, error) {
		return []dbrpc.PlanVariant{
			{ID: "pv1", PlanSlug: "pro", Interval: dbrpc.IntervalMonthly, Active: true, UpstreamPriceID: "price_old", AmountCents: 1000, Currency: "usd"},
		}, nil
	}
	var upserted dbrpc.PlanVariant
	q.UpsertPlanVariantFn = func(ctx context.Context, pv dbrpc.PlanVariant) error {
		upserted = pv
		return nil
	}

	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{ID: "price_new", Currency: "usd", UnitAmount: 2900, Recurring: true, Interval: "month", Active: true, LookupKey: "formsandbox:prod:pro:monthly:usd", Created: 100},
	}}
	s := New(q, stripe, "prod", true)

	scanned, eligible, updated, missing, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, scanned)
	assert.Equal(t, 1, eligible)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, missing)
	assert.Equal(t, "price_new", upserted.UpstreamPriceID)
	assert.Equal(t, int64(2900), upserted.AmountCents)
}

func TestSync_MetadataMatch_SelfServeFalseVetoes(t *testing.T) {
	q := testsupport.New()
	q.ListPlanVariantsFn = func(ctx context.Context) ([]dbrpc.PlanVariant, error) { return nil, nil }

	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{ID: "price_vetoed", Currency: "usd", UnitAmount: 5000, Recurring: true, Interval: "year", Active: true,
			Metadata: map[string]string{"plan_slug": "business", "interval": "yearly", "self_serve": "false"}, Created: 5},
	}}
	s := New(q, stripe, "", true)

	_, eligible, _, _, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, eligible)
}

func TestSync_LookupKeyWinsOverDisagreeingMetadata(t *testing.T) {
	q := testsupport.New()
	q.ListPlanVariantsFn = func(ctx context.Context) ([]dbrpc.PlanVariant, error) {
		return []dbrpc.PlanVariant{
			{ID: "pv2", PlanSlug: "pro", Interval: dbrpc.IntervalMonthly, Active: true},
		}, nil
	}
	var upserted dbrpc.PlanVariant
	q.UpsertPlanVariantFn = func(ctx context.Context, pv dbrpc.PlanVariant) error {
		upserted = pv
		return nil
	}

	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{
			ID: "price_x", Currency: "usd", UnitAmount: 1500, Recurring: true, Interval: "month", Active: true,
			LookupKey: "formsandbox::pro:monthly:usd",
			Metadata:  map[string]string{"plan_slug": "business", "interval": "monthly", "self_serve": "true"},
			Created:   1,
		},
	}}
	s := New(q, stripe, "", true)

	_, _, updated, _, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, "pro", upserted.PlanSlug) // lookup-key's plan_slug (pro) wins, variant matched by pro|monthly
	assert.Equal(t, "price_x", upserted.UpstreamPriceID)
}

func TestSync_MissingVariant_Reported(t *testing.T) {
	q := testsupport.New()
	q.ListPlanVariantsFn = func(ctx context.Context) ([]dbrpc.PlanVariant, error) { return nil, nil }

	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{ID: "price_y", Currency: "usd", UnitAmount: 999, Recurring: true, Interval: "month", Active: true, LookupKey: "formsandbox:prod:pro:monthly:usd", Created: 1},
	}}
	s := New(q, stripe, "prod", true)

	_, eligible, updated, missing, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, eligible)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 1, missing)
}

func TestSync_Disabled_NotForced_NoOp(t *testing.T) {
	q := testsupport.New()
	stripe := &fakeStripeClient{prices: []UpstreamPrice{{ID: "p1", Currency: "usd", Recurring: true, Interval: "month", Active: true}}}
	s := New(q, stripe, "", false)

	scanned, eligible, updated, missing, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, scanned)
	assert.Equal(t, 0, eligible)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 0, missing)
}

func TestSync_Disabled_Forced_Runs(t *testing.T) {
	q := testsupport.New()
	q.ListPlanVariantsFn = func(ctx context.Context) ([]dbrpc.PlanVariant, error) { return nil, nil }
	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{ID: "p1", Currency: "usd", UnitAmount: 100, Recurring: true, Interval: "month", Active: true, LookupKey: "formsandbox::pro:monthly:usd"},
	}}
	s := New(q, stripe, "", false)

	scanned, eligible, _, _, err := s.Sync(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, scanned)
	assert.Equal(t, 1, eligible)
}

func TestSync_EnvMismatch_Ineligible(t *testing.T) {
	q := testsupport.New()
	stripe := &fakeStripeClient{prices: []UpstreamPrice{
		{ID: "p1", Currency: "usd", UnitAmount: 100, Recurring: true, Interval: "month", Active: true, LookupKey: "formsandbox:dev:pro:monthly:usd"},
	}}
	s := New(q, stripe, "prod", true)

	_, eligible, _, _, err := s.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, eligible)
}
