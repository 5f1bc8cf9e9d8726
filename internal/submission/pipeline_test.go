package submission

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/reqctx"
)

// fakeQuerier implements dbrpc.Querier with overridable hooks, used by the
// submission pipeline tests in place of a live database.
type fakeQuerier struct {
	checkRequest   func(ctx context.Context, formID, ip string) (bool, error)
	getForm        func(ctx context.Context, formID string) (*dbrpc.Form, error)
	getQuota       func(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error)
	submitForm     func(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error)
	submittedData  json.RawMessage
}

func (f *fakeQuerier) CheckRequest(ctx context.Context, formID, clientIP string) (bool, error) {
	return f.checkRequest(ctx, formID, clientIP)
}
func (f *fakeQuerier) GetPublishedFormByID(ctx context.Context, formID string) (*dbrpc.Form, error) {
	return f.getForm(ctx, formID)
}
func (f *fakeQuerier) PublishForm(ctx context.Context, formID string, schema json.RawMessage) error {
	return nil
}
func (f *fakeQuerier) GetFormSubmissionQuota(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error) {
	return f.getQuota(ctx, workspaceID)
}
func (f *fakeQuerier) SubmitForm(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error) {
	f.submittedData = p.Data
	return f.submitForm(ctx, p)
}
func (f *fakeQuerier) EnsureFreeSubscriptionForWorkspace(ctx context.Context, workspaceID string) error {
	return nil
}
func (f *fakeQuerier) ClaimStripeWebhookEvent(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
	return false, nil
}
func (f *fakeQuerier) InsertWebhookEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
	return true, nil
}
func (f *fakeQuerier) GetWorkspaceEntitlements(ctx context.Context, workspaceID string) ([]dbrpc.Entitlement, error) {
	return nil, nil
}
func (f *fakeQuerier) GetCheckoutIdempotency(ctx context.Context, workspaceID, clientKey string) (*dbrpc.CheckoutIdempotency, error) {
	return nil, nil
}
func (f *fakeQuerier) InsertCheckoutIdempotencyInProgress(ctx context.Context, rec dbrpc.CheckoutIdempotency) (bool, error) {
	return true, nil
}
func (f *fakeQuerier) CompleteCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, upstreamSessionID, upstreamSessionURL string) error {
	return nil
}
func (f *fakeQuerier) FailCheckoutIdempotency(ctx context.Context, workspaceID, clientKey, lastError string) error {
	return nil
}
func (f *fakeQuerier) GetWorkspaceBillingCustomer(ctx context.Context, workspaceID string) (*dbrpc.WorkspaceBillingCustomer, error) {
	return nil, nil
}
func (f *fakeQuerier) UpsertWorkspaceBillingCustomer(ctx context.Context, workspaceID, customerID string) error {
	return nil
}
func (f *fakeQuerier) DeleteWorkspaceBillingCustomer(ctx context.Context, workspaceID string) error {
	return nil
}
func (f *fakeQuerier) InsertBillingCustomerEvent(ctx context.Context, evt dbrpc.BillingCustomerEvent) error {
	return nil
}
func (f *fakeQuerier) GetWebhookEvent(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error) {
	return nil, nil
}
func (f *fakeQuerier) MarkWebhookCompleted(ctx context.Context, eventID string) error { return nil }
func (f *fakeQuerier) MarkWebhookFailedForRetry(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error {
	return nil
}
func (f *fakeQuerier) MarkWebhookDeadLettered(ctx context.Context, eventID, lastError string) error {
	return nil
}
func (f *fakeQuerier) ListWebhooksDueForRetry(ctx context.Context, now time.Time, limit int) ([]dbrpc.WebhookEvent, error) {
	return nil, nil
}
func (f *fakeQuerier) ReclaimExpiredWebhookClaims(ctx context.Context, now time.Time, processorID string, claimTTL time.Duration, limit int) ([]dbrpc.WebhookEvent, error) {
	return nil, nil
}
func (f *fakeQuerier) GetSubscriptionByUpstreamID(ctx context.Context, upstreamSubscriptionID string) (*dbrpc.Subscription, error) {
	return nil, nil
}
func (f *fakeQuerier) GetSubscriptionByWorkspace(ctx context.Context, workspaceID string) (*dbrpc.Subscription, error) {
	return nil, nil
}
func (f *fakeQuerier) GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*dbrpc.Subscription, error) {
	return nil, nil
}
func (f *fakeQuerier) UpsertSubscription(ctx context.Context, sub dbrpc.Subscription) error {
	return nil
}
func (f *fakeQuerier) CancelSubscriptionsForWorkspace(ctx context.Context, workspaceID string, canceledAt time.Time) error {
	return nil
}
func (f *fakeQuerier) ListSubscriptionsInGracePastDeadline(ctx context.Context, now time.Time, limit int) ([]dbrpc.Subscription, error) {
	return nil, nil
}
func (f *fakeQuerier) ExpireSubscriptionGrace(ctx context.Context, subscriptionID string) error {
	return nil
}
func (f *fakeQuerier) RefreshWorkspacePlanCache(ctx context.Context, workspaceID, planSlug string) error {
	return nil
}
func (f *fakeQuerier) GetWorkspaceIDByBillingCustomerID(ctx context.Context, customerID string) (string, error) {
	return "", nil
}
func (f *fakeQuerier) DeleteBillingCustomerByCustomerID(ctx context.Context, customerID string) ([]string, error) {
	return nil, nil
}
func (f *fakeQuerier) ListPlanVariants(ctx context.Context) ([]dbrpc.PlanVariant, error) {
	return nil, nil
}
func (f *fakeQuerier) GetPlanVariantByUpstreamPriceID(ctx context.Context, priceID string) (*dbrpc.PlanVariant, error) {
	return nil, nil
}
func (f *fakeQuerier) UpsertPlanVariant(ctx context.Context, pv dbrpc.PlanVariant) error { return nil }
func (f *fakeQuerier) DeactivatePlanVariant(ctx context.Context, id string) error        { return nil }
func (f *fakeQuerier) DeleteCompletedWebhooksBefore(ctx context.Context, cutoff time.Time) error {
	return nil
}

var _ dbrpc.Querier = (*fakeQuerier)(nil)

const testFormID = "11111111-1111-4111-8111-111111111111"
const testIdemKey = "22222222-2222-4222-8222-222222222222"

func baseForm() *dbrpc.Form {
	return &dbrpc.Form{
		ID:              testFormID,
		WorkspaceID:     "33333333-3333-4333-8333-333333333333",
		SuccessMessage:  "Thanks",
		PublishedSchema: json.RawMessage(`{"fields":[{"id":"email","type":"email","required":true}]}`),
	}
}

func newFakeAllowingQuerier() *fakeQuerier {
	return &fakeQuerier{
		checkRequest: func(ctx context.Context, formID, ip string) (bool, error) { return true, nil },
		getForm:      func(ctx context.Context, formID string) (*dbrpc.Form, error) { return baseForm(), nil },
		getQuota: func(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error) {
			return &dbrpc.SubmissionQuota{FeatureKey: "submissions", IsEnabled: true, LimitValue: -1}, nil
		},
		submitForm: func(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error) {
			return "sub-1", nil, nil
		},
	}
}

func TestSubmit_HappyPath(t *testing.T) {
	q := newFakeAllowingQuerier()
	pipeline := New(q)

	result, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{"email":"a@b.co"}}`),
		RC:                   reqctx.RequestContext{ClientIP: "1.2.3.4"},
	})
	require.Nil(t, apiErr)
	require.NotNil(t, result)
	assert.Equal(t, "sub-1", result.SubmissionID)
	assert.Equal(t, "Thanks", result.SuccessMessage)
}

func TestSubmit_InvalidIdempotencyHeader(t *testing.T) {
	q := newFakeAllowingQuerier()
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: "not-a-uuid",
		Body:                 []byte(`{"data":{"email":"a@b.co"}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "FIELD_VALIDATION_FAILED", apiErr.Code)
}

func TestSubmit_UnknownFieldRejected(t *testing.T) {
	q := newFakeAllowingQuerier()
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{"email":"a@b.co","is_admin":true}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "FIELD_VALIDATION_FAILED", apiErr.Code)
	assert.Contains(t, apiErr.Context["unknown_fields"], "is_admin")
}

func TestSubmit_HiddenFieldStripped(t *testing.T) {
	q := newFakeAllowingQuerier()
	q.getForm = func(ctx context.Context, formID string) (*dbrpc.Form, error) {
		f := baseForm()
		f.PublishedSchema = json.RawMessage(`{
			"fields":[
				{"id":"contact_method","type":"radio","options":["phone","email"]},
				{"id":"details","type":"text"}
			],
			"logic":[{
				"if":[{"field_id":"contact_method","operator":"eq","value":"phone"}],
				"then":[{"type":"hide_field","target":"details"}]
			}]
		}`)
		return f, nil
	}

	var captured json.RawMessage
	q.submitForm = func(ctx context.Context, p dbrpc.SubmitFormParams) (string, *dbrpc.RPCError, error) {
		captured = p.Data
		return "sub-2", nil, nil
	}

	pipeline := New(q)
	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{"contact_method":"phone","details":"strip-me"}}`),
	})
	require.Nil(t, apiErr)

	var persisted map[string]any
	require.NoError(t, json.Unmarshal(captured, &persisted))
	_, hasDetails := persisted["details"]
	assert.False(t, hasDetails)
}

func TestSubmit_UnsupportedSchema(t *testing.T) {
	q := newFakeAllowingQuerier()
	q.getForm = func(ctx context.Context, formID string) (*dbrpc.Form, error) {
		f := baseForm()
		f.PublishedSchema = json.RawMessage(`{"fields":[{"id":"upload","type":"file_upload"}]}`)
		return f, nil
	}
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "UNSUPPORTED_FORM_SCHEMA", apiErr.Code)
}

func TestSubmit_RateLimited(t *testing.T) {
	q := newFakeAllowingQuerier()
	q.checkRequest = func(ctx context.Context, formID, ip string) (bool, error) { return false, nil }
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 429, apiErr.Status)
	assert.Equal(t, "RATE_LIMITED", apiErr.Code)
}

func TestSubmit_FormNotFound(t *testing.T) {
	q := newFakeAllowingQuerier()
	q.getForm = func(ctx context.Context, formID string) (*dbrpc.Form, error) { return nil, nil }
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestSubmit_QuotaExceeded(t *testing.T) {
	q := newFakeAllowingQuerier()
	q.getQuota = func(ctx context.Context, workspaceID string) (*dbrpc.SubmissionQuota, error) {
		return &dbrpc.SubmissionQuota{FeatureKey: "submissions", IsEnabled: true, LimitValue: 5, CurrentUsage: 5}, nil
	}
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{"email":"a@b.co"}}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, "PLAN_LIMIT_EXCEEDED", apiErr.Code)
}

func TestSubmit_DuplicateIdempotencyReplaysSubmissionID(t *testing.T) {
	q := newFakeAllowingQuerier()
	pipeline := New(q)
	body := []byte(`{"data":{"email":"a@b.co"}}`)

	first, err1 := pipeline.Submit(context.Background(), Request{FormID: testFormID, IdempotencyKeyHeader: testIdemKey, Body: body})
	second, err2 := pipeline.Submit(context.Background(), Request{FormID: testFormID, IdempotencyKeyHeader: testIdemKey, Body: body})
	require.Nil(t, err1)
	require.Nil(t, err2)
	assert.Equal(t, first.SubmissionID, second.SubmissionID)
}

func TestSubmit_UnknownBodyFieldRejected(t *testing.T) {
	q := newFakeAllowingQuerier()
	pipeline := New(q)

	_, apiErr := pipeline.Submit(context.Background(), Request{
		FormID:               testFormID,
		IdempotencyKeyHeader: testIdemKey,
		Body:                 []byte(`{"data":{"email":"a@b.co"},"extra":"nope"}`),
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)
}
