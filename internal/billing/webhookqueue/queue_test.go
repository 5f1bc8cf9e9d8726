package webhookqueue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/testsupport"
)

type okVerifier struct{ err error }

func (v okVerifier) Verify(payload []byte, signatureHeader string) error { return v.err }

type recordingDispatcher struct{ enqueued []string }

func (d *recordingDispatcher) Enqueue(eventID string) { d.enqueued = append(d.enqueued, eventID) }

func eventBody(id, typ string) []byte {
	b, _ := json.Marshal(map[string]string{"id": id, "type": typ})
	return b
}

func TestIngest_MissingSignatureHeaderRejected(t *testing.T) {
	q := New(testsupport.New(), okVerifier{}, nil, 65536)
	_, apiErr := q.Ingest(context.Background(), eventBody("evt_1", "checkout.session.completed"), "", 10)
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestIngest_OversizedBodyRejectedBefore400Checks(t *testing.T) {
	body := eventBody("evt_1", "checkout.session.completed")
	q := New(testsupport.New(), okVerifier{}, nil, 4)
	_, apiErr := q.Ingest(context.Background(), body, "sig", int64(len(body)))
	require.NotNil(t, apiErr)
	assert.Equal(t, 413, apiErr.Status)
}

func TestIngest_InvalidSignatureRejected(t *testing.T) {
	body := eventBody("evt_1", "checkout.session.completed")
	q := New(testsupport.New(), okVerifier{err: errors.New("bad sig")}, nil, 65536)
	_, apiErr := q.Ingest(context.Background(), body, "sig", int64(len(body)))
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Invalid Stripe signature")
}

func TestIngest_NewEventInsertedAndDispatched(t *testing.T) {
	fq := testsupport.New()
	var insertedID, insertedType string
	fq.InsertWebhookEventFn = func(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
		insertedID, insertedType = eventID, eventType
		return true, nil
	}
	dispatcher := &recordingDispatcher{}
	body := eventBody("evt_42", "customer.subscription.updated")
	q := New(fq, okVerifier{}, dispatcher, 65536)

	res, apiErr := q.Ingest(context.Background(), body, "sig", int64(len(body)))
	require.Nil(t, apiErr)
	assert.False(t, res.Duplicate)
	assert.Equal(t, "evt_42", insertedID)
	assert.Equal(t, "customer.subscription.updated", insertedType)
	assert.Equal(t, []string{"evt_42"}, dispatcher.enqueued)
}

func TestIngest_DuplicateEventNotDispatchedAgain(t *testing.T) {
	fq := testsupport.New()
	fq.InsertWebhookEventFn = func(ctx context.Context, eventID, eventType string, payload json.RawMessage) (bool, error) {
		return false, nil
	}
	dispatcher := &recordingDispatcher{}
	body := eventBody("evt_42", "customer.subscription.updated")
	q := New(fq, okVerifier{}, dispatcher, 65536)

	res, apiErr := q.Ingest(context.Background(), body, "sig", int64(len(body)))
	require.Nil(t, apiErr)
	assert.True(t, res.Duplicate)
	assert.Empty(t, dispatcher.enqueued)
}

func TestBackoff_GrowsExponentiallyAndCaps(t *testing.T) {
	assert.Equal(t, 15*time.Second, Backoff(0))
	assert.Equal(t, 30*time.Second, Backoff(1))
	assert.Equal(t, 60*time.Second, Backoff(2))
	assert.Equal(t, time.Hour, Backoff(10))
	assert.Equal(t, time.Hour, Backoff(20))
}

func TestClaimAndProcess_UnclaimableEventIsNoOp(t *testing.T) {
	fq := testsupport.New()
	fq.ClaimStripeWebhookEventFn = func(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
		return false, nil
	}
	processed := false
	worker := NewWorker(fq, processorFunc(func(ctx context.Context, e dbrpc.WebhookEvent) error {
		processed = true
		return nil
	}), "proc-1", time.Minute)

	err := worker.ClaimAndProcess(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestClaimAndProcess_SuccessMarksCompleted(t *testing.T) {
	fq := testsupport.New()
	fq.ClaimStripeWebhookEventFn = func(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
		return true, nil
	}
	fq.GetWebhookEventFn = func(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error) {
		return &dbrpc.WebhookEvent{EventID: eventID, Attempts: 1}, nil
	}
	var completedID string
	fq.MarkWebhookCompletedFn = func(ctx context.Context, eventID string) error {
		completedID = eventID
		return nil
	}
	worker := NewWorker(fq, processorFunc(func(ctx context.Context, e dbrpc.WebhookEvent) error {
		return nil
	}), "proc-1", time.Minute)

	require.NoError(t, worker.ClaimAndProcess(context.Background(), "evt_9"))
	assert.Equal(t, "evt_9", completedID)
}

func TestClaimAndProcess_FailureSchedulesBackoffRetry(t *testing.T) {
	fq := testsupport.New()
	fq.ClaimStripeWebhookEventFn = func(ctx context.Context, eventID, processorID string, claimTTL time.Duration, maxAttempts int) (bool, error) {
		return true, nil
	}
	fq.GetWebhookEventFn = func(ctx context.Context, eventID string) (*dbrpc.WebhookEvent, error) {
		return &dbrpc.WebhookEvent{EventID: eventID, Attempts: 2}, nil
	}
	var gotAttempts int
	var gotError string
	fq.MarkWebhookFailedForRetryFn = func(ctx context.Context, eventID, lastError string, nextAttemptAt time.Time, attempts int) error {
		gotAttempts = attempts
		gotError = lastError
		return nil
	}
	worker := NewWorker(fq, processorFunc(func(ctx context.Context, e dbrpc.WebhookEvent) error {
		return errors.New("downstream unavailable")
	}), "proc-1", time.Minute)

	require.NoError(t, worker.ClaimAndProcess(context.Background(), "evt_9"))
	assert.Equal(t, 2, gotAttempts)
	assert.Equal(t, "downstream unavailable", gotError)
}

type processorFunc func(ctx context.Context, e dbrpc.WebhookEvent) error

func (f processorFunc) Process(ctx context.Context, e dbrpc.WebhookEvent) error { return f(ctx, e) }
