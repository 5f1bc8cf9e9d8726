// Package webhookqueue implements the size-guarded ingestion and
// lease-based claim/retry queue for inbound billing-provider webhooks,
// C7 (§4.7).
package webhookqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
)

// MaxAttempts bounds how many times a webhook row is reclaimed before the
// claim RPC itself stops selecting it (§4.7).
const MaxAttempts = 8

// Backoff computes §4.7's retry delay: min(3600, 15*2^min(attempts,10)) seconds.
func Backoff(attempts int) time.Duration {
	n := attempts
	if n > 10 {
		n = 10
	}
	seconds := 15 * (1 << uint(n))
	if seconds > 3600 {
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}

// SignatureVerifier checks a webhook payload's signature header against
// the configured signing secret. stripeclient implements this against
// stripe-go's webhook package.
type SignatureVerifier interface {
	Verify(payload []byte, signatureHeader string) error
}

// Dispatcher hands a freshly-inserted event id to the scheduler that owns
// worker goroutines, off the request path (§9 Design Notes).
type Dispatcher interface {
	Enqueue(eventID string)
}

// Processor applies one claimed webhook event's business effect (C8).
type Processor interface {
	Process(ctx context.Context, event dbrpc.WebhookEvent) error
}

type Queue struct {
	q            dbrpc.Querier
	verifier     SignatureVerifier
	dispatcher   Dispatcher
	maxBodyBytes int64
}

func New(q dbrpc.Querier, verifier SignatureVerifier, dispatcher Dispatcher, maxBodyBytes int64) *Queue {
	return &Queue{q: q, verifier: verifier, dispatcher: dispatcher, maxBodyBytes: maxBodyBytes}
}

// IngestResult tells the HTTP handler what to respond with (§4.7).
type IngestResult struct {
	Duplicate bool
}

type stripeEventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Ingest runs §4.7 steps 1-5. A durable row is always inserted (or already
// exists) before this returns successfully; processing itself happens off
// the request path via Dispatcher.
func (q *Queue) Ingest(ctx context.Context, body []byte, signatureHeader string, contentLength int64) (*IngestResult, *apierrors.APIError) {
	if signatureHeader == "" {
		return nil, apierrors.New(http.StatusBadRequest, "stripe-signature header is required", "")
	}

	bodyLen := int64(len(body))
	if contentLength > q.maxBodyBytes || bodyLen > q.maxBodyBytes {
		return nil, apierrors.New(http.StatusRequestEntityTooLarge, "webhook body exceeds the configured size limit", "")
	}

	if err := q.verifier.Verify(body, signatureHeader); err != nil {
		return nil, apierrors.New(http.StatusBadRequest, "Invalid Stripe signature", "")
	}

	var envelope stripeEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.ID == "" {
		return nil, apierrors.New(http.StatusBadRequest, "Invalid Stripe signature", "")
	}

	inserted, err := q.q.InsertWebhookEvent(ctx, envelope.ID, envelope.Type, body)
	if err != nil {
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to record webhook event")
	}
	if !inserted {
		return &IngestResult{Duplicate: true}, nil
	}

	if q.dispatcher != nil {
		q.dispatcher.Enqueue(envelope.ID)
	}
	return &IngestResult{}, nil
}

// Worker claims and processes one event id, applying the backoff formula
// on failure. Long-lived and independent of any request lifecycle (§9).
type Worker struct {
	q           dbrpc.Querier
	processor   Processor
	processorID string
	claimTTL    time.Duration
}

func NewWorker(q dbrpc.Querier, processor Processor, processorID string, claimTTL time.Duration) *Worker {
	return &Worker{q: q, processor: processor, processorID: processorID, claimTTL: claimTTL}
}

// ClaimAndProcess implements the claim → process → complete|retry cycle.
// Returns nil if the event was not claimable (already owned, or the claim
// RPC's own attempt ceiling excluded it) — that is not an error.
func (w *Worker) ClaimAndProcess(ctx context.Context, eventID string) error {
	log := logger.For(logger.ComponentWebhook)

	claimed, err := w.q.ClaimStripeWebhookEvent(ctx, eventID, w.processorID, w.claimTTL, MaxAttempts)
	if err != nil {
		return fmt.Errorf("claim webhook event %s: %w", eventID, err)
	}
	if !claimed {
		return nil
	}

	event, err := w.q.GetWebhookEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load claimed webhook event %s: %w", eventID, err)
	}
	if event == nil {
		return nil
	}

	if perr := w.processor.Process(ctx, *event); perr != nil {
		log.Warn("webhook processing failed, scheduling retry",
			zap.String("event_id", eventID), zap.Int("attempts", event.Attempts), zap.Error(perr))
		next := time.Now().Add(Backoff(event.Attempts))
		return w.q.MarkWebhookFailedForRetry(ctx, eventID, truncate(perr.Error(), 1000), next, event.Attempts)
	}

	return w.q.MarkWebhookCompleted(ctx, eventID)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
