// Package idempotency implements the checkout idempotency ledger, C5: a
// durable (workspace, client_key) state machine guarding against duplicate
// checkout-session creation on upstream (§4.5).
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/dbrpc"
)

const ttl = 24 * time.Hour

type Ledger struct {
	q dbrpc.Querier
}

func New(q dbrpc.Querier) *Ledger {
	return &Ledger{q: q}
}

// BeginParams identifies the logical checkout request.
type BeginParams struct {
	WorkspaceID   string
	ClientKey     string
	PlanVariantID string
	ActorUserID   string // empty means anonymous
}

// BeginResult tells the caller whether to run the checkout-session flow
// (Replayed=false) or return the cached session (Replayed=true).
type BeginResult struct {
	Record   dbrpc.CheckoutIdempotency
	Replayed bool
}

// Begin evaluates the (workspace, client_key) state machine from §4.5 and
// returns either a fresh in_progress row to proceed with, a cached
// completed row to replay, or a 409 APIError.
func (l *Ledger) Begin(ctx context.Context, p BeginParams) (*BeginResult, *apierrors.APIError) {
	fingerprint := Fingerprint(p.WorkspaceID, p.PlanVariantID, p.ActorUserID)

	existing, err := l.q.GetCheckoutIdempotency(ctx, p.WorkspaceID, p.ClientKey)
	if err != nil {
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to load checkout idempotency record")
	}

	if existing == nil {
		rec := dbrpc.CheckoutIdempotency{
			WorkspaceID:            p.WorkspaceID,
			ClientKey:              p.ClientKey,
			PlanVariantID:          p.PlanVariantID,
			RequestFingerprint:     fingerprint,
			UpstreamIdempotencyKey: UpstreamIdempotencyKey(p.WorkspaceID, p.PlanVariantID, p.ClientKey),
			Status:                 dbrpc.CheckoutInProgress,
			ExpiresAt:              time.Now().Add(ttl),
		}
		inserted, err := l.q.InsertCheckoutIdempotencyInProgress(ctx, rec)
		if err != nil {
			return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to create checkout idempotency record")
		}
		if inserted {
			return &BeginResult{Record: rec}, nil
		}
		// Race on first insert: another request won. Reload and fall
		// through to replay evaluation (§4.5 "race on first insert").
		existing, err = l.q.GetCheckoutIdempotency(ctx, p.WorkspaceID, p.ClientKey)
		if err != nil || existing == nil {
			return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to reload checkout idempotency record after race")
		}
	}

	return evaluateReplay(*existing, fingerprint)
}

func evaluateReplay(existing dbrpc.CheckoutIdempotency, fingerprint string) (*BeginResult, *apierrors.APIError) {
	if time.Now().After(existing.ExpiresAt) {
		return nil, apierrors.Conflict("IDEMPOTENCY_KEY_EXPIRED", "idempotency key has expired")
	}
	if existing.RequestFingerprint != fingerprint {
		return nil, apierrors.Conflict("IDEMPOTENCY_KEY_REUSED_WITH_DIFFERENT_PAYLOAD", "idempotency key reused with a different payload")
	}

	switch existing.Status {
	case dbrpc.CheckoutCompleted:
		return &BeginResult{Record: existing, Replayed: true}, nil
	case dbrpc.CheckoutInProgress:
		return nil, apierrors.Conflict("CHECKOUT_IN_PROGRESS", "a checkout session is already being created for this request")
	default: // failed: same fingerprint, not expired — allow the caller to retry.
		return &BeginResult{Record: existing}, nil
	}
}

// Fingerprint computes §4.5's request_fingerprint.
func Fingerprint(workspaceID, planVariantID, actorUserID string) string {
	if actorUserID == "" {
		actorUserID = "anonymous"
	}
	payload := struct {
		WorkspaceID     string `json:"workspace_id"`
		PlanVariantID   string `json:"plan_variant_id"`
		RequestedByUser string `json:"requested_by_user_id"`
	}{workspaceID, planVariantID, actorUserID}

	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// UpstreamIdempotencyKey computes §4.5's upstream_idempotency_key,
// truncating to 255 chars via SHA-256 when the literal form is too long.
func UpstreamIdempotencyKey(workspaceID, planVariantID, clientKey string) string {
	key := fmt.Sprintf("checkout:v1:%s:%s:%s", workspaceID, planVariantID, clientKey)
	if len(key) <= 255 {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Complete transitions an in_progress row to completed (§4.5).
func (l *Ledger) Complete(ctx context.Context, workspaceID, clientKey, sessionID, sessionURL string) error {
	return l.q.CompleteCheckoutIdempotency(ctx, workspaceID, clientKey, sessionID, sessionURL)
}

// Fail transitions an in_progress row to failed (§4.5).
func (l *Ledger) Fail(ctx context.Context, workspaceID, clientKey, lastError string) error {
	return l.q.FailCheckoutIdempotency(ctx, workspaceID, clientKey, lastError)
}
