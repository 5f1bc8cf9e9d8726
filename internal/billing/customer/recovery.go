// Package customer implements workspace-to-billing-customer mapping
// recovery, C6: validating, invalidating and recreating the upstream
// customer a workspace maps to, self-healing when the provider-side
// customer has been deleted out of band (§4.6).
package customer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/dbrpc"
)

// ErrMissing is the sentinel a Provider must wrap its error with when the
// upstream customer no longer exists (§4.6's missing-customer detection:
// type=invalid_request_error, code=resource_missing, param=customer, or a
// "No such customer" message referencing the known id).
var ErrMissing = errors.New("upstream customer missing")

// IsMissing reports whether err indicates the upstream customer is gone.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissing)
}

// Provider is the subset of the billing provider C6 needs. stripeclient
// implements this against stripe-go; tests use an in-memory fake.
type Provider interface {
	Retrieve(ctx context.Context, customerID string) error
	Create(ctx context.Context, idempotencyKey, workspaceID string) (customerID string, err error)
}

type Status string

const (
	StatusValidated Status = "validated"
	StatusRecreated Status = "recreated"
)

type Recovery struct {
	q        dbrpc.Querier
	provider Provider
}

func New(q dbrpc.Querier, provider Provider) *Recovery {
	return &Recovery{q: q, provider: provider}
}

func scopeHash(scope string) string {
	sum := sha256.Sum256([]byte(scope))
	return hex.EncodeToString(sum[:])[:32]
}

// ResolveOrCreate implements §4.6's resolveOrCreate operation.
func (r *Recovery) ResolveOrCreate(ctx context.Context, workspaceID, scope string) (customerID string, status Status, err error) {
	mapping, err := r.q.GetWorkspaceBillingCustomer(ctx, workspaceID)
	if err != nil {
		return "", "", fmt.Errorf("load billing customer mapping: %w", err)
	}

	if mapping != nil {
		if rerr := r.provider.Retrieve(ctx, mapping.CustomerID); rerr == nil {
			return mapping.CustomerID, StatusValidated, nil
		} else if !IsMissing(rerr) {
			return "", "", fmt.Errorf("retrieve upstream customer: %w", rerr)
		}

		if derr := r.q.DeleteWorkspaceBillingCustomer(ctx, workspaceID); derr != nil {
			return "", "", fmt.Errorf("delete stale billing customer mapping: %w", derr)
		}
		if ierr := r.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
			WorkspaceID:   workspaceID,
			Type:          dbrpc.CustomerEventInvalidated,
			OldCustomerID: mapping.CustomerID,
			Reason:        "upstream customer missing",
		}); ierr != nil {
			return "", "", fmt.Errorf("record invalidated event: %w", ierr)
		}
	}

	idempotencyKey := fmt.Sprintf("customer:v2:%s:%s", workspaceID, scopeHash(scope))
	newID, cerr := r.provider.Create(ctx, idempotencyKey, workspaceID)
	if cerr != nil {
		return "", "", fmt.Errorf("create upstream customer: %w", cerr)
	}
	if uerr := r.q.UpsertWorkspaceBillingCustomer(ctx, workspaceID, newID); uerr != nil {
		return "", "", fmt.Errorf("upsert billing customer mapping: %w", uerr)
	}

	oldID := ""
	if mapping != nil {
		oldID = mapping.CustomerID
	}
	if ierr := r.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
		WorkspaceID:   workspaceID,
		Type:          dbrpc.CustomerEventRecreated,
		OldCustomerID: oldID,
		NewCustomerID: newID,
	}); ierr != nil {
		return "", "", fmt.Errorf("record recreated event: %w", ierr)
	}

	return newID, StatusRecreated, nil
}

// WithRecoveredCustomer implements §4.6's withRecoveredCustomer: run
// execute against a known-good customer id, self-healing once on a
// missing-customer failure. Generic so both checkout and portal session
// creation (whose success types differ) can share the recovery logic.
func WithRecoveredCustomer[T any](
	ctx context.Context,
	r *Recovery,
	workspaceID, scope, correlationID string,
	preferred *string,
	execute func(customerID string) (T, error),
) (T, error) {
	var zero T

	customerID, err := r.obtainCustomerID(ctx, workspaceID, scope, preferred)
	if err != nil {
		return zero, err
	}

	result, err := execute(customerID)
	if err == nil {
		return result, nil
	}
	if !IsMissing(err) {
		return zero, apierrors.Internal("STRIPE_SESSION_FAILED", "billing provider call failed").WithContext(
			map[string]interface{}{"correlation_id": correlationID})
	}

	if derr := r.q.DeleteWorkspaceBillingCustomer(ctx, workspaceID); derr != nil {
		return zero, fmt.Errorf("delete stale billing customer mapping: %w", derr)
	}
	_ = r.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
		WorkspaceID: workspaceID, Type: dbrpc.CustomerEventInvalidated, OldCustomerID: customerID,
		Reason: "upstream customer missing on use",
	})

	retryScope := scope + ":retry:" + correlationID
	retryCustomerID, _, rerr := r.ResolveOrCreate(ctx, workspaceID, retryScope)
	if rerr != nil {
		return zero, apierrors.Internal("STRIPE_SESSION_FAILED", "billing provider call failed after customer recovery").WithContext(
			map[string]interface{}{"correlation_id": correlationID})
	}

	result, err = execute(retryCustomerID)
	if err != nil {
		return zero, apierrors.Internal("STRIPE_SESSION_FAILED", "billing provider call failed after customer recovery").WithContext(
			map[string]interface{}{"correlation_id": correlationID})
	}
	return result, nil
}

func (r *Recovery) obtainCustomerID(ctx context.Context, workspaceID, scope string, preferred *string) (string, error) {
	if preferred != nil && *preferred != "" {
		if err := r.provider.Retrieve(ctx, *preferred); err == nil {
			if uerr := r.q.UpsertWorkspaceBillingCustomer(ctx, workspaceID, *preferred); uerr != nil {
				return "", fmt.Errorf("persist preferred customer mapping: %w", uerr)
			}
			_ = r.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
				WorkspaceID: workspaceID, Type: dbrpc.CustomerEventValidated, NewCustomerID: *preferred,
			})
			return *preferred, nil
		} else if !IsMissing(err) {
			return "", fmt.Errorf("retrieve preferred upstream customer: %w", err)
		}
		_ = r.q.InsertBillingCustomerEvent(ctx, dbrpc.BillingCustomerEvent{
			WorkspaceID: workspaceID, Type: dbrpc.CustomerEventInvalidated, OldCustomerID: *preferred,
			Reason: "preferred customer missing",
		})
	}

	customerID, _, err := r.ResolveOrCreate(ctx, workspaceID, scope)
	return customerID, err
}
