// Package stripeclient is the one place this gateway talks to the Stripe
// SDK directly. Every other package depends on its own narrow interface
// (customer.Provider, webhookqueue.SignatureVerifier, events.StripeClient,
// catalog.StripeClient); Client satisfies all four so the wiring happens
// once in cmd/.
package stripeclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/formgate/gateway/internal/billing/catalog"
	"github.com/formgate/gateway/internal/billing/customer"
	"github.com/formgate/gateway/internal/billing/events"
	"github.com/formgate/gateway/internal/logger"
)

// Client wraps the generated stripe-go/v82 client with the subset of
// calls the gateway's billing components need.
type Client struct {
	sc            *stripe.Client
	webhookSecret string
	log           *zap.Logger
	limiter       *rate.Limiter
}

// New builds a Client paced at 25 requests/sec (Stripe's documented live-mode
// ceiling) with a burst of 10, so a pile-up of webhook retries or a
// reconciler batch can't itself trip Stripe's own rate limiting.
func New(apiKey, webhookSecret string) *Client {
	return &Client{
		sc:            stripe.NewClient(apiKey, nil),
		webhookSecret: webhookSecret,
		log:           logger.For(logger.ComponentBilling),
		limiter:       rate.NewLimiter(rate.Limit(25), 10),
	}
}

// call paces and retries a single Stripe API round trip. Only transient
// failures (network errors, Stripe-side 5xx/connection errors) are retried;
// 4xx errors like resource_missing are returned on the first attempt so
// callers like customer.IsMissing can classify them immediately.
func (c *Client) call(ctx context.Context, op func() error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		c.log.Warn("retrying transient stripe API error", zap.Int("attempt", attempt), zap.Error(err))
		return err
	}, policy)
}

func isTransient(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeAPIConnection, stripe.ErrorTypeAPI, stripe.ErrorTypeRateLimit:
			return true
		}
		return false
	}
	return true
}

// --- customer.Provider ---

// Retrieve validates that customerID still exists and is not deleted.
// A missing or deleted customer is reported with an error wrapping
// customer.ErrMissing, so callers can test for it with customer.IsMissing.
func (c *Client) Retrieve(ctx context.Context, customerID string) error {
	var cust *stripe.Customer
	err := c.call(ctx, func() error {
		var rerr error
		cust, rerr = c.sc.V1Customers.Retrieve(ctx, customerID, &stripe.CustomerRetrieveParams{})
		return rerr
	})
	if err != nil {
		return classifyCustomerError(err, customerID)
	}
	if cust.Deleted {
		return fmt.Errorf("stripe: no such customer %s: customer is deleted: %w", customerID, customer.ErrMissing)
	}
	return nil
}

// Create provisions a new upstream customer tagged with workspaceID,
// keyed by idempotencyKey so a retried call after a network error can't
// double-provision (§4.6).
func (c *Client) Create(ctx context.Context, idempotencyKey, workspaceID string) (string, error) {
	params := &stripe.CustomerCreateParams{
		Metadata: map[string]string{"workspace_id": workspaceID},
	}
	params.IdempotencyKey = stripe.String(idempotencyKey)

	var cust *stripe.Customer
	err := c.call(ctx, func() error {
		var rerr error
		cust, rerr = c.sc.V1Customers.Create(ctx, params)
		return rerr
	})
	if err != nil {
		return "", fmt.Errorf("stripe: create customer for workspace %s: %w", workspaceID, err)
	}
	return cust.ID, nil
}

func classifyCustomerError(err error, customerID string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeInvalidRequest && stripeErr.Code == stripe.ErrorCodeResourceMissing && stripeErr.Param == "customer" {
			return fmt.Errorf("stripe: no such customer %s: %w: %w", customerID, customer.ErrMissing, err)
		}
	}
	if strings.Contains(err.Error(), "No such customer") && strings.Contains(err.Error(), customerID) {
		return fmt.Errorf("stripe: no such customer %s: %w: %w", customerID, customer.ErrMissing, err)
	}
	return fmt.Errorf("stripe: retrieve customer %s: %w", customerID, err)
}

// --- webhookqueue.SignatureVerifier ---

// Verify parses and validates a webhook body solely for its signature;
// the caller re-parses the body itself once the event is claimed.
func (c *Client) Verify(payload []byte, signatureHeader string) error {
	_, err := webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
	if err != nil {
		return fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}
	return nil
}

// --- events.StripeClient ---

// RetrieveSubscription fetches a subscription by id for the
// checkout.session.completed branch of C8, which carries no
// subscription payload of its own.
func (c *Client) RetrieveSubscription(ctx context.Context, subscriptionID string) (*events.UpstreamSubscription, error) {
	params := &stripe.SubscriptionRetrieveParams{}
	var sub *stripe.Subscription
	err := c.call(ctx, func() error {
		var rerr error
		sub, rerr = c.sc.V1Subscriptions.Retrieve(ctx, subscriptionID, params)
		return rerr
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve subscription %s: %w", subscriptionID, err)
	}
	return toUpstreamSubscription(sub), nil
}

func toUpstreamSubscription(sub *stripe.Subscription) *events.UpstreamSubscription {
	out := &events.UpstreamSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Metadata:          sub.Metadata,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CanceledAt != 0 {
		t := time.Unix(sub.CanceledAt, 0).UTC()
		out.CanceledAt = &t
	}
	if sub.EndedAt != 0 {
		t := time.Unix(sub.EndedAt, 0).UTC()
		out.EndedAt = &t
	}
	if sub.TrialStart != 0 {
		t := time.Unix(sub.TrialStart, 0).UTC()
		out.TrialStart = &t
	}
	if sub.TrialEnd != 0 {
		t := time.Unix(sub.TrialEnd, 0).UTC()
		out.TrialEnd = &t
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			out.PriceID = item.Price.ID
		}
		if item.CurrentPeriodStart != 0 {
			t := time.Unix(item.CurrentPeriodStart, 0).UTC()
			out.CurrentPeriodStart = &t
		}
		if item.CurrentPeriodEnd != 0 {
			t := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			out.CurrentPeriodEnd = &t
		}
	}
	return out
}

// --- catalog.StripeClient ---

// ListActivePrices scans every active recurring price for C10 to classify.
func (c *Client) ListActivePrices(ctx context.Context) ([]catalog.UpstreamPrice, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
	}
	params.Limit = stripe.Int64(100)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("stripe: list active prices: %w", err)
	}

	var out []catalog.UpstreamPrice
	for price, err := range c.sc.V1Prices.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("stripe: list active prices: %w", err)
		}
		if price == nil || price.Recurring == nil {
			continue
		}
		out = append(out, catalog.UpstreamPrice{
			ID:         price.ID,
			Currency:   string(price.Currency),
			UnitAmount: price.UnitAmount,
			Recurring:  true,
			Interval:   string(price.Recurring.Interval),
			Active:     price.Active,
			LookupKey:  price.LookupKey,
			Metadata:   price.Metadata,
			Created:    price.Created,
		})
	}
	return out, nil
}

// --- Checkout / billing portal sessions (§6.1) ---

type CheckoutSession struct {
	ID  string
	URL string
}

// CreateCheckoutSession starts a subscription-mode checkout for a customer
// already resolved by C6, pinned to a single recurring price.
func (c *Client) CreateCheckoutSession(ctx context.Context, idempotencyKey, customerID, priceID, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionCreateParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
	}
	params.IdempotencyKey = stripe.String(idempotencyKey)
	if len(metadata) > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionCreateSubscriptionDataParams{Metadata: metadata}
	}

	var session *stripe.CheckoutSession
	err := c.call(ctx, func() error {
		var rerr error
		session, rerr = c.sc.V1CheckoutSessions.Create(ctx, params)
		return rerr
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CreatePortalSession opens the billing portal for an existing customer,
// used both for the explicit portal-session route and as the destination
// for a checkout request against a workspace that's already subscribed.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	var session *stripe.BillingPortalSession
	err := c.call(ctx, func() error {
		var rerr error
		session, rerr = c.sc.V1BillingPortalSessions.Create(ctx, params)
		return rerr
	})
	if err != nil {
		return "", fmt.Errorf("stripe: create billing portal session: %w", err)
	}
	return session.URL, nil
}
