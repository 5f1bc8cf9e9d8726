package httpapi

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/billing/customer"
	"github.com/formgate/gateway/internal/billing/idempotency"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
	"go.uber.org/zap"
)

var checkoutIdempotencyKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type checkoutSessionRequest struct {
	PlanSlug string `json:"plan_slug"`
	Interval string `json:"interval"`
}

var validPlanSlugs = map[string]bool{"pro": true, "business": true, "enterprise": true, "free": true}
var validIntervals = map[dbrpc.PlanInterval]bool{dbrpc.IntervalMonthly: true, dbrpc.IntervalYearly: true}

// CreateCheckoutSession serves POST
// /api/v1/stripe/workspaces/:workspaceId/checkout-session.
//
// @Summary Start or replay a subscription checkout
// @Tags billing
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace id"
// @Param Idempotency-Key header string true "Request idempotency key (UUID)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/stripe/workspaces/{workspaceId}/checkout-session [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	workspaceID := c.Param("workspaceId")
	rc := requestContext(c)
	log := logger.For(logger.ComponentBilling)

	clientKey := c.GetHeader("Idempotency-Key")
	if !checkoutIdempotencyKeyPattern.MatchString(clientKey) {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("Idempotency-Key header must be a UUID"))
		return
	}

	var body checkoutSessionRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("request body is malformed or contains unknown fields"))
		return
	}
	if !validPlanSlugs[body.PlanSlug] {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("\"plan_slug\" must be one of pro, business, enterprise, free"))
		return
	}
	if !validIntervals[dbrpc.PlanInterval(body.Interval)] {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("\"interval\" must be monthly or yearly"))
		return
	}
	if body.PlanSlug == "free" {
		apierrors.Respond(c, apierrors.New(http.StatusBadRequest, "free plan does not go through checkout", "INVALID_PLAN_FOR_CHECKOUT"))
		return
	}
	if body.PlanSlug == "enterprise" {
		apierrors.Respond(c, apierrors.New(http.StatusForbidden, "enterprise plans are arranged through sales", "CONTACT_SALES_REQUIRED").
			WithContext(map[string]interface{}{"contact_sales_url": h.Cfg.ContactSalesURL}))
		return
	}

	if h.Cfg.CheckoutSuccessURL == "" || h.Cfg.CheckoutCancelURL == "" {
		apierrors.Respond(c, apierrors.Internal("BILLING_CONFIG_MISSING", "checkout redirect URLs are not configured").
			WithContext(map[string]interface{}{"correlation_id": rc.CorrelationID}))
		return
	}

	variant, apiErr := h.resolvePlanVariant(c, body.PlanSlug, dbrpc.PlanInterval(body.Interval))
	if apiErr != nil {
		apierrors.Respond(c, apiErr)
		return
	}

	// Already entitled: route to the billing portal so plan changes happen
	// against the existing subscription instead of opening a second one.
	if sub, err := h.Querier.GetSubscriptionByWorkspace(c.Request.Context(), workspaceID); err == nil && sub != nil && dbrpc.EntitledStatuses[sub.Status] {
		url, perr := h.openPortal(c, workspaceID, rc.CorrelationID)
		if perr != nil {
			apierrors.Respond(c, perr)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"url":         url,
			"destination": "portal",
			"reason":      "workspace already has an active subscription",
		})
		return
	}

	beginResult, apiErr := h.Ledger.Begin(c.Request.Context(), idempotency.BeginParams{
		WorkspaceID:   workspaceID,
		ClientKey:     clientKey,
		PlanVariantID: variant.ID,
		ActorUserID:   rc.ActorUserID,
	})
	if apiErr != nil {
		apierrors.Respond(c, apiErr)
		return
	}
	if beginResult.Replayed {
		c.JSON(http.StatusOK, gin.H{
			"url":              beginResult.Record.UpstreamSessionURL,
			"session_id":       beginResult.Record.UpstreamSessionID,
			"destination":      "checkout",
			"idempotent_replay": true,
		})
		return
	}

	session, err := customer.WithRecoveredCustomer(c.Request.Context(), h.Recovery, workspaceID, "checkout:"+clientKey, rc.CorrelationID, nil,
		func(customerID string) (*checkoutSessionResult, error) {
			sess, err := h.Stripe.CreateCheckoutSession(c.Request.Context(), beginResult.Record.UpstreamIdempotencyKey, customerID,
				variant.UpstreamPriceID, h.Cfg.CheckoutSuccessURL, h.Cfg.CheckoutCancelURL,
				map[string]string{"workspace_id": workspaceID, "plan_variant_id": variant.ID})
			if err != nil {
				return nil, err
			}
			return &checkoutSessionResult{ID: sess.ID, URL: sess.URL}, nil
		})
	if err != nil {
		_ = h.Ledger.Fail(c.Request.Context(), workspaceID, clientKey, err.Error())
		if apiErr, ok := err.(*apierrors.APIError); ok {
			apierrors.Respond(c, apiErr)
			return
		}
		log.Error("checkout session creation failed", zap.Error(err), zap.String("correlation_id", rc.CorrelationID))
		apierrors.Respond(c, apierrors.Internal("STRIPE_CHECKOUT_SESSION_FAILED", "failed to create checkout session").
			WithContext(map[string]interface{}{"correlation_id": rc.CorrelationID}))
		return
	}

	if err := h.Ledger.Complete(c.Request.Context(), workspaceID, clientKey, session.ID, session.URL); err != nil {
		log.Error("failed to mark checkout idempotency completed", zap.Error(err), zap.String("correlation_id", rc.CorrelationID))
	}

	c.JSON(http.StatusOK, gin.H{
		"url":         session.URL,
		"session_id":  session.ID,
		"destination": "checkout",
	})
}

type checkoutSessionResult struct {
	ID  string
	URL string
}

// resolvePlanVariant looks up the active variant for (slug, interval),
// forcing one catalog sync and re-checking before giving up (§4.10's
// "unknown price" recovery path, reused here for the inverse lookup).
func (h *Handler) resolvePlanVariant(c *gin.Context, slug string, interval dbrpc.PlanInterval) (*dbrpc.PlanVariant, *apierrors.APIError) {
	variant, err := h.findPlanVariant(c, slug, interval)
	if err != nil {
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to load plan catalog")
	}
	if variant != nil {
		return variant, nil
	}
	if h.Catalog != nil {
		_, _, _, _, _ = h.Catalog.Sync(c.Request.Context(), true)
		variant, err = h.findPlanVariant(c, slug, interval)
		if err != nil {
			return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to load plan catalog")
		}
	}
	if variant == nil {
		return nil, apierrors.Conflict("CATALOG_OUT_OF_SYNC", "no active price is mapped for this plan and interval")
	}
	return variant, nil
}

func (h *Handler) findPlanVariant(c *gin.Context, slug string, interval dbrpc.PlanInterval) (*dbrpc.PlanVariant, error) {
	variants, err := h.Querier.ListPlanVariants(c.Request.Context())
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		if v.Active && v.PlanSlug == slug && v.Interval == interval {
			return &v, nil
		}
	}
	return nil, nil
}

// CreatePortalSession serves POST
// /api/v1/stripe/workspaces/:workspaceId/portal-session.
//
// @Summary Open the billing portal for a workspace
// @Tags billing
// @Produce json
// @Param workspaceId path string true "Workspace id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/stripe/workspaces/{workspaceId}/portal-session [post]
func (h *Handler) CreatePortalSession(c *gin.Context) {
	workspaceID := c.Param("workspaceId")
	rc := requestContext(c)

	url, apiErr := h.openPortal(c, workspaceID, rc.CorrelationID)
	if apiErr != nil {
		apierrors.Respond(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) openPortal(c *gin.Context, workspaceID, correlationID string) (string, *apierrors.APIError) {
	url, err := customer.WithRecoveredCustomer(c.Request.Context(), h.Recovery, workspaceID, "portal", correlationID, nil,
		func(customerID string) (string, error) {
			return h.Stripe.CreatePortalSession(c.Request.Context(), customerID, h.Cfg.BillingPortalReturnURL)
		})
	if err != nil {
		if apiErr, ok := err.(*apierrors.APIError); ok {
			return "", apiErr
		}
		logger.For(logger.ComponentBilling).Error("portal session creation failed", zap.Error(err), zap.String("correlation_id", correlationID))
		return "", apierrors.Internal("STRIPE_PORTAL_SESSION_FAILED", "failed to create billing portal session").
			WithContext(map[string]interface{}{"correlation_id": correlationID})
	}
	return url, nil
}
