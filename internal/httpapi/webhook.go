package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/apierrors"
)

// StripeWebhook serves POST /api/v1/stripe/webhook. Processing happens off
// the request path (C7); this handler only ingests and acknowledges.
//
// @Summary Receive a Stripe webhook event
// @Tags billing
// @Accept json
// @Produce json
// @Param stripe-signature header string true "Stripe webhook signature"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/stripe/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.Cfg.WebhookMaxBodyBytes+1))
	if err != nil {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("failed to read request body"))
		return
	}

	result, apiErr := h.Queue.Ingest(c.Request.Context(), body, c.GetHeader("stripe-signature"), c.Request.ContentLength)
	if apiErr != nil {
		apierrors.Respond(c, apiErr)
		return
	}
	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
