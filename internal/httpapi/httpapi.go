// Package httpapi wires the HTTP surface from spec §6.1 onto the core
// components: each handler extracts a reqctx.RequestContext, delegates to
// one component, and translates its (*Result, *apierrors.APIError) pair
// into a gin response. No business logic lives here.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/billing/catalog"
	"github.com/formgate/gateway/internal/billing/customer"
	"github.com/formgate/gateway/internal/billing/idempotency"
	"github.com/formgate/gateway/internal/billing/webhookqueue"
	"github.com/formgate/gateway/internal/config"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/middleware"
	"github.com/formgate/gateway/internal/reqctx"
	"github.com/formgate/gateway/internal/stripeclient"
	"github.com/formgate/gateway/internal/submission"
)

// Handler bundles every core component the HTTP surface calls into.
type Handler struct {
	Querier  dbrpc.Querier
	Cfg      *config.Config
	Pipeline *submission.Pipeline
	Ledger   *idempotency.Ledger
	Recovery *customer.Recovery
	Stripe   *stripeclient.Client
	Queue    *webhookqueue.Queue
	Catalog  *catalog.Syncer
}

// requestContext builds the explicit caller-identity bundle every
// downstream component reads from, instead of each handler reaching into
// *gin.Context directly (see internal/reqctx).
func requestContext(c *gin.Context) reqctx.RequestContext {
	clientIP := middleware.ExtractClientIP(c.GetHeader("cf-connecting-ip"), c.GetHeader("x-forwarded-for"))
	if clientIP == "" {
		clientIP = c.ClientIP()
	}
	return reqctx.RequestContext{
		CorrelationID: middleware.GetCorrelationID(c),
		ClientIP:      clientIP,
		UserAgent:     c.Request.UserAgent(),
		Referer:       c.Request.Referer(),
		AccessToken:   c.GetString("accessToken"),
		ActorUserID:   middleware.ActorUserID(c),
	}
}
