package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/formgate/gateway/internal/middleware"
)

// NewRouter builds the gin engine wiring every §6.1 route onto h. The
// billing routes delegate bearer-token validation to verifier. verifier is
// nil when no JWKS endpoint is configured (cmd/gateway passes nil if
// AUTH_JWKS_URL is unset); the billing routes then answer every request
// with 401.
func NewRouter(h *Handler, verifier *middleware.TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/f/:formId/schema", h.GetFormSchema)
		v1.POST("/f/:formId/submit", h.SubmitForm)

		v1.POST("/stripe/webhook", h.StripeWebhook)
		v1.POST("/stripe/catalog/sync", requireInternalAdminToken(h.Cfg.InternalAdminToken), h.SyncCatalog)

		billing := v1.Group("/stripe/workspaces")
		billing.Use(middleware.RequireBearerToken(verifier))
		{
			billing.POST("/:workspaceId/checkout-session", h.CreateCheckoutSession)
			billing.POST("/:workspaceId/portal-session", h.CreatePortalSession)
		}
	}

	return router
}
