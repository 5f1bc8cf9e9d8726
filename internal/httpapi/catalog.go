package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/apierrors"
)

// requireInternalAdminToken gates the internal catalog-sync trigger with a
// shared secret, accepted either as x-internal-admin-token or as a bearer
// token, compared in constant time (§6.1).
func requireInternalAdminToken(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			apierrors.Respond(c, apierrors.Forbidden("FORBIDDEN", "internal admin token is not configured"))
			c.Abort()
			return
		}

		token := c.GetHeader("x-internal-admin-token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			apierrors.Respond(c, apierrors.Forbidden("FORBIDDEN", "missing or invalid internal admin token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SyncCatalog serves POST /api/v1/stripe/catalog/sync.
//
// @Summary Force a catalog sync against the billing provider
// @Tags billing
// @Produce json
// @Param x-internal-admin-token header string true "Internal admin token"
// @Success 200 {object} map[string]int
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/stripe/catalog/sync [post]
func (h *Handler) SyncCatalog(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusOK, gin.H{"scanned": 0, "eligible": 0, "updated": 0, "missing": 0})
		return
	}

	scanned, eligible, updated, missing, err := h.Catalog.Sync(c.Request.Context(), true)
	if err != nil {
		apierrors.Respond(c, apierrors.Internal("RUNNER_INTERNAL_ERROR", "catalog sync failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"scanned": scanned, "eligible": eligible, "updated": updated, "missing": missing})
}
