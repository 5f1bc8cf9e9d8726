package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/formgate/gateway/internal/apierrors"
)

// CustomClaims is the subset of claims the gateway cares about. Workspace
// role/membership lookup is delegated to an external collaborator (spec
// §1 Out of scope) — this middleware only verifies the token and extracts
// the subject.
type CustomClaims struct {
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens against a JWKS endpoint, the same
// pattern as the teacher's internal/auth/middleware.go (Auth0 JWKS), but
// provider-agnostic: any OIDC-style issuer can supply AUTH_JWKS_URL.
type TokenVerifier struct {
	mu       sync.Mutex
	jwks     *keyfunc.JWKS
	jwksURL  string
	issuer   string
	audience string
}

// NewTokenVerifier builds a verifier backed by a JWKS endpoint. The key set
// refreshes itself in the background per keyfunc's default options.
func NewTokenVerifier(jwksURL, issuer, audience string) (*TokenVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
	if err != nil {
		return nil, fmt.Errorf("fetching JWKS from %s: %w", jwksURL, err)
	}
	return &TokenVerifier{jwks: jwks, jwksURL: jwksURL, issuer: issuer, audience: audience}, nil
}

// Verify parses and validates a bearer token, returning the subject claim.
func (v *TokenVerifier) Verify(rawToken string) (subject string, err error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.jwks.Keyfunc)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return "", fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if v.audience != "" {
		found := false
		for _, aud := range claims.Audience {
			if aud == v.audience {
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("token not valid for audience %q", v.audience)
		}
	}
	return claims.Subject, nil
}

// RequireBearerToken extracts and verifies the Authorization header,
// stashing the resulting subject in the gin context under "actorUserID".
// With a nil verifier every request is rejected with 401.
func RequireBearerToken(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			apierrors.Respond(c, apierrors.New(http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, prefix)
		if verifier == nil {
			apierrors.Respond(c, apierrors.New(http.StatusUnauthorized, "bearer token verification is not configured", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		subject, err := verifier.Verify(token)
		if err != nil {
			apierrors.Respond(c, apierrors.New(http.StatusUnauthorized, "invalid bearer token", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		c.Set("actorUserID", subject)
		c.Set("accessToken", token)
		c.Next()
	}
}

// ActorUserID reads the subject set by RequireBearerToken.
func ActorUserID(c *gin.Context) string {
	if v, ok := c.Get("actorUserID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
