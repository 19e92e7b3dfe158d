package handler

import (
	"strings"

	"civicpulse/backend/internal/identity"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityMiddleware resolves the bearer token, if any, into an identity
// snapshot. Missing or bad credentials degrade to anonymous; role checks
// happen in the handlers that need them.
func (h *Handler) IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		c.Set(identityKey, h.Identity.Resolve(token))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// WebSocket clients can't set headers from the browser.
	return c.Query("token")
}

// currentIdentity pulls the resolved snapshot out of the gin context.
func currentIdentity(c *gin.Context) *identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(*identity.Identity); ok {
			return ident
		}
	}
	return identity.Anonymous()
}
