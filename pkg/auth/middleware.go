package auth

import (
	"net/http"
	"strings"

	"github.com/example/bakeshop/pkg/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// tokenFromRequest pulls the session token from the Authorization
// header or, failing that, the auth cookie the login flow sets.
func (m *Manager) tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// Middleware rejects requests without a valid session token and stores
// the caller's identity in the request context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			c.Abort()
			return
		}

		claims, err := m.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AdminRequired gates admin routes. Must run after Middleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			c.Abort()
			return
		}
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied, admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}
