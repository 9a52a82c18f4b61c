package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/httpx"
)

func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(httpx.KeyUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// RoleLookup returns the role currently stored for a user.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

// RefreshRole replaces the token's role claim with the stored role, so a
// demotion takes effect before the token expires. Mount it after the auth
// middleware.
func RefreshRole(roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := roles.CurrentRole(c.Request.Context(), c.GetString(httpx.KeyUserID))
		if err != nil {
			httpx.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(httpx.KeyUserRole, role)
		c.Next()
	}
}
