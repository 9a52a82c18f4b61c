package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/43bits/mess-calender-gec/internal/auth"
	"github.com/43bits/mess-calender-gec/internal/httpx"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			c.Abort()
			return
		}

		authenticate(c, parts[1])
	}
}

// QueryTokenAuth reads the token from ?token= for clients that cannot set
// headers, such as browser websockets.
func QueryTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}
		authenticate(c, token)
	}
}

func authenticate(c *gin.Context, token string) {
	caller, email, err := auth.CallerFromToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	// Attach user info to request context
	c.Set(httpx.KeyUserID, caller.ID)
	c.Set(httpx.KeyUserEmail, email)
	c.Set(httpx.KeyUserRole, caller.Role)
	c.Next()
}
