package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"openhouse/auth"
)

// RequireSignin verifies the bearer token on protected routes and exposes the
// caller's id to the handler as "userId". The identity lives only for the
// duration of the request.
func RequireSignin(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS preflight carries no credentials.
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := tokens.ParseSession(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}
