// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/services"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// AuthRequired validates the bearer token and stamps the authenticated
// principal into both the gin context and the request context, where the
// authorization gate reads it.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		principalID, err := uuid.Parse(claims.PrincipalID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token subject",
			})
			c.Abort()
			return
		}

		c.Set("principal_id", principalID)
		c.Set("username", claims.Username)
		c.Request = c.Request.WithContext(services.WithPrincipal(c.Request.Context(), principalID))
		c.Next()
	}
}

// OptionalAuth stamps the principal if a valid token is present but lets
// unauthenticated requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		if principalID, err := uuid.Parse(claims.PrincipalID); err == nil {
			c.Set("principal_id", principalID)
			c.Set("username", claims.Username)
			c.Request = c.Request.WithContext(services.WithPrincipal(c.Request.Context(), principalID))
		}
		c.Next()
	}
}
