// Package middleware contains the Gin middleware shared by protected routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/art-pro/valuation-backend/internal/auth"
	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid Bearer token and stores
// the authenticated user's id and username in the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		claims, err := auth.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
