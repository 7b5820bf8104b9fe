package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the key for user ID in gin context
const ContextUserID = "user_id"

const (
	msgMissingToken = "Missing or malformed token"
	msgInvalidToken = "Invalid or expired token"
)

// AuthMiddleware validates bearer tokens signed with secret and sets the user in context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgMissingToken})
			return
		}

		claims, err := ValidateToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidToken})
			return
		}

		c.Set(ContextUserID, claims.UserID())
		c.Next()
	}
}

// GetUserID retrieves the user ID from the gin context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
