// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/keygate/keygate-backend/internal/utils"
)

// AuthRequired guards administrative routes with a service bearer token.
// The verify endpoint stays public; it is what the licensed product calls.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required.",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header.",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateServiceToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token.",
			})
			c.Abort()
			return
		}

		c.Set("service_id", claims.ServiceID)
		c.Next()
	}
}
