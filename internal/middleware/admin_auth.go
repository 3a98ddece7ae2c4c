package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader is the header carrying the administrative API key.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyAuth authenticates administrative requests with a static API key.
// An empty configured key disables the admin routes entirely.
func AdminKeyAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if adminKey == "" {
			logger.Warn("Admin request rejected, no admin key configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administration is disabled"})
			return
		}

		provided := c.GetHeader(AdminKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			logger.Warn("Invalid admin key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin key"})
			return
		}

		c.Next()
	}
}
