package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/":       true,
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful
// authenticated API calls with PostHog.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		accountID, exists := GetAccountIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/transfers" -> "api_v1_transfers"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.NewReplacer("/", "_", ":", "").Replace(eventName)
		if eventName == "" {
			return
		}

		// Route params are left out: idempotency keys are client data.
		posthogClient.Enqueue(accountID, eventName, map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a custom event for a known account, e.g. after registration
// where no session exists yet.
func PosthogEvent(posthogClient *utils.PosthogClientWrapper, accountID, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() || accountID == "" {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	posthogClient.Enqueue(accountID, eventName, properties)
}
