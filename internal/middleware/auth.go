package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
)

// AuthMiddleware creates a Gin middleware handler that verifies the bearer session token
// and stores its claims in the request context.
func AuthMiddleware(sessions portssvc.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := sessions.VerifySession(c.Request.Context(), parts[1])
		if err != nil {
			msg := "Invalid token"
			if !errors.Is(err, apperrors.ErrInvalidToken) {
				logger.Error("Session verification failed", slog.String("error", err.Error()))
			} else {
				logger.Warn("Invalid token", slog.String("error", err.Error()))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		enrichedLogger := logger.With(slog.String("account_id", claims.AccountID))
		ctx := WithSession(c.Request.Context(), *claims)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
