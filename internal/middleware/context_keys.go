package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
)

// sessionCtxKey is the key used to store the verified session claims.
const sessionCtxKey = contextKey("session")

// WithSession returns a copy of ctx carrying the verified session claims.
func WithSession(ctx context.Context, claims domain.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionCtxKey, claims)
}

// GetSessionFromContext retrieves the verified session claims from the request context.
// It returns the claims and a boolean indicating if they were found.
func GetSessionFromContext(c *gin.Context) (domain.SessionClaims, bool) {
	claims, ok := c.Request.Context().Value(sessionCtxKey).(domain.SessionClaims)
	if !ok || claims.AccountID == "" {
		return domain.SessionClaims{}, false
	}
	return claims, true
}

// GetAccountIDFromContext is a shortcut for the session's account id.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	claims, ok := GetSessionFromContext(c)
	return claims.AccountID, ok
}
