package services

import (
	"context"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
)

// CredentialVerifier hashes and checks PINs. Implementations are stateless.
type CredentialVerifier interface {
	// Hash produces a salted one-way hash of secret.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches hash.
	Verify(secret, hash string) bool
}

// SessionIssuer issues and verifies signed, time-limited session tokens.
type SessionIssuer interface {
	// IssueSession returns a token bound to the claims and its expiry time.
	IssueSession(ctx context.Context, claims domain.SessionClaims) (string, time.Time, error)

	// VerifySession returns the claims of a valid token, or apperrors.ErrInvalidToken.
	VerifySession(ctx context.Context, token string) (*domain.SessionClaims, error)
}
