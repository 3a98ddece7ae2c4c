package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/platform/config"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
)

// tokenService implements SessionIssuer with HS256 JWTs.
type tokenService struct {
	secret string
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new instance of tokenService from the application configuration.
func NewTokenService(cfg *config.Config) portssvc.SessionIssuer {
	return newTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer, time.Now)
}

func newTokenService(secret string, expiry time.Duration, issuer string, now func() time.Time) *tokenService {
	return &tokenService{secret: secret, expiry: expiry, issuer: issuer, now: now}
}

// IssueSession creates a new session token for the given account.
func (s *tokenService) IssueSession(ctx context.Context, claims domain.SessionClaims) (string, time.Time, error) {
	if claims.AccountID == "" {
		return "", time.Time{}, fmt.Errorf("%w: session requires an account id", apperrors.ErrValidation)
	}
	token, expiresAt, err := utils.GenerateJWT(claims.AccountID, string(claims.Role), s.secret, s.expiry, s.issuer, s.now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// VerifySession validates a token and returns its claims.
func (s *tokenService) VerifySession(ctx context.Context, token string) (*domain.SessionClaims, error) {
	parsed, err := utils.ParseAndValidateJWT(token, s.secret, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if parsed.Subject == "" {
		return nil, fmt.Errorf("%w: subject missing", apperrors.ErrInvalidToken)
	}
	return &domain.SessionClaims{
		AccountID: parsed.Subject,
		Role:      domain.AccountRole(parsed.Role),
	}, nil
}
