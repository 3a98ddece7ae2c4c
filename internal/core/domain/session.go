package domain

import "time"

// SessionClaims is the identity carried by a verified session token.
type SessionClaims struct {
	AccountID string
	Role      AccountRole
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *Account
}
