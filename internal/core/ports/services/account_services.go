package services

import (
	"context"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
)

// AccountRegistrationSvc defines account creation.
type AccountRegistrationSvc interface {
	// Register validates the request and creates a pending account.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)
}

// AccountAuthSvc defines credential based login.
type AccountAuthSvc interface {
	// Login verifies the PIN of an approved account and issues a session.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error)
}

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountAdminSvc defines the administrative approval path.
type AccountAdminSvc interface {
	// SetAccountStatus approves or rejects a pending account.
	SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountRegistrationSvc
	AccountAuthSvc
	AccountReaderSvc
	AccountAdminSvc
}
