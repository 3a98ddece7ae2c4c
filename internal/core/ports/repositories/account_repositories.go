package repositories

import (
	"context"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Every finder returns apperrors.ErrNotFound when no account matches.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByContact retrieves an account by its contact (mobile) number.
	FindAccountByContact(ctx context.Context, contactNumber string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its email address.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. It returns apperrors.ErrDuplicate when the
	// email or contact number is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountStatusManager defines the administrative status transition.
type AccountStatusManager interface {
	// UpdateAccountStatus moves an account from one status to another. It returns
	// apperrors.ErrNotFound for an unknown account and apperrors.ErrConflict when the
	// account is no longer in the expected status.
	UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountStatusManager
}
