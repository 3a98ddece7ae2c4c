package repositories

import (
	"context"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is the unit of work handed to a transfer. Everything done through it is
// applied all together when the enclosing RunInTransfer returns nil, or not at all.
type LedgerTx interface {
	// AdjustBalance adds delta to the account balance only if the resulting balance is
	// >= minResultingBalance. It returns apperrors.ErrInsufficientFunds when the floor
	// would be crossed and apperrors.ErrNotFound for an unknown account.
	AdjustBalance(ctx context.Context, accountID string, delta, minResultingBalance decimal.Decimal) error

	// SaveTransfer records the transfer. It returns apperrors.ErrDuplicate when the
	// sender already used the idempotency key.
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error
}

// TransferRunner groups balance mutations of several accounts.
type TransferRunner interface {
	// RunInTransfer locks the given accounts (and only those) and runs fn inside one
	// unit of work. A failed commit is reported as apperrors.ErrIndeterminate.
	RunInTransfer(ctx context.Context, accountIDs []string, fn func(ctx context.Context, tx LedgerTx) error) error
}

// TransferReader defines read operations for the transfer journal.
type TransferReader interface {
	// FindTransferByIdempotencyKey retrieves a committed transfer by sender and key.
	FindTransferByIdempotencyKey(ctx context.Context, senderID, idempotencyKey string) (*domain.Transfer, error)
}

// TransferRepositoryFacade combines all transfer-related repository interfaces
type TransferRepositoryFacade interface {
	TransferRunner
	TransferReader
}
