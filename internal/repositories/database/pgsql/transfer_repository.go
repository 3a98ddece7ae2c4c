package pgsql

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/mafujur-rahman/cash-plus-server/internal/models"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const transferColumns = `transfer_id, idempotency_key, sender_id, receiver_id, receiver_contact_number, amount, total_amount, status, created_at`

// PgxTransferRepository runs transfers as PostgreSQL transactions.
type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(pool *pgxpool.Pool) *PgxTransferRepository {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

// pgxLedgerTx is the LedgerTx of one database transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// RunInTransfer locks the account rows in ascending id order, runs fn and commits.
func (r *PgxTransferRepository) RunInTransfer(ctx context.Context, accountIDs []string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx) //nolint:errcheck

	ids := uniqueSorted(accountIDs)
	rows, err := tx.Query(ctx,
		`SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`, ids)
	if err != nil {
		return mapPgError(err, "lock accounts")
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return mapPgError(err, "lock accounts")
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// AdjustBalance applies a conditional compare-and-update on one account.
func (t *pgxLedgerTx) AdjustBalance(ctx context.Context, accountID string, delta, minResultingBalance decimal.Decimal) error {
	cmdTag, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = NOW()
		WHERE account_id = $1 AND balance + $2 >= $3;
	`, accountID, delta, minResultingBalance)
	if err != nil {
		return mapPgError(err, "adjust balance")
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return mapPgError(err, "check account existence")
	}
	if !exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountID)
}

// SaveTransfer records the transfer in the same transaction as the balance changes.
func (t *pgxLedgerTx) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	m := mapping.ToModelTransfer(transfer)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		m.TransferID,
		m.IdempotencyKey,
		m.SenderID,
		m.ReceiverID,
		m.ReceiverContactNumber,
		m.Amount,
		m.TotalAmount,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "save transfer")
	}
	return nil
}

// FindTransferByIdempotencyKey retrieves a committed transfer by sender and key.
func (r *PgxTransferRepository) FindTransferByIdempotencyKey(ctx context.Context, senderID, idempotencyKey string) (*domain.Transfer, error) {
	var m models.Transfer
	err := r.Pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE sender_id = $1 AND idempotency_key = $2`,
		senderID, idempotencyKey,
	).Scan(
		&m.TransferID,
		&m.IdempotencyKey,
		&m.SenderID,
		&m.ReceiverID,
		&m.ReceiverContactNumber,
		&m.Amount,
		&m.TotalAmount,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "find transfer by idempotency key")
	}
	t := mapping.ToDomainTransfer(m)
	return &t, nil
}

func uniqueSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
