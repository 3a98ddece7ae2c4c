package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/mafujur-rahman/cash-plus-server/internal/models"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils/mapping"
)

const accountColumns = `account_id, name, credential_hash, contact_number, email, balance, status, role, created_at, last_updated_at`

// PgxAccountRepository stores accounts in PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.CredentialHash,
		&m.ContactNumber,
		&m.Email,
		&m.Balance,
		&m.Status,
		&m.Role,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, op, where string, arg any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapPgError(err, op)
	}
	return acc, nil
}

// FindAccountByID retrieves an account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by id", `account_id = $1`, accountID)
}

// FindAccountByContact retrieves an account by its contact number.
func (r *PgxAccountRepository) FindAccountByContact(ctx context.Context, contactNumber string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by contact number", `contact_number = $1`, contactNumber)
}

// FindAccountByEmail retrieves an account by email, case-insensitively.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by email", `lower(email) = lower($1)`, email)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.CredentialHash,
		m.ContactNumber,
		m.Email,
		m.Balance,
		m.Status,
		m.Role,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "save account")
	}
	return nil
}

// UpdateAccountStatus moves an account from one status to another.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $3, last_updated_at = $4
		WHERE account_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(from), string(to), now)
	if err != nil {
		return mapPgError(err, "update account status")
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return mapPgError(err, "check account existence")
	}
	if !exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return fmt.Errorf("%w: account %s is no longer %s", apperrors.ErrConflict, accountID, from)
}
