package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL repositories onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		TransferRepo: newPgxTransferRepository(dbPool),
	}
}
