package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
)

// PostgreSQL error codes we translate.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Constraints declared by the migrations.
const (
	constraintAccountEmail       = "accounts_email_key"
	constraintAccountContact     = "accounts_contact_number_key"
	constraintTransferIdempotent = "transfers_sender_idempotency_key"
	constraintAccountBalance     = "accounts_balance_check"
)

// mapPgError translates driver errors into application sentinels. Context errors pass
// through unchanged so callers can tell an interrupted unit of work from a fault.
func mapPgError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, describeConstraint(pgErr.ConstraintName))
		case pgCheckViolation:
			if pgErr.ConstraintName == constraintAccountBalance {
				return fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, op)
			}
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidation, op, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrUnavailable, op, err)
}

func describeConstraint(name string) string {
	switch name {
	case constraintAccountEmail:
		return "email already registered"
	case constraintAccountContact:
		return "contact number already registered"
	case constraintTransferIdempotent:
		return "idempotency key already used"
	default:
		return name
	}
}
