package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
)

// FindAccountByID retrieves a copy of the account with the given id.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	e := s.entry(accountID)
	if e == nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	e.mu.Lock()
	acc := e.account
	e.mu.Unlock()
	return &acc, nil
}

// FindAccountByContact retrieves a copy of the account registered with the contact number.
func (s *Store) FindAccountByContact(ctx context.Context, contactNumber string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.byContact[contactNumber]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no account with that contact number", apperrors.ErrNotFound)
	}
	return s.FindAccountByID(ctx, id)
}

// FindAccountByEmail retrieves a copy of the account registered with the email.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.byEmail[emailKey(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no account with that email", apperrors.ErrNotFound)
	}
	return s.FindAccountByID(ctx, id)
}

// SaveAccount inserts a new account, enforcing unique id, email and contact number.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account id %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, exists := s.byEmail[emailKey(account.Email)]; exists {
		return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	if _, exists := s.byContact[account.ContactNumber]; exists {
		return fmt.Errorf("%w: contact number already registered", apperrors.ErrDuplicate)
	}

	s.accounts[account.AccountID] = &accountEntry{account: account}
	s.byEmail[emailKey(account.Email)] = account.AccountID
	s.byContact[account.ContactNumber] = account.AccountID
	return nil
}

// UpdateAccountStatus moves the account from one status to another.
func (s *Store) UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error {
	e := s.entry(accountID)
	if e == nil {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.account.Status != from {
		return fmt.Errorf("%w: account is %s, expected %s", apperrors.ErrConflict, e.account.Status, from)
	}
	e.account.Status = to
	e.account.LastUpdatedAt = now
	return nil
}
