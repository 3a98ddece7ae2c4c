package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memoryTx stages balance changes and transfer records until commit.
type memoryTx struct {
	store     *Store
	entries   map[string]*accountEntry
	deltas    map[string]decimal.Decimal
	transfers []domain.Transfer
	reserved  []string
}

var _ portsrepo.LedgerTx = (*memoryTx)(nil)

// RunInTransfer locks the given accounts in ascending id order, runs fn and applies the
// staged changes only if fn and the context both succeed.
func (s *Store) RunInTransfer(ctx context.Context, accountIDs []string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	ids := uniqueSorted(accountIDs)

	tx := &memoryTx{
		store:   s,
		entries: make(map[string]*accountEntry, len(ids)),
		deltas:  make(map[string]decimal.Decimal, len(ids)),
	}
	for _, id := range ids {
		// Unknown ids are left out; AdjustBalance reports them as not found.
		if e := s.entry(id); e != nil {
			tx.entries[id] = e
		}
	}

	for _, id := range ids {
		if e, ok := tx.entries[id]; ok {
			e.mu.Lock()
			defer e.mu.Unlock()
		}
	}

	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return err
	}

	tx.commit()
	return nil
}

func (tx *memoryTx) AdjustBalance(ctx context.Context, accountID string, delta, minResultingBalance decimal.Decimal) error {
	e, ok := tx.entries[accountID]
	if !ok {
		if tx.store.entry(accountID) == nil {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return fmt.Errorf("account %s is not locked by this transfer", accountID)
	}

	staged := tx.deltas[accountID]
	next := e.account.Balance.Add(staged).Add(delta)
	if next.LessThan(minResultingBalance) {
		return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountID)
	}
	tx.deltas[accountID] = staged.Add(delta)
	return nil
}

func (tx *memoryTx) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	s := tx.store
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()

	if _, exists := s.transfers[transfer.TransferID]; exists {
		return fmt.Errorf("%w: transfer id %s", apperrors.ErrDuplicate, transfer.TransferID)
	}
	if transfer.IdempotencyKey != "" {
		key := idempotencyIndexKey(transfer.SenderID, transfer.IdempotencyKey)
		if _, exists := s.transferKeys[key]; exists {
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		}
		if _, exists := s.reservedKeys[key]; exists {
			return fmt.Errorf("%w: idempotency key in use by a concurrent transfer", apperrors.ErrDuplicate)
		}
		s.reservedKeys[key] = struct{}{}
		tx.reserved = append(tx.reserved, key)
	}
	tx.transfers = append(tx.transfers, transfer)
	return nil
}

// commit applies staged changes. Account locks are still held by RunInTransfer.
func (tx *memoryTx) commit() {
	now := tx.store.now().UTC()
	for id, delta := range tx.deltas {
		e := tx.entries[id]
		e.account.Balance = e.account.Balance.Add(delta)
		e.account.LastUpdatedAt = now
	}

	s := tx.store
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()
	for _, key := range tx.reserved {
		delete(s.reservedKeys, key)
	}
	for _, t := range tx.transfers {
		s.transfers[t.TransferID] = t
		if t.IdempotencyKey != "" {
			s.transferKeys[idempotencyIndexKey(t.SenderID, t.IdempotencyKey)] = t.TransferID
		}
	}
}

func (tx *memoryTx) rollback() {
	if len(tx.reserved) == 0 {
		return
	}
	s := tx.store
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()
	for _, key := range tx.reserved {
		delete(s.reservedKeys, key)
	}
}

// FindTransferByIdempotencyKey retrieves a committed transfer by sender and key.
func (s *Store) FindTransferByIdempotencyKey(ctx context.Context, senderID, idempotencyKey string) (*domain.Transfer, error) {
	s.transfersMu.Lock()
	defer s.transfersMu.Unlock()

	id, ok := s.transferKeys[idempotencyIndexKey(senderID, idempotencyKey)]
	if !ok {
		return nil, fmt.Errorf("%w: transfer", apperrors.ErrNotFound)
	}
	t := s.transfers[id]
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
