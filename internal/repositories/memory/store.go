// Package memory implements the repository ports in process memory. Each account carries
// its own lock; a transfer locks only the accounts it touches, in ascending id order.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
)

type accountEntry struct {
	mu      sync.Mutex
	account domain.Account
}

// Store is an in-memory account and transfer store. The zero value is not usable,
// use NewStore.
type Store struct {
	// mu guards the maps below, not the accounts themselves.
	mu        sync.RWMutex
	accounts  map[string]*accountEntry
	byEmail   map[string]string
	byContact map[string]string

	transfersMu  sync.Mutex
	transfers    map[string]domain.Transfer
	transferKeys map[string]string   // sender|key -> transfer id, committed only
	reservedKeys map[string]struct{} // keys claimed by in-flight transfers

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*accountEntry),
		byEmail:      make(map[string]string),
		byContact:    make(map[string]string),
		transfers:    make(map[string]domain.Transfer),
		transferKeys: make(map[string]string),
		reservedKeys: make(map[string]struct{}),
		now:          time.Now,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.TransferRepositoryFacade = (*Store)(nil)
)

// NewRepositoryProvider exposes a single store through both repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  store,
		TransferRepo: store,
	}
}

func (s *Store) entry(accountID string) *accountEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[accountID]
}

// emailKey normalizes emails so uniqueness is case-insensitive.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func idempotencyIndexKey(senderID, key string) string {
	return senderID + "|" + key
}
