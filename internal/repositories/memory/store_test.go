package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/mafujur-rahman/cash-plus-server/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(contact string, balance int64) domain.Account {
	return domain.Account{
		AccountID:     uuid.NewString(),
		Name:          "Test " + contact,
		ContactNumber: contact,
		Email:         contact + "@example.com",
		Balance:       decimal.NewFromInt(balance),
		Status:        domain.StatusApproved,
		Role:          domain.RoleUser,
	}
}

func seed(t *testing.T, store *memory.Store, accounts ...domain.Account) {
	t.Helper()
	for _, acc := range accounts {
		require.NoError(t, store.SaveAccount(context.Background(), acc))
	}
}

func balanceOf(t *testing.T, store *memory.Store, id string) decimal.Decimal {
	t.Helper()
	acc, err := store.FindAccountByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func transfer(store *memory.Store, from, to string, amount int64) error {
	return store.RunInTransfer(context.Background(), []string{from, to}, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AdjustBalance(ctx, from, decimal.NewFromInt(-amount), decimal.Zero); err != nil {
			return err
		}
		return tx.AdjustBalance(ctx, to, decimal.NewFromInt(amount), decimal.Zero)
	})
}

func TestSaveAccount_Uniqueness(t *testing.T) {
	store := memory.NewStore()
	a := newAccount("0100", 40)
	seed(t, store, a)

	dupEmail := newAccount("0200", 40)
	dupEmail.Email = "0100@EXAMPLE.com"
	assert.ErrorIs(t, store.SaveAccount(context.Background(), dupEmail), apperrors.ErrDuplicate)

	dupContact := newAccount("0100", 40)
	dupContact.Email = "other@example.com"
	assert.ErrorIs(t, store.SaveAccount(context.Background(), dupContact), apperrors.ErrDuplicate)

	found, err := store.FindAccountByEmail(context.Background(), "0100@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, found.AccountID)

	found, err = store.FindAccountByContact(context.Background(), "0100")
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, found.AccountID)
}

func TestFind_NotFound(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.FindAccountByContact(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.FindAccountByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.FindTransferByIdempotencyKey(ctx, "sender", "key")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindAccountByID_ReturnsCopy(t *testing.T) {
	store := memory.NewStore()
	a := newAccount("0100", 40)
	seed(t, store, a)

	found, err := store.FindAccountByID(context.Background(), a.AccountID)
	require.NoError(t, err)
	found.Balance = decimal.NewFromInt(1_000_000)

	assert.True(t, balanceOf(t, store, a.AccountID).Equal(decimal.NewFromInt(40)))
}

func TestUpdateAccountStatus(t *testing.T) {
	store := memory.NewStore()
	a := newAccount("0100", 40)
	a.Status = domain.StatusPending
	seed(t, store, a)
	now := time.Now().UTC()

	require.NoError(t, store.UpdateAccountStatus(context.Background(), a.AccountID, domain.StatusPending, domain.StatusApproved, now))
	found, err := store.FindAccountByID(context.Background(), a.AccountID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, found.Status)
	assert.Equal(t, now, found.LastUpdatedAt)

	err = store.UpdateAccountStatus(context.Background(), a.AccountID, domain.StatusPending, domain.StatusRejected, now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = store.UpdateAccountStatus(context.Background(), "missing", domain.StatusPending, domain.StatusApproved, now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunInTransfer_AppliesAllOrNothing(t *testing.T) {
	store := memory.NewStore()
	sender := newAccount("0100", 40)
	receiver := newAccount("0200", 0)
	seed(t, store, sender, receiver)

	require.NoError(t, transfer(store, sender.AccountID, receiver.AccountID, 30))
	assert.True(t, balanceOf(t, store, sender.AccountID).Equal(decimal.NewFromInt(10)))
	assert.True(t, balanceOf(t, store, receiver.AccountID).Equal(decimal.NewFromInt(30)))

	// The debit is the floor check; nothing is applied when it fails.
	err := transfer(store, sender.AccountID, receiver.AccountID, 11)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.True(t, balanceOf(t, store, sender.AccountID).Equal(decimal.NewFromInt(10)))
	assert.True(t, balanceOf(t, store, receiver.AccountID).Equal(decimal.NewFromInt(30)))
}

func TestRunInTransfer_StampsLastUpdatedAt(t *testing.T) {
	store := memory.NewStore()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	sender := newAccount("0100", 40)
	receiver := newAccount("0200", 0)
	bystander := newAccount("0300", 5)
	for _, acc := range []*domain.Account{&sender, &receiver, &bystander} {
		acc.CreatedAt, acc.LastUpdatedAt = past, past
	}
	seed(t, store, sender, receiver, bystander)

	// A rejected transfer leaves the timestamps alone.
	require.ErrorIs(t, transfer(store, sender.AccountID, receiver.AccountID, 41), apperrors.ErrInsufficientFunds)
	got, err := store.FindAccountByID(context.Background(), sender.AccountID)
	require.NoError(t, err)
	assert.True(t, got.LastUpdatedAt.Equal(past))

	require.NoError(t, transfer(store, sender.AccountID, receiver.AccountID, 10))
	for _, id := range []string{sender.AccountID, receiver.AccountID} {
		got, err := store.FindAccountByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, got.LastUpdatedAt.After(past), "account %s", id)
		assert.True(t, got.CreatedAt.Equal(past))
	}
	got, err = store.FindAccountByID(context.Background(), bystander.AccountID)
	require.NoError(t, err)
	assert.True(t, got.LastUpdatedAt.Equal(past))
}

func TestRunInTransfer_FailureAfterDebitLeavesBalancesUntouched(t *testing.T) {
	store := memory.NewStore()
	sender := newAccount("0100", 40)
	seed(t, store, sender)

	err := store.RunInTransfer(context.Background(), []string{sender.AccountID, "ghost"}, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.AdjustBalance(ctx, sender.AccountID, decimal.NewFromInt(-30), decimal.Zero); err != nil {
			return err
		}
		return tx.AdjustBalance(ctx, "ghost", decimal.NewFromInt(30), decimal.Zero)
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, balanceOf(t, store, sender.AccountID).Equal(decimal.NewFromInt(40)))
}

func TestRunInTransfer_CancelledContextDiscardsChanges(t *testing.T) {
	store := memory.NewStore()
	sender := newAccount("0100", 40)
	receiver := newAccount("0200", 0)
	seed(t, store, sender, receiver)

	ctx, cancel := context.WithCancel(context.Background())
	err := store.RunInTransfer(ctx, []string{sender.AccountID, receiver.AccountID}, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		require.NoError(t, tx.AdjustBalance(ctx, sender.AccountID, decimal.NewFromInt(-30), decimal.Zero))
		require.NoError(t, tx.SaveTransfer(ctx, domain.Transfer{TransferID: "t1", SenderID: sender.AccountID, IdempotencyKey: "k1"}))
		cancel()
		return nil
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, balanceOf(t, store, sender.AccountID).Equal(decimal.NewFromInt(40)))
	_, err = store.FindTransferByIdempotencyKey(context.Background(), sender.AccountID, "k1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveTransfer_IdempotencyKeyPerSender(t *testing.T) {
	store := memory.NewStore()
	a := newAccount("0100", 40)
	b := newAccount("0200", 40)
	seed(t, store, a, b)

	save := func(sender domain.Account, key string) error {
		return store.RunInTransfer(context.Background(), []string{sender.AccountID}, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			return tx.SaveTransfer(ctx, domain.Transfer{
				TransferID:     uuid.NewString(),
				IdempotencyKey: key,
				SenderID:       sender.AccountID,
				Status:         domain.TransferCompleted,
			})
		})
	}

	require.NoError(t, save(a, "k1"))
	assert.ErrorIs(t, save(a, "k1"), apperrors.ErrDuplicate)
	require.NoError(t, save(b, "k1"))
	// Keyless transfers never collide.
	require.NoError(t, save(a, ""))
	require.NoError(t, save(a, ""))

	found, err := store.FindTransferByIdempotencyKey(context.Background(), a.AccountID, "k1")
	require.NoError(t, err)
	assert.Equal(t, a.AccountID, found.SenderID)
}

func TestRunInTransfer_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	store := memory.NewStore()
	sender := newAccount("0100", 40)
	receiver := newAccount("0200", 0)
	seed(t, store, sender, receiver)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := transfer(store, sender.AccountID, receiver.AccountID, 30)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, apperrors.ErrInsufficientFunds) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.True(t, balanceOf(t, store, sender.AccountID).Equal(decimal.NewFromInt(10)))
	assert.True(t, balanceOf(t, store, receiver.AccountID).Equal(decimal.NewFromInt(30)))
}

func TestRunInTransfer_OpposingTransfersConserveTotal(t *testing.T) {
	store := memory.NewStore()
	const n = 6
	accounts := make([]domain.Account, n)
	for i := range accounts {
		accounts[i] = newAccount(fmt.Sprintf("01%02d", i), 100)
	}
	seed(t, store, accounts...)

	var wg sync.WaitGroup
	for round := 0; round < 50; round++ {
		for i := 0; i < n; i++ {
			from := accounts[i].AccountID
			to := accounts[(i+round+1)%n].AccountID
			if from == to {
				continue
			}
			wg.Add(1)
			go func(from, to string, amount int64) {
				defer wg.Done()
				_ = transfer(store, from, to, amount)
			}(from, to, int64(round%7+1))
		}
	}
	wg.Wait()

	total := decimal.Zero
	for _, acc := range accounts {
		bal := balanceOf(t, store, acc.AccountID)
		assert.False(t, bal.IsNegative())
		total = total.Add(bal)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(100*n)), "total balance changed: %s", total)
}
