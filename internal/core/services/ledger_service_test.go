package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/mafujur-rahman/cash-plus-server/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const testPin = "12345"

type LedgerServiceTestSuite struct {
	suite.Suite
	store       *memory.Store
	credentials portssvc.CredentialVerifier
	service     portssvc.LedgerSvcFacade
	sender      domain.Account
	receiver    domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.credentials = services.NewCredentialVerifier(bcrypt.MinCost)
	suite.service = services.NewLedgerService(suite.store, suite.store, suite.credentials)
	suite.sender = suite.seedAccount("01700000001", 40, domain.StatusApproved)
	suite.receiver = suite.seedAccount("01700000002", 0, domain.StatusApproved)
}

func (suite *LedgerServiceTestSuite) seedAccount(contact string, balance int64, status domain.AccountStatus) domain.Account {
	hash, err := suite.credentials.Hash(testPin)
	suite.Require().NoError(err)
	acc := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           "Account " + contact,
		CredentialHash: hash,
		ContactNumber:  contact,
		Email:          contact + "@example.com",
		Balance:        decimal.NewFromInt(balance),
		Status:         status,
		Role:           domain.RoleUser,
	}
	suite.Require().NoError(suite.store.SaveAccount(context.Background(), acc))
	return acc
}

func (suite *LedgerServiceTestSuite) balance(accountID string) decimal.Decimal {
	acc, err := suite.store.FindAccountByID(context.Background(), accountID)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *LedgerServiceTestSuite) assertBalance(accountID string, want int64) {
	got := suite.balance(accountID)
	suite.True(got.Equal(decimal.NewFromInt(want)), "balance of %s: want %d, got %s", accountID, want, got)
}

func session(acc domain.Account) domain.SessionClaims {
	return domain.SessionClaims{AccountID: acc.AccountID, Role: acc.Role}
}

func transferRequest(sender, receiver domain.Account, amount, total string) dto.TransferRequest {
	return dto.TransferRequest{
		SenderID:              sender.AccountID,
		ReceiverContactNumber: receiver.ContactNumber,
		Amount:                decimal.RequireFromString(amount),
		TotalAmount:           decimal.RequireFromString(total),
		Pin:                   testPin,
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, domain.EventTransferCompleted, mock.AnythingOfType("domain.TransferCompletedEvent")).Return(nil).Once()
	svc := services.NewLedgerService(suite.store, suite.store, suite.credentials, services.WithLedgerEventPublisher(publisher))

	transfer, err := svc.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "30", "30"), "")

	suite.Require().NoError(err)
	suite.NotEmpty(transfer.TransferID)
	suite.Equal(domain.TransferCompleted, transfer.Status)
	suite.Equal(suite.receiver.AccountID, transfer.ReceiverID)
	suite.assertBalance(suite.sender.AccountID, 10)
	suite.assertBalance(suite.receiver.AccountID, 30)
	publisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_FeeIsNotCredited() {
	transfer, err := suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "25", "30"), "")

	suite.Require().NoError(err)
	suite.True(transfer.Fee().Equal(decimal.NewFromInt(5)))
	suite.assertBalance(suite.sender.AccountID, 10)
	suite.assertBalance(suite.receiver.AccountID, 25)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ExactBalanceDrainsToZero() {
	_, err := suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "40", "40"), "")

	suite.Require().NoError(err)
	suite.assertBalance(suite.sender.AccountID, 0)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConcurrentTransfersNeverOverdraw() {
	var (
		wg      sync.WaitGroup
		results = make([]error, 2)
	)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "30", "30"), "")
		}(i)
	}
	wg.Wait()

	successes, insufficient := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			insufficient++
		}
	}
	suite.Equal(1, successes)
	suite.Equal(1, insufficient)
	suite.assertBalance(suite.sender.AccountID, 10)
	suite.assertBalance(suite.receiver.AccountID, 30)
}

func (suite *LedgerServiceTestSuite) TestTransfer_WithoutKeyRepeatIsSecondTransfer() {
	rich := suite.seedAccount("01700000003", 100, domain.StatusApproved)
	req := transferRequest(rich, suite.receiver, "30", "30")

	first, err := suite.service.Transfer(context.Background(), session(rich), req, "")
	suite.Require().NoError(err)
	second, err := suite.service.Transfer(context.Background(), session(rich), req, "")
	suite.Require().NoError(err)

	suite.NotEqual(first.TransferID, second.TransferID)
	suite.assertBalance(rich.AccountID, 40)
	suite.assertBalance(suite.receiver.AccountID, 60)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ReplayWithKeyMovesMoneyOnce() {
	req := transferRequest(suite.sender, suite.receiver, "30", "30")

	first, err := suite.service.Transfer(context.Background(), session(suite.sender), req, "key-1")
	suite.Require().NoError(err)
	replay, err := suite.service.Transfer(context.Background(), session(suite.sender), req, "key-1")
	suite.Require().NoError(err)

	suite.Equal(first.TransferID, replay.TransferID)
	suite.assertBalance(suite.sender.AccountID, 10)
	suite.assertBalance(suite.receiver.AccountID, 30)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConcurrentReplaysMoveMoneyOnce() {
	req := transferRequest(suite.sender, suite.receiver, "10", "10")
	const n = 5
	var (
		wg   sync.WaitGroup
		ids  = make([]string, n)
		errs = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			t, err := suite.service.Transfer(context.Background(), session(suite.sender), req, "same-key")
			errs[i] = err
			if t != nil {
				ids[i] = t.TransferID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		suite.Require().NoError(errs[i])
		suite.Equal(ids[0], ids[i])
	}
	suite.assertBalance(suite.sender.AccountID, 30)
	suite.assertBalance(suite.receiver.AccountID, 10)
}

func (suite *LedgerServiceTestSuite) TestTransfer_KeyReusedWithDifferentParameters() {
	_, err := suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "10", "10"), "key-1")
	suite.Require().NoError(err)

	_, err = suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "20", "20"), "key-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.assertBalance(suite.sender.AccountID, 30)
	suite.assertBalance(suite.receiver.AccountID, 10)
}

func (suite *LedgerServiceTestSuite) TestTransfer_PreconditionFailuresLeaveBalancesUnchanged() {
	pending := suite.seedAccount("01700000004", 0, domain.StatusPending)
	ghost := domain.Account{AccountID: uuid.NewString(), ContactNumber: "01999999999"}

	tests := []struct {
		name   string
		caller domain.SessionClaims
		req    func() dto.TransferRequest
		want   error
	}{
		{
			name:   "unknown receiver",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, ghost, "10", "10") },
			want:   apperrors.ErrNotFound,
		},
		{
			name:   "unknown sender",
			caller: session(ghost),
			req:    func() dto.TransferRequest { return transferRequest(ghost, suite.receiver, "10", "10") },
			want:   apperrors.ErrNotFound,
		},
		{
			name:   "wrong pin",
			caller: session(suite.sender),
			req: func() dto.TransferRequest {
				r := transferRequest(suite.sender, suite.receiver, "10", "10")
				r.Pin = "00000"
				return r
			},
			want: apperrors.ErrUnauthorized,
		},
		{
			name:   "session does not own sender",
			caller: session(suite.receiver),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "10", "10") },
			want:   apperrors.ErrForbidden,
		},
		{
			name:   "receiver not approved",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, pending, "10", "10") },
			want:   apperrors.ErrForbidden,
		},
		{
			name:   "transfer to self",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.sender, "10", "10") },
			want:   apperrors.ErrValidation,
		},
		{
			name:   "insufficient funds",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "40", "40.01") },
			want:   apperrors.ErrInsufficientFunds,
		},
		{
			name:   "zero amount",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "0", "0") },
			want:   apperrors.ErrValidation,
		},
		{
			name:   "negative amount",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "-5", "5") },
			want:   apperrors.ErrValidation,
		},
		{
			name:   "total below amount",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "10", "9") },
			want:   apperrors.ErrValidation,
		},
		{
			name:   "sub-cent precision",
			caller: session(suite.sender),
			req:    func() dto.TransferRequest { return transferRequest(suite.sender, suite.receiver, "1.005", "1.005") },
			want:   apperrors.ErrValidation,
		},
		{
			name:   "missing pin",
			caller: session(suite.sender),
			req: func() dto.TransferRequest {
				r := transferRequest(suite.sender, suite.receiver, "10", "10")
				r.Pin = ""
				return r
			},
			want: apperrors.ErrValidation,
		},
		{
			name:   "pin beyond bcrypt limit",
			caller: session(suite.sender),
			req: func() dto.TransferRequest {
				r := transferRequest(suite.sender, suite.receiver, "10", "10")
				r.Pin = strings.Repeat("7", 80)
				return r
			},
			want: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Transfer(context.Background(), tt.caller, tt.req(), "")
			suite.ErrorIs(err, tt.want)
			suite.assertBalance(suite.sender.AccountID, 40)
			suite.assertBalance(suite.receiver.AccountID, 0)
		})
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_RepositoryOutcomes() {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"failed commit", fmt.Errorf("%w: commit failed", apperrors.ErrIndeterminate), apperrors.ErrIndeterminate},
		{"deadline during unit of work", context.DeadlineExceeded, apperrors.ErrIndeterminate},
		{"storage fault", errors.New("connection reset"), apperrors.ErrUnavailable},
		{"stale precondition", fmt.Errorf("%w: account", apperrors.ErrInsufficientFunds), apperrors.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			transferRepo := new(MockTransferRepository)
			transferRepo.On("RunInTransfer", mock.Anything, []string{suite.sender.AccountID, suite.receiver.AccountID}, mock.Anything).Return(tt.repoErr).Once()
			svc := services.NewLedgerService(suite.store, transferRepo, suite.credentials)

			_, err := svc.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "10", "10"), "")

			suite.ErrorIs(err, tt.want)
			transferRepo.AssertExpectations(suite.T())
		})
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_TimeoutIsIndeterminate() {
	transferRepo := new(MockTransferRepository)
	transferRepo.On("RunInTransfer", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()
	svc := services.NewLedgerService(suite.store, transferRepo, suite.credentials, services.WithTransferTimeout(20*time.Millisecond))

	_, err := svc.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "10", "10"), "")

	suite.ErrorIs(err, apperrors.ErrIndeterminate)
}

func (suite *LedgerServiceTestSuite) TestGetTransferStatus() {
	created, err := suite.service.Transfer(context.Background(), session(suite.sender), transferRequest(suite.sender, suite.receiver, "10", "10"), "status-key")
	suite.Require().NoError(err)

	found, err := suite.service.GetTransferStatus(context.Background(), session(suite.sender), "status-key")
	suite.Require().NoError(err)
	suite.Equal(created.TransferID, found.TransferID)

	// Keys are scoped to the sender.
	_, err = suite.service.GetTransferStatus(context.Background(), session(suite.receiver), "status-key")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.GetTransferStatus(context.Background(), session(suite.sender), "never-used")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.GetTransferStatus(context.Background(), session(suite.sender), " ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
