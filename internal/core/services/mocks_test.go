package services_test

import (
	"context"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByContact(ctx context.Context, contactNumber string) (*domain.Account, error) {
	args := m.Called(ctx, contactNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error {
	args := m.Called(ctx, accountID, from, to, now)
	return args.Error(0)
}

// MockTransferRepository is a mock type for the TransferRepositoryFacade interface
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) RunInTransfer(ctx context.Context, accountIDs []string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	args := m.Called(ctx, accountIDs, fn)
	return args.Error(0)
}

func (m *MockTransferRepository) FindTransferByIdempotencyKey(ctx context.Context, senderID, idempotencyKey string) (*domain.Transfer, error) {
	args := m.Called(ctx, senderID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// MockSessionIssuer is a mock type for the SessionIssuer interface
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) IssueSession(ctx context.Context, claims domain.SessionClaims) (string, time.Time, error) {
	args := m.Called(ctx, claims)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockSessionIssuer) VerifySession(ctx context.Context, token string) (*domain.SessionClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionClaims), args.Error(1)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {}
