package handlers_test

import (
	"context"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	args := m.Called(ctx, accountID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Transfer(ctx context.Context, caller domain.SessionClaims, req dto.TransferRequest, idempotencyKey string) (*domain.Transfer, error) {
	args := m.Called(ctx, caller, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockLedgerService) GetTransferStatus(ctx context.Context, caller domain.SessionClaims, idempotencyKey string) (*domain.Transfer, error) {
	args := m.Called(ctx, caller, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock SessionIssuer ---
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

var _ portssvc.SessionIssuer = (*MockSessionIssuer)(nil)
