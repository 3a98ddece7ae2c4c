package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	credentials portssvc.CredentialVerifier
	sessions    portssvc.SessionIssuer
	publisher   portssvc.EventPublisher
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountEventPublisher adds the domain event publisher.
func WithAccountEventPublisher(publisher portssvc.EventPublisher) AccountServiceOption {
	return func(s *accountService) {
		s.publisher = publisher
	}
}

// WithAccountClock overrides the time source.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(
	repo portsrepo.AccountRepositoryFacade,
	credentials portssvc.CredentialVerifier,
	sessions portssvc.SessionIssuer,
	options ...AccountServiceOption,
) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		credentials: credentials,
		sessions:    sessions,
		now:         time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Both natural keys are looked up; the email conflict is reported first.
	emailTaken, err := s.exists(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accountRepo.FindAccountByEmail(ctx, req.Email)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to look up account by email")
		return nil, err
	}
	contactTaken, err := s.exists(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accountRepo.FindAccountByContact(ctx, req.ContactNumber)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to look up account by contact number")
		return nil, err
	}
	if emailTaken {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	if contactTaken {
		return nil, fmt.Errorf("%w: contact number already registered", apperrors.ErrDuplicate)
	}

	hash, err := s.credentials.Hash(req.Pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to hash pin")
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	now := s.now().UTC()
	role := domain.AccountRole(req.Role)
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		CredentialHash: hash,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		Balance:        domain.InitialBalanceFor(role),
		Status:         domain.StatusPending,
		Role:           role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)))

	s.publishEvent(ctx, s.publisher, domain.EventAccountRegistered, domain.AccountRegisteredEvent{
		AccountID: account.AccountID,
		Role:      account.Role,
		Status:    account.Status,
		Timestamp: now,
	})

	return &account, nil
}

func (s *accountService) Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		account *domain.Account
		err     error
	)
	if req.Email != "" {
		account, err = retryRead(ctx, func(ctx context.Context) (*domain.Account, error) {
			return s.accountRepo.FindAccountByEmail(ctx, req.Email)
		})
	} else {
		account, err = retryRead(ctx, func(ctx context.Context) (*domain.Account, error) {
			return s.accountRepo.FindAccountByContact(ctx, req.MobileNumber)
		})
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up account for login")
		}
		return nil, err
	}

	if !account.IsApproved() {
		s.LogWarn(ctx, "Login attempt on account that is not approved",
			slog.String("account_id", account.AccountID),
			slog.String("status", string(account.Status)))
		return nil, fmt.Errorf("%w: account is %s", apperrors.ErrForbidden, account.Status)
	}

	if !s.credentials.Verify(req.Pin, account.CredentialHash) {
		s.LogWarn(ctx, "Pin mismatch on login", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.sessions.IssueSession(ctx, domain.SessionClaims{
		AccountID: account.AccountID,
		Role:      account.Role,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to issue session", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account logged in", slog.String("account_id", account.AccountID))
	return &domain.LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := retryRead(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accountRepo.FindAccountByID(ctx, accountID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	if !domain.StatusPending.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: status must be approved or rejected", apperrors.ErrValidation)
	}

	err := s.accountRepo.UpdateAccountStatus(ctx, accountID, domain.StatusPending, status, s.now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update account status", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account status updated",
		slog.String("account_id", accountID),
		slog.String("status", string(status)))
	return s.GetAccountByID(ctx, accountID)
}

// exists runs a point lookup and maps ErrNotFound to false.
func (s *accountService) exists(ctx context.Context, find func(ctx context.Context) (*domain.Account, error)) (bool, error) {
	_, err := retryRead(ctx, find)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
