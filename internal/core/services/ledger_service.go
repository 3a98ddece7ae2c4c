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
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
	"github.com/shopspring/decimal"
)

// MaxIdempotencyKeyLength bounds client supplied idempotency keys.
const MaxIdempotencyKeyLength = 255

const defaultTransferTimeout = 10 * time.Second

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	transferRepo portsrepo.TransferRepositoryFacade
	credentials  portssvc.CredentialVerifier
	publisher    portssvc.EventPublisher
	timeout      time.Duration
	now          func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerEventPublisher adds the domain event publisher.
func WithLedgerEventPublisher(publisher portssvc.EventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = publisher
	}
}

// WithTransferTimeout bounds the atomic step of a transfer.
func WithTransferTimeout(timeout time.Duration) LedgerServiceOption {
	return func(s *ledgerService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLedgerClock overrides the time source.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the transfer service.
func NewLedgerService(
	accountRepo portsrepo.AccountReader,
	transferRepo portsrepo.TransferRepositoryFacade,
	credentials portssvc.CredentialVerifier,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		credentials:  credentials,
		timeout:      defaultTransferTimeout,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) Transfer(ctx context.Context, caller domain.SessionClaims, req dto.TransferRequest, idempotencyKey string) (*domain.Transfer, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	req.SenderID = strings.TrimSpace(req.SenderID)
	req.ReceiverContactNumber = strings.TrimSpace(req.ReceiverContactNumber)
	if err := validateTransferRequest(req, idempotencyKey); err != nil {
		return nil, err
	}

	if caller.AccountID == "" || caller.AccountID != req.SenderID {
		s.LogWarn(ctx, "Transfer sender does not match session",
			slog.String("sender_id", req.SenderID))
		return nil, fmt.Errorf("%w: session does not own the sender account", apperrors.ErrForbidden)
	}

	sender, err := retryRead(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accountRepo.FindAccountByID(ctx, req.SenderID)
	})
	if err != nil {
		return nil, s.lookupError(ctx, err, "sender")
	}

	receiver, err := retryRead(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accountRepo.FindAccountByContact(ctx, req.ReceiverContactNumber)
	})
	if err != nil {
		return nil, s.lookupError(ctx, err, "receiver")
	}

	if receiver.AccountID == sender.AccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the sender account", apperrors.ErrValidation)
	}
	if !sender.IsApproved() || !receiver.IsApproved() {
		s.LogWarn(ctx, "Transfer endpoint not approved",
			slog.String("sender_status", string(sender.Status)),
			slog.String("receiver_status", string(receiver.Status)))
		return nil, fmt.Errorf("%w: both accounts must be approved", apperrors.ErrForbidden)
	}

	if !s.credentials.Verify(req.Pin, sender.CredentialHash) {
		s.LogWarn(ctx, "Pin mismatch on transfer", slog.String("sender_id", sender.AccountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	transfer := domain.Transfer{
		TransferID:            uuid.NewString(),
		IdempotencyKey:        idempotencyKey,
		SenderID:              sender.AccountID,
		ReceiverID:            receiver.AccountID,
		ReceiverContactNumber: req.ReceiverContactNumber,
		Amount:                req.Amount,
		TotalAmount:           req.TotalAmount,
		Status:                domain.TransferCompleted,
		CreatedAt:             s.now().UTC(),
	}

	if idempotencyKey != "" {
		existing, err := retryRead(ctx, func(ctx context.Context) (*domain.Transfer, error) {
			return s.transferRepo.FindTransferByIdempotencyKey(ctx, sender.AccountID, idempotencyKey)
		})
		switch {
		case err == nil:
			return s.resolveReplay(ctx, existing, transfer)
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to look up idempotency key")
			return nil, err
		}
	}

	// Stale read: the conditional debit below re-checks inside the atomic step.
	if sender.Balance.LessThan(req.TotalAmount) {
		return nil, fmt.Errorf("%w: balance below %s", apperrors.ErrInsufficientFunds, utils.FormatAmount(req.TotalAmount))
	}

	if err := s.commit(ctx, transfer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && idempotencyKey != "" {
			// A concurrent request with the same key won the race.
			existing, findErr := retryRead(ctx, func(ctx context.Context) (*domain.Transfer, error) {
				return s.transferRepo.FindTransferByIdempotencyKey(ctx, sender.AccountID, idempotencyKey)
			})
			if findErr != nil {
				s.LogError(ctx, findErr, "Failed to read transfer after key collision")
				return nil, fmt.Errorf("%w: idempotency key collision could not be resolved", apperrors.ErrIndeterminate)
			}
			return s.resolveReplay(ctx, existing, transfer)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("sender_id", transfer.SenderID),
		slog.String("receiver_id", transfer.ReceiverID),
		slog.String("amount", utils.FormatAmount(transfer.Amount)),
		slog.String("total_amount", utils.FormatAmount(transfer.TotalAmount)))

	s.publishEvent(ctx, s.publisher, domain.EventTransferCompleted, domain.TransferCompletedEvent{
		TransferID:  transfer.TransferID,
		SenderID:    transfer.SenderID,
		ReceiverID:  transfer.ReceiverID,
		Amount:      transfer.Amount,
		TotalAmount: transfer.TotalAmount,
		Timestamp:   transfer.CreatedAt,
	})

	return &transfer, nil
}

// commit runs the atomic step: record the transfer, debit the sender by the total and
// credit the receiver by the amount. It is never retried.
func (s *ledgerService) commit(ctx context.Context, transfer domain.Transfer) error {
	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.transferRepo.RunInTransfer(txCtx, []string{transfer.SenderID, transfer.ReceiverID},
		func(ctx context.Context, tx portsrepo.LedgerTx) error {
			if err := tx.SaveTransfer(ctx, transfer); err != nil {
				return err
			}
			if err := tx.AdjustBalance(ctx, transfer.SenderID, transfer.TotalAmount.Neg(), decimal.Zero); err != nil {
				return err
			}
			return tx.AdjustBalance(ctx, transfer.ReceiverID, transfer.Amount, decimal.Zero)
		})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrDuplicate):
		return err
	case errors.Is(err, apperrors.ErrIndeterminate):
		s.LogError(ctx, err, "Transfer outcome unknown", slog.String("transfer_id", transfer.TransferID))
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), txCtx.Err() != nil:
		s.LogError(ctx, err, "Transfer interrupted", slog.String("transfer_id", transfer.TransferID))
		return fmt.Errorf("%w: transfer interrupted: %v", apperrors.ErrIndeterminate, err)
	case errors.Is(err, apperrors.ErrUnavailable):
		s.LogError(ctx, err, "Transfer failed", slog.String("transfer_id", transfer.TransferID))
		return err
	default:
		s.LogError(ctx, err, "Transfer failed", slog.String("transfer_id", transfer.TransferID))
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
}

func (s *ledgerService) GetTransferStatus(ctx context.Context, caller domain.SessionClaims, idempotencyKey string) (*domain.Transfer, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
	}
	if caller.AccountID == "" {
		return nil, fmt.Errorf("%w: missing session", apperrors.ErrForbidden)
	}
	transfer, err := retryRead(ctx, func(ctx context.Context) (*domain.Transfer, error) {
		return s.transferRepo.FindTransferByIdempotencyKey(ctx, caller.AccountID, idempotencyKey)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up transfer status")
		}
		return nil, err
	}
	return transfer, nil
}

// resolveReplay returns the recorded transfer when the request matches it, and a
// conflict when the key was used for a different request.
func (s *ledgerService) resolveReplay(ctx context.Context, existing *domain.Transfer, candidate domain.Transfer) (*domain.Transfer, error) {
	if !existing.SameRequest(candidate) {
		s.LogWarn(ctx, "Idempotency key reused with different parameters",
			slog.String("transfer_id", existing.TransferID))
		return nil, fmt.Errorf("%w: idempotency key already used for a different transfer", apperrors.ErrConflict)
	}
	s.LogDebug(ctx, "Transfer replayed", slog.String("transfer_id", existing.TransferID))
	return existing, nil
}

func (s *ledgerService) lookupError(ctx context.Context, err error, role string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s account", err, role)
	}
	s.LogError(ctx, err, "Failed to look up transfer endpoint", slog.String("endpoint", role))
	return err
}

func validateTransferRequest(req dto.TransferRequest, idempotencyKey string) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if len(idempotencyKey) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key longer than %d characters", apperrors.ErrValidation, MaxIdempotencyKeyLength)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.TotalAmount.LessThan(req.Amount) {
		return fmt.Errorf("%w: totalAmount must be at least amount", apperrors.ErrValidation)
	}
	if !utils.HasValidScale(req.Amount) || !utils.HasValidScale(req.TotalAmount) {
		return fmt.Errorf("%w: amounts carry at most %d decimal places", apperrors.ErrValidation, utils.MoneyScale)
	}
	return nil
}
