package services

import (
	"context"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
)

// TransferSvc defines the peer-to-peer transfer protocol.
type TransferSvc interface {
	// Transfer moves req.TotalAmount out of the caller's account and req.Amount into the
	// receiver's account atomically. An empty idempotencyKey means every call is a new
	// transfer.
	Transfer(ctx context.Context, caller domain.SessionClaims, req dto.TransferRequest, idempotencyKey string) (*domain.Transfer, error)
}

// TransferStatusSvc defines transfer lookups used after an indeterminate outcome.
type TransferStatusSvc interface {
	// GetTransferStatus returns the committed transfer the caller sent with the key.
	GetTransferStatus(ctx context.Context, caller domain.SessionClaims, idempotencyKey string) (*domain.Transfer, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	TransferSvc
	TransferStatusSvc
}
