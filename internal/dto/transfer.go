package dto

import (
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest is the peer-to-peer transfer payload. Amount is what the receiver gets,
// TotalAmount is what the sender pays (amount plus fee).
type TransferRequest struct {
	SenderID              string          `json:"senderId" binding:"required"`
	ReceiverContactNumber string          `json:"receiverContactNumber" binding:"required"`
	Amount                decimal.Decimal `json:"amount"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Pin                   string          `json:"pin" binding:"required,number,min=4,max=12"`
}

// TransferResponse acknowledges a committed transfer. It deliberately carries no balances.
type TransferResponse struct {
	TransferID     string                `json:"transferID"`
	IdempotencyKey string                `json:"idempotencyKey,omitempty"`
	Status         domain.TransferStatus `json:"status"`
	Amount         decimal.Decimal       `json:"amount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ToTransferResponse converts a domain.Transfer to TransferResponse DTO
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:     t.TransferID,
		IdempotencyKey: t.IdempotencyKey,
		Status:         t.Status,
		Amount:         t.Amount,
		TotalAmount:    t.TotalAmount,
		CreatedAt:      t.CreatedAt,
	}
}
