package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the state of a recorded transfer. Only committed transfers are
// recorded, so the journal never holds anything but completed rows today.
type TransferStatus string

const (
	TransferCompleted TransferStatus = "completed"
)

// Transfer is the journal record written in the same unit of work as the balance changes.
type Transfer struct {
	TransferID            string          `json:"transferID"`
	IdempotencyKey        string          `json:"idempotencyKey,omitempty"` // Optional, unique per sender
	SenderID              string          `json:"senderID"`
	ReceiverID            string          `json:"receiverID"`
	ReceiverContactNumber string          `json:"receiverContactNumber"`
	Amount                decimal.Decimal `json:"amount"`      // Credited to the receiver
	TotalAmount           decimal.Decimal `json:"totalAmount"` // Debited from the sender
	Status                TransferStatus  `json:"status"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// Fee is the part of the debit that is not credited to the receiver.
func (t Transfer) Fee() decimal.Decimal {
	return t.TotalAmount.Sub(t.Amount)
}

// SameRequest reports whether other describes the same transfer request as t.
// Used to decide whether a reused idempotency key is a replay or a conflict.
func (t Transfer) SameRequest(other Transfer) bool {
	return t.SenderID == other.SenderID &&
		t.ReceiverContactNumber == other.ReceiverContactNumber &&
		t.Amount.Equal(other.Amount) &&
		t.TotalAmount.Equal(other.TotalAmount)
}
