package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys for domain events.
const (
	EventAccountRegistered = "account.registered"
	EventTransferCompleted = "transfer.completed"
)

// AccountRegisteredEvent is published after a new account is persisted.
type AccountRegisteredEvent struct {
	AccountID string        `json:"account_id"`
	Role      AccountRole   `json:"role"`
	Status    AccountStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// TransferCompletedEvent is published after a transfer commits.
type TransferCompletedEvent struct {
	TransferID  string          `json:"transfer_id"`
	SenderID    string          `json:"sender_id"`
	ReceiverID  string          `json:"receiver_id"`
	Amount      decimal.Decimal `json:"amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Timestamp   time.Time       `json:"timestamp"`
}
