package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the row shape of the transfers table.
type Transfer struct {
	TransferID            string          `db:"transfer_id"`
	IdempotencyKey        sql.NullString  `db:"idempotency_key"` // NULL when the client sent none
	SenderID              string          `db:"sender_id"`
	ReceiverID            string          `db:"receiver_id"`
	ReceiverContactNumber string          `db:"receiver_contact_number"`
	Amount                decimal.Decimal `db:"amount"`
	TotalAmount           decimal.Decimal `db:"total_amount"`
	Status                string          `db:"status"`
	CreatedAt             time.Time       `db:"created_at"`
}
