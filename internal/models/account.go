package models

import (
	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	Name           string          `db:"name"`
	CredentialHash string          `db:"credential_hash"`
	ContactNumber  string          `db:"contact_number"`
	Email          string          `db:"email"`
	Balance        decimal.Decimal `db:"balance"` // NUMERIC(20,2), CHECK (balance >= 0)
	Status         string          `db:"status"`
	Role           string          `db:"role"`
	AuditFields
}
