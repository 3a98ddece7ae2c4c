package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the approval state of an account.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
)

// AccountRole determines the signup grant of an account.
type AccountRole string

const (
	RoleUser  AccountRole = "User"
	RoleAgent AccountRole = "Agent"
)

var (
	userSignupGrant  = decimal.NewFromInt(40)
	agentSignupGrant = decimal.NewFromInt(10000)
)

// InitialBalanceFor returns the balance granted at registration for the given role.
// Unknown roles get nothing.
func InitialBalanceFor(role AccountRole) decimal.Decimal {
	switch role {
	case RoleUser:
		return userSignupGrant
	case RoleAgent:
		return agentSignupGrant
	default:
		return decimal.Zero
	}
}

// CanTransitionTo reports whether an administrator may move an account from s to next.
// Only pending accounts can be decided, and only once.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

// Account represents a wallet account within the core domain.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	Name           string          `json:"name"`
	CredentialHash string          `json:"-"` // bcrypt hash of the PIN, never serialized
	ContactNumber  string          `json:"contactNumber"`
	Email          string          `json:"email"`
	Balance        decimal.Decimal `json:"balance"`
	Status         AccountStatus   `json:"status"`
	Role           AccountRole     `json:"role"`
	AuditFields
}

// IsApproved reports whether the account may log in and take part in transfers.
func (a Account) IsApproved() bool {
	return a.Status == StatusApproved
}
