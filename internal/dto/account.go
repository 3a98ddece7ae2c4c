package dto

import (
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the data needed to register a new account. PINs are 4 to 12 digits.
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Pin           string `json:"pin" binding:"required,number,min=4,max=12"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Role          string `json:"role" binding:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	AccountID string               `json:"accountID"`
	Status    domain.AccountStatus `json:"status"`
}

// LoginRequest accepts either an email or a mobile number; email wins if both are set.
type LoginRequest struct {
	Email        string `json:"email" binding:"omitempty,email"`
	MobileNumber string `json:"mobileNumber" binding:"required_without=Email"`
	Pin          string `json:"pin" binding:"required,number,min=4,max=12"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

// AccountResponse is the public projection of an account. It never carries the
// credential hash.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Name          string               `json:"name"`
	ContactNumber string               `json:"contactNumber"`
	Email         string               `json:"email"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	Role          domain.AccountRole   `json:"role"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// UpdateAccountStatusRequest is the administrative approval payload.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=approved rejected"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		ContactNumber: acc.ContactNumber,
		Email:         acc.Email,
		Balance:       acc.Balance,
		Status:        acc.Status,
		Role:          acc.Role,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToLoginResponse converts a domain.LoginResult to LoginResponse DTO
func ToLoginResponse(res *domain.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   ToAccountResponse(res.Account),
	}
}
