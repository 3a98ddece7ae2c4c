package services

import (
	"errors"
	"fmt"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCredentialVerifier hashes PINs with bcrypt.
type bcryptCredentialVerifier struct {
	cost int
}

// NewCredentialVerifier returns a bcrypt backed CredentialVerifier using cost.
func NewCredentialVerifier(cost int) portssvc.CredentialVerifier {
	return &bcryptCredentialVerifier{cost: cost}
}

func (v *bcryptCredentialVerifier) Hash(secret string) (string, error) {
	hash, err := utils.HashPin(secret, v.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: pin is too long", apperrors.ErrValidation)
	}
	return hash, err
}

func (v *bcryptCredentialVerifier) Verify(secret, hash string) bool {
	if hash == "" {
		return false
	}
	return utils.CheckPinHash(secret, hash)
}
