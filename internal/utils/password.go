package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPin hashes a plaintext PIN using bcrypt with the given cost.
// Out of range costs fall back to bcrypt.DefaultCost.
func HashPin(pin string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	return string(hash), err
}

// CheckPinHash compares a plaintext PIN with a bcrypt hash.
func CheckPinHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
