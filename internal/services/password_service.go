package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	MaxSecretLength = 72 // Bcrypt algorithm limitation
)

var (
	ErrSecretEmpty   = errors.New("secret cannot be empty")
	ErrSecretTooLong = fmt.Errorf("secret must not exceed %d bytes", MaxSecretLength)
)

// PasswordService hashes and verifies user secrets with bcrypt. Length and
// content rules live in the validation package.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a password service; costs outside bcrypt's range fall back to the default
func NewPasswordService(cost int) PasswordServiceInterface {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBCryptCost
	}
	return &PasswordService{
		cost: cost,
	}
}

// HashPassword hashes a secret with a random salt
func (ps *PasswordService) HashPassword(secret string) (string, error) {
	if secret == "" {
		return "", ErrSecretEmpty
	}

	if len(secret) > MaxSecretLength {
		return "", ErrSecretTooLong
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword reports whether secret matches hash
func (ps *PasswordService) ComparePassword(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}
