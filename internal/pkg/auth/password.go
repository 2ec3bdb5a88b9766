package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used outside tests
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher creates a hasher; cost <= 0 selects DefaultBcryptCost
func NewPasswordHasher(cost int) PasswordHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash returns the bcrypt hash of password
func (h PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hashed. Malformed hashes never match.
func (h PasswordHasher) Verify(hashed, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
