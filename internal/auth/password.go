// Package auth covers credential handling: password hashing, Google
// ID-token verification, and opaque session tokens. It never touches
// storage; the transport layer wires verified identities to the user
// store.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

// ErrInvalidCredentials is returned for any failed login attempt. It
// deliberately does not say which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// bcrypt operates on at most 72 bytes of input.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// HashPassword validates length bounds and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", core.NewValidationError("password", "too short (min 8 characters)")
	}
	if len(password) > maxPasswordLen {
		return "", core.NewValidationError("password", "too long (max 72 characters)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. An
// empty hash (OAuth-only account) never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
