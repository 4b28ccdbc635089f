package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionTTL is how long an issued bearer token stays valid.
const SessionTTL = 30 * 24 * time.Hour

// NewToken returns a 64-character hex bearer token from 32 bytes of
// crypto randomness. The token is opaque: nothing downstream parses it.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
