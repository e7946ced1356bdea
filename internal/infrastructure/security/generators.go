// Package security provides credential hashing, token, and identifier
// utilities for the storefront.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateAccountID produces a directory identifier for a new account.
func GenerateAccountID() string {
	return "user_" + ulid.Make().String()
}

// GenerateOrderNumber produces a customer-facing order number.
func GenerateOrderNumber() string {
	return "PED-" + ulid.Make().String()
}

// GenerateSecureToken generates a cryptographically secure random token suitable for URLs.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
