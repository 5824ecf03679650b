package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecurePassword creates a random URL-safe password of the specified length
func GenerateSecurePassword(length int) (string, error) {
	// Ensure minimum length
	if length < 12 {
		length = 12
	}

	// base64 yields 4 characters per 3 bytes, so length bytes is always enough
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
