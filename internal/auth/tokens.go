package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken creates a cryptographically random token encoded as
// 64 hex characters. Used for password reset and email verification links.
func GenerateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
