package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken returns a hex string carrying n bytes of entropy.
// Hex keeps the result URL-safe without escaping.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
