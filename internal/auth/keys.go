// Package auth provides password hashing and token issuance.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
	// Hex-encoded length (32 bytes = 64 hex characters).
	keyHexLength = 64
)

// LoadOrGenerateKey loads or generates the PASETO v4 symmetric key for
// access tokens. The key is stored in <dataPath>/auth.key as a hex-encoded
// string; a new key is generated and saved if the file doesn't exist.
// Returns the hex-encoded key.
func LoadOrGenerateKey(dataPath string) (string, error) {
	keyPath := filepath.Join(dataPath, "auth.key")

	if keyBytes, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(keyBytes))

		if len(keyHex) != keyHexLength {
			return "", fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
		}
		if _, err := hex.DecodeString(keyHex); err != nil {
			return "", fmt.Errorf("invalid auth key format: not valid hex: %w", err)
		}

		return keyHex, nil
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate auth key: %w", err)
	}
	keyHex := hex.EncodeToString(key)

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("save auth key: %w", err)
	}

	return keyHex, nil
}
