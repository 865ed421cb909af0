// Package crypto provides the token cipher used to encrypt refresh tokens
// before they reach durable storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// Ensure AESCipher implements the interface.
var _ driven.TokenCipher = (*AESCipher)(nil)

// AESCipher encrypts secrets with AES-256-GCM. The nonce is generated per
// encryption and prepended to the ciphertext; output is base64url.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher derives a 256-bit key from the given secret and returns a
// ready cipher. The secret must be non-empty.
func NewAESCipher(secret string) (*AESCipher, error) {
	if secret == "" {
		return nil, errors.New("cipher secret must not be empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &AESCipher{aead: aead}, nil
}

// Encrypt returns base64url(nonce || sealed) for plaintext.
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Fails on tampered or foreign ciphertext.
func (c *AESCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plaintext), nil
}
