package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// Consent-flow nonce sizes, before base64url encoding. The verifier
// encodes to 86 characters, inside RFC 7636's 43-128 window.
const (
	verifierBytes = 64
	stateBytes    = 32
)

// generateState mints the CSRF nonce the destination must echo back with
// the authorization code.
func generateState() (string, error) {
	return randomToken(stateBytes)
}

// generateCodeVerifier mints the PKCE secret held until the code exchange.
func generateCodeVerifier() (string, error) {
	return randomToken(verifierBytes)
}

// generateCodeChallenge derives the S256 challenge sent on the consent URL.
func generateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomToken(size int) (string, error) {
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
