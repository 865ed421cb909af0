package driven

// TokenCipher encrypts secrets before they reach durable storage and
// decrypts them on the way back. Refresh tokens only ever cross the
// CredentialStore boundary through a TokenCipher.
type TokenCipher interface {
	// Encrypt returns an opaque ciphertext string for plaintext.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt. Fails on tampered or foreign ciphertext.
	Decrypt(ciphertext string) (string, error)
}
