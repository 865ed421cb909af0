package driven

import "context"

// CredentialStore durably persists opaque key/value settings and encrypted
// secrets. Values stored through it are already encrypted where they are
// sensitive; the store itself does not dictate the storage engine.
type CredentialStore interface {
	// Get retrieves a value. The second return is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
