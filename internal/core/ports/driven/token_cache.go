package driven

import "time"

// Clock abstracts time.Now so expiry-margin logic is testable without a
// real clock.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// TokenCache holds short-lived access tokens in volatile storage.
// Access tokens must never reach durable storage; this cache is the only
// place they live between uses.
type TokenCache interface {
	// Get returns the cached token for key, or false if absent or expired.
	Get(key string) (string, bool)

	// Set caches a token until ttl elapses. A non-positive ttl is a no-op.
	Set(key, token string, ttl time.Duration)

	// Delete drops the cached token for key.
	Delete(key string)
}
