package memory

import (
	"sync"
	"time"

	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// Ensure TokenCache implements the interface.
var _ driven.TokenCache = (*TokenCache)(nil)

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// TokenCache is a volatile expiring key/value cache for access tokens.
// The clock is injected so expiry behaviour is testable without sleeping.
type TokenCache struct {
	mu     sync.RWMutex
	clock  driven.Clock
	tokens map[string]cachedToken
}

// NewTokenCache creates a token cache using the real clock.
func NewTokenCache() *TokenCache {
	return NewTokenCacheWithClock(driven.ClockFunc(time.Now))
}

// NewTokenCacheWithClock creates a token cache with an injected clock.
func NewTokenCacheWithClock(clock driven.Clock) *TokenCache {
	return &TokenCache{
		clock:  clock,
		tokens: make(map[string]cachedToken),
	}
}

// Get returns the cached token for key, or false if absent or expired.
// An expired entry is dropped on read.
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.tokens[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.tokens, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.token, true
}

// Set caches a token until ttl elapses. A non-positive ttl is a no-op.
func (c *TokenCache) Set(key, token string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[key] = cachedToken{token: token, expiresAt: c.clock.Now().Add(ttl)}
}

// Delete drops the cached token for key.
func (c *TokenCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, key)
}
