package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenCache_SetAndGet(t *testing.T) {
	clock := newFakeClock()
	cache := NewTokenCacheWithClock(clock)

	cache.Set("shopping:platform", "access-token", time.Hour)

	token, ok := cache.Get("shopping:platform")
	assert.True(t, ok)
	assert.Equal(t, "access-token", token)
}

func TestTokenCache_ExpiresWithClock(t *testing.T) {
	clock := newFakeClock()
	cache := NewTokenCacheWithClock(clock)

	cache.Set("k", "token", time.Hour)

	clock.Advance(59 * time.Minute)
	_, ok := cache.Get("k")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestTokenCache_NonPositiveTTLIsNoop(t *testing.T) {
	cache := NewTokenCacheWithClock(newFakeClock())

	cache.Set("k", "token", 0)
	_, ok := cache.Get("k")
	assert.False(t, ok)

	cache.Set("k", "token", -time.Minute)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestTokenCache_Delete(t *testing.T) {
	cache := NewTokenCacheWithClock(newFakeClock())

	cache.Set("k", "token", time.Hour)
	cache.Delete("k")

	_, ok := cache.Get("k")
	assert.False(t, ok)
}

func TestTokenCache_IndependentKeys(t *testing.T) {
	cache := NewTokenCacheWithClock(newFakeClock())

	cache.Set("shopping:platform", "t1", time.Hour)
	cache.Set("shopping:custom", "t2", time.Hour)

	t1, _ := cache.Get("shopping:platform")
	t2, _ := cache.Get("shopping:custom")
	assert.Equal(t, "t1", t1)
	assert.Equal(t, "t2", t2)
}

func TestTokenCache_DefaultClock(t *testing.T) {
	cache := NewTokenCache()
	cache.Set("k", "token", time.Hour)

	token, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "token", token)
}

var _ driven.Clock = (*fakeClock)(nil)
