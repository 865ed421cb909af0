package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOAuthCredential_IsExpired(t *testing.T) {
	now := time.Now()

	fresh := OAuthCredential{AccessToken: "at", ExpiresAt: now.Add(10 * time.Minute)}
	assert.False(t, fresh.IsExpired(now))

	stale := OAuthCredential{AccessToken: "at", ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, stale.IsExpired(now))

	// Zero expiry never expires
	open := OAuthCredential{AccessToken: "at"}
	assert.False(t, open.IsExpired(now))
}

func TestOAuthCredential_HasRefreshToken(t *testing.T) {
	assert.True(t, (&OAuthCredential{RefreshToken: "rt"}).HasRefreshToken())
	assert.False(t, (&OAuthCredential{}).HasRefreshToken())
}

func TestOAuthCredential_String_RedactsSecrets(t *testing.T) {
	c := OAuthCredential{
		AccessToken:  "super-secret-access",
		RefreshToken: "super-secret-refresh",
		ExpiresAt:    time.Now(),
	}

	rendered := fmt.Sprintf("%v", c)
	assert.NotContains(t, rendered, "super-secret-access")
	assert.NotContains(t, rendered, "super-secret-refresh")
	assert.Contains(t, rendered, "REDACTED")
}

func TestAppIdentity_IsValid(t *testing.T) {
	assert.True(t, AppIdentityPlatform.IsValid())
	assert.True(t, AppIdentityCustom.IsValid())
	assert.False(t, AppIdentity("shared").IsValid())
}

func TestOAuthAppConfig_IsComplete(t *testing.T) {
	complete := OAuthAppConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		AuthURL:      "https://auth.example.com/authorize",
		TokenURL:     "https://auth.example.com/token",
	}
	assert.True(t, complete.IsComplete())

	missing := complete
	missing.TokenURL = ""
	assert.False(t, missing.IsComplete())
}
