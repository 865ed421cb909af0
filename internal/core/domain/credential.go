package domain

import "time"

// AppIdentity selects which OAuth application a destination connection uses.
// The two identities are fully independent credential namespaces: the same
// destination connected through the platform app and through a custom app
// holds two unrelated refresh tokens.
type AppIdentity string

const (
	// AppIdentityPlatform uses the platform's shared OAuth application.
	AppIdentityPlatform AppIdentity = "platform"
	// AppIdentityCustom uses the merchant's own OAuth application.
	AppIdentityCustom AppIdentity = "custom"
)

// IsValid returns true if the identity is a known value.
func (a AppIdentity) IsValid() bool {
	return a == AppIdentityPlatform || a == AppIdentityCustom
}

// OAuthCredential is per-destination-and-app-identity secret state.
//
// Only RefreshToken is ever durably persisted, and only in encrypted form.
// AccessToken lives exclusively in a volatile short-TTL cache.
// RefreshToken must never be logged or returned to any caller outside the
// token manager.
type OAuthCredential struct {
	// AccessToken is the opaque short-lived bearer token.
	AccessToken string `json:"access_token"`
	// RefreshToken is the opaque long-lived token used to mint new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresAt is the absolute expiry of AccessToken.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the access token is past its expiry at the
// given instant. A zero expiry is treated as non-expiring.
func (c *OAuthCredential) IsExpired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}

// HasRefreshToken returns true if a refresh token is available.
func (c *OAuthCredential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// String renders the credential with secrets redacted. Implements
// fmt.Stringer so an accidental log of the struct leaks nothing.
func (c OAuthCredential) String() string {
	return "OAuthCredential{access_token:REDACTED refresh_token:REDACTED expires_at:" +
		c.ExpiresAt.Format(time.RFC3339) + "}"
}

// OAuthAppConfig holds the OAuth application settings for one destination
// and app identity: the client credentials plus the provider endpoints.
type OAuthAppConfig struct {
	// ClientID is the OAuth client ID from the provider's developer console.
	ClientID string `json:"client_id"`
	// ClientSecret is the OAuth client secret.
	ClientSecret string `json:"client_secret"`
	// AuthURL is the provider's authorization (consent) endpoint.
	AuthURL string `json:"auth_url"`
	// TokenURL is the provider's token exchange/refresh endpoint.
	TokenURL string `json:"token_url"`
	// RedirectURI is the callback URI registered with the provider.
	RedirectURI string `json:"redirect_uri"`
	// Scopes are the OAuth scopes to request.
	Scopes []string `json:"scopes,omitempty"`
}

// IsComplete returns true if the config carries everything the consent and
// refresh flows need.
func (c *OAuthAppConfig) IsComplete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.AuthURL != "" && c.TokenURL != ""
}
