// Package auth implements the OAuth2 token lifecycle for catalog
// destinations: consent URL construction, one-time code exchange, cached
// access-token refresh, and disconnect.
//
// Only the refresh token is durably persisted, and only encrypted.
// Access tokens live exclusively in the volatile token cache, with a TTL
// shortened by a safety margin so the cache never hands out a token within
// seconds of real expiry.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

const (
	// tokenEndpointTimeout bounds every call to the provider's token endpoint.
	tokenEndpointTimeout = 15 * time.Second

	// refreshMargin is subtracted from the provider's token TTL before
	// caching, so a cached token is never handed out moments before it
	// really expires.
	refreshMargin = 5 * time.Minute

	// minCacheTTL is the floor applied after subtracting the margin, for
	// providers that issue very short-lived tokens.
	minCacheTTL = 30 * time.Second
)

// Ensure TokenManager implements the interface.
var _ driven.TokenManager = (*TokenManager)(nil)

// TokenManager owns the OAuth credential lifecycle for one destination and
// app identity. Two managers for the same destination under different app
// identities hold fully independent credential state.
type TokenManager struct {
	destination string
	identity    domain.AppIdentity
	app         domain.OAuthAppConfig

	store  driven.CredentialStore
	cipher driven.TokenCipher
	cache  driven.TokenCache
	audit  driven.AuditLogger
	client *http.Client

	// mu serialises refresh and the pending consent flow. A refresh in
	// flight must be de-duplicated: a second concurrent caller waits for
	// the first refresh instead of issuing a redundant request that could
	// invalidate the first one's token provider-side.
	mu              sync.Mutex
	pendingState    string
	pendingVerifier string
}

// NewTokenManager creates a token manager for one destination and app
// identity. Token expiry is tracked by the cache, which carries its own
// clock.
func NewTokenManager(
	destination string,
	identity domain.AppIdentity,
	app domain.OAuthAppConfig,
	store driven.CredentialStore,
	cipher driven.TokenCipher,
	cache driven.TokenCache,
	audit driven.AuditLogger,
) *TokenManager {
	return &TokenManager{
		destination: destination,
		identity:    identity,
		app:         app,
		store:       store,
		cipher:      cipher,
		cache:       cache,
		audit:       audit,
		client:      &http.Client{Timeout: tokenEndpointTimeout},
	}
}

// refreshTokenKey is the credential-store key holding the encrypted
// refresh token. The app identity is part of the key: platform-app and
// custom-app connections are separate credential namespaces.
func (m *TokenManager) refreshTokenKey() string {
	return fmt.Sprintf("destinations.%s.%s.refresh_token", m.destination, m.identity)
}

// cacheKey is the volatile-cache key for the access token.
func (m *TokenManager) cacheKey() string {
	return fmt.Sprintf("%s:%s", m.destination, m.identity)
}

// AuthorizationURL builds the provider's consent URL with a CSRF state
// nonce and a PKCE S256 challenge. The nonce must come back unchanged with
// the authorization code.
func (m *TokenManager) AuthorizationURL() (string, string, error) {
	if !m.app.IsComplete() {
		return "", "", fmt.Errorf("%w: %s oauth app config incomplete", domain.ErrNotConfigured, m.destination)
	}

	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	verifier, err := generateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("generate code verifier: %w", err)
	}

	m.mu.Lock()
	m.pendingState = state
	m.pendingVerifier = verifier
	m.mu.Unlock()

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", m.app.ClientID)
	params.Set("redirect_uri", m.app.RedirectURI)
	params.Set("state", state)
	params.Set("code_challenge", generateCodeChallenge(verifier))
	params.Set("code_challenge_method", "S256")
	if len(m.app.Scopes) > 0 {
		params.Set("scope", strings.Join(m.app.Scopes, " "))
	}

	return m.app.AuthURL + "?" + params.Encode(), state, nil
}

// ExchangeCode performs the one-time authorization-code exchange and
// persists the encrypted refresh token.
func (m *TokenManager) ExchangeCode(ctx context.Context, code, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pendingState == "" || state != m.pendingState {
		return fmt.Errorf("%w: %s", domain.ErrAuthStateMismatch, m.destination)
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", m.app.ClientID)
	data.Set("client_secret", m.app.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", m.app.RedirectURI)
	if m.pendingVerifier != "" {
		data.Set("code_verifier", m.pendingVerifier)
	}

	resp, err := m.callTokenEndpoint(ctx, data)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTokenExchangeFailed, err)
	}

	if err := m.persist(ctx, resp); err != nil {
		return err
	}

	m.pendingState = ""
	m.pendingVerifier = ""
	return nil
}

// GetValidAccessToken returns a cached, non-expired access token if
// present; otherwise it refreshes through the persisted refresh token.
// Concurrent callers share one refresh: the first takes the lock and
// refreshes, later callers find the fresh token on the double-check.
func (m *TokenManager) GetValidAccessToken(ctx context.Context) (string, error) {
	// Fast path: volatile cache.
	if token, ok := m.cache.Get(m.cacheKey()); ok {
		return token, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the lock: another caller may have
	// completed the refresh while this one waited.
	if token, ok := m.cache.Get(m.cacheKey()); ok {
		return token, nil
	}

	encrypted, ok, err := m.store.Get(ctx, m.refreshTokenKey())
	if err != nil {
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s has no stored refresh token", domain.ErrReauthRequired, m.destination)
	}

	refreshToken, err := m.cipher.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt refresh token: %w", err)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", m.app.ClientID)
	data.Set("client_secret", m.app.ClientSecret)

	resp, err := m.callTokenEndpoint(ctx, data)
	if err != nil {
		var rejected *tokenRejectedError
		if errors.As(err, &rejected) {
			// The provider revoked or no longer recognises the refresh
			// token. Only re-running the consent flow can recover.
			return "", fmt.Errorf("%w: %s refresh rejected (%s)", domain.ErrReauthRequired, m.destination, rejected.reason)
		}
		return "", fmt.Errorf("refresh token: %w", err)
	}

	if err := m.persist(ctx, resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Disconnect destroys the persisted refresh token and the cached access
// token. Idempotent.
func (m *TokenManager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Delete(m.cacheKey())
	m.pendingState = ""
	m.pendingVerifier = ""

	if err := m.store.Delete(ctx, m.refreshTokenKey()); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// IsAuthorized reports whether a refresh token is on record. No network.
func (m *TokenManager) IsAuthorized(ctx context.Context) (bool, error) {
	_, ok, err := m.store.Get(ctx, m.refreshTokenKey())
	if err != nil {
		return false, fmt.Errorf("load refresh token: %w", err)
	}
	return ok, nil
}

// persist caches the access token with a shortened TTL and stores the
// (possibly rotated) refresh token encrypted.
func (m *TokenManager) persist(ctx context.Context, resp *tokenResponse) error {
	ttl := time.Duration(resp.ExpiresIn)*time.Second - refreshMargin
	if ttl < minCacheTTL {
		ttl = minCacheTTL
	}
	m.cache.Set(m.cacheKey(), resp.AccessToken, ttl)

	if resp.RefreshToken != "" {
		encrypted, err := m.cipher.Encrypt(resp.RefreshToken)
		if err != nil {
			return fmt.Errorf("encrypt refresh token: %w", err)
		}
		if err := m.store.Set(ctx, m.refreshTokenKey(), encrypted); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	}
	return nil
}

// tokenResponse holds the provider's reply to an exchange or refresh call.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// tokenRejectedError marks a 400/401 from the token endpoint: the grant
// itself was refused, as opposed to a transport-level failure.
type tokenRejectedError struct {
	status int
	reason string
}

func (e *tokenRejectedError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.status, e.reason)
}

// callTokenEndpoint POSTs a form to the provider's token endpoint. The
// payload is never passed to the audit logger: it carries grant secrets.
func (m *TokenManager) callTokenEndpoint(ctx context.Context, data url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.app.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	m.audit.LogRequest(m.destination, http.MethodPost, m.app.TokenURL, nil)

	resp, err := m.client.Do(req)
	if err != nil {
		m.audit.LogError(m.destination, fmt.Sprintf("token request: %v", err))
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	m.audit.LogResponse(m.destination, resp.StatusCode, nil)

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		reason := fmt.Sprintf("status %d", resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			reason = fmt.Sprintf("%s - %s", errResp.Error, errResp.Description)
		}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, &tokenRejectedError{status: resp.StatusCode, reason: reason}
		}
		return nil, fmt.Errorf("token request failed: %s", reason)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &token, nil
}
