package driven

import "context"

// TokenManager owns the OAuth2 authorization-code/refresh-token lifecycle
// for one destination and app identity. Implementations cache short-lived
// access tokens, refresh on expiry, and persist only the encrypted
// long-lived refresh token.
//
// State machine: Unauthorized -> Authorized -> (Expired -> Refreshing ->
// Authorized) -> Revoked.
type TokenManager interface {
	// AuthorizationURL builds the provider's consent URL with a CSRF state
	// nonce. The caller redirects the user and later delivers the returned
	// authorization code together with the state.
	AuthorizationURL() (url, state string, err error)

	// ExchangeCode performs the one-time authorization-code exchange and
	// persists the resulting credential. Fails with
	// domain.ErrTokenExchangeFailed if the provider rejects the code and
	// domain.ErrAuthStateMismatch if the state nonce does not match.
	ExchangeCode(ctx context.Context, code, state string) error

	// GetValidAccessToken returns a cached non-expired access token, or
	// refreshes through the persisted refresh token. Fails with
	// domain.ErrReauthRequired when no refresh token exists or the
	// provider rejects it; that error is the only signal that the external
	// consent flow must re-run.
	GetValidAccessToken(ctx context.Context) (string, error)

	// Disconnect destroys the persisted refresh token and the cached
	// access token. Idempotent.
	Disconnect(ctx context.Context) error

	// IsAuthorized reports whether a refresh token is on record, without
	// touching the network.
	IsAuthorized(ctx context.Context) (bool, error)
}
