package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync run is already active for a destination.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrDestinationUnsupported indicates an unknown destination name.
	ErrDestinationUnsupported = errors.New("unsupported destination")

	// Authentication Errors.

	// ErrReauthRequired indicates no usable refresh token exists or the
	// provider rejected it. The external consent flow must be re-run;
	// nothing inside the engine can recover from this.
	ErrReauthRequired = errors.New("reauthorization required")

	// ErrAuthStateMismatch indicates the OAuth state nonce returned by the
	// provider does not match the one issued for this flow.
	ErrAuthStateMismatch = errors.New("oauth state mismatch")

	// ErrTokenExchangeFailed indicates the authorization-code exchange was
	// rejected (expired code, already used, mismatched redirect URI).
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// Destination Errors.

	// ErrNotConfigured indicates a destination is missing required settings
	// (catalog/account identifier or credentials). Surfaced before any
	// network call so a config problem is never mistaken for a transient
	// network failure.
	ErrNotConfigured = errors.New("destination not configured")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
