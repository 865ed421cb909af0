package driving

import (
	"context"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// ConnectionInfo summarises one destination's connection state.
type ConnectionInfo struct {
	// Name is the destination identifier.
	Name string
	// DisplayName is the human-readable label.
	DisplayName string
	// Connected is the result of the authenticated probe.
	Connected bool
	// ProductCount is the destination catalog's item count, -1 when unknown.
	ProductCount int
	// Limits are the destination's pacing constraints.
	RequestsPerSecond int
	// BatchSize is the destination's maximum records per call.
	BatchSize int
}

// ConnectionService manages destination credential lifecycles for the
// admin-facing surface. The consent redirect itself happens outside the
// engine; this service only hands out the URL and accepts the returned code.
type ConnectionService interface {
	// Destinations lists the supported destination types.
	Destinations() []domain.DestinationType

	// AuthorizationURL builds the consent URL for an OAuth destination.
	// The returned state nonce must come back with the authorization code.
	AuthorizationURL(ctx context.Context, destination string, identity domain.AppIdentity) (url, state string, err error)

	// CompleteConnection exchanges the authorization code delivered by the
	// consent flow and persists the resulting credential.
	CompleteConnection(ctx context.Context, destination string, identity domain.AppIdentity, code, state string) error

	// Disconnect destroys the persisted credential for a destination.
	// Idempotent.
	Disconnect(ctx context.Context, destination string, identity domain.AppIdentity) error

	// Inspect probes every configured destination and reports its state.
	Inspect(ctx context.Context) []ConnectionInfo
}
