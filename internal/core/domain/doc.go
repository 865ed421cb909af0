// Package domain defines the core business entities for feedsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FeedRecord: One product's exportable state for catalog destinations
//   - SyncResult / BatchResult: Per-record and aggregate sync outcomes
//   - OAuthCredential: Per-destination OAuth secret state
//   - DestinationType: A supported catalog destination
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
