package driven

import (
	"context"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// RateLimits describes a destination's request pacing and batch sizing.
type RateLimits struct {
	// RequestsPerSecond is the provider's request-level rate limit.
	// A batch call counts as one request regardless of its item count.
	RequestsPerSecond int
	// BatchSize is the maximum number of records per provider call.
	BatchSize int
}

// DestinationAdapter pushes feed records to one third-party catalog service.
// Each destination (shopping, social, pins) implements this interface.
//
// Validation and transport failures never surface as errors from the sync
// methods: they are folded into SyncResult/BatchResult so callers treat
// both as "this record did not sync". Only authentication failures that
// require the external consent flow escape, wrapped as
// domain.ErrReauthRequired.
type DestinationAdapter interface {
	// Name returns the stable destination identifier.
	Name() string

	// DisplayName returns the human-readable label.
	DisplayName() string

	// IsConnected performs a lightweight authenticated probe to confirm
	// the credentials are valid right now. Returns false without a network
	// call when required settings are absent, so a configuration problem
	// is never reported as a transient network failure.
	IsConnected(ctx context.Context) (bool, error)

	// Validate checks a record against this destination's schema.
	// Pure; must be callable without network access. Returns every
	// violated rule, not just the first.
	Validate(record domain.FeedRecord) (bool, []string)

	// SyncOne pushes a single record.
	SyncOne(ctx context.Context, record domain.FeedRecord) domain.SyncResult

	// SyncBatch pushes up to RateLimits().BatchSize records in one
	// provider call. Given more, the adapter sub-chunks itself; the
	// orchestrator is expected to have chunked already.
	SyncBatch(ctx context.Context, records []domain.FeedRecord) domain.BatchResult

	// UpdateStock pushes an availability change for one record.
	UpdateStock(ctx context.Context, recordID string, availability domain.Availability) domain.SyncResult

	// DeleteRecord removes one record from the destination catalog.
	DeleteRecord(ctx context.Context, recordID string) domain.SyncResult

	// ProductCount returns the destination catalog's item count.
	// Best effort; may return a cached value.
	ProductCount(ctx context.Context) (int, error)

	// RateLimits returns the destination's pacing constraints.
	RateLimits() RateLimits
}
