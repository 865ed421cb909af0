package driving

import (
	"context"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// SyncStatus reports the live state of a sync run for one destination.
type SyncStatus struct {
	// RunID uniquely identifies the run.
	RunID string
	// Destination is the destination name.
	Destination string
	// Running is true while the run is active.
	Running bool
	// RecordsProcessed counts records attempted so far.
	RecordsProcessed int
	// FailedCount counts records that did not sync so far.
	FailedCount int
}

// SyncService drives sync runs across destinations.
type SyncService interface {
	// RunFullSync pushes all records to one destination, chunked and paced
	// to its rate limits. A failed run is a normal return value: per-record
	// failures land in the BatchResult. Only auth failures requiring the
	// consent flow return an error (domain.ErrReauthRequired), alongside
	// domain.ErrSyncInProgress for overlapping runs.
	RunFullSync(ctx context.Context, destination string, records []domain.FeedRecord) (domain.BatchResult, error)

	// RunFullSyncAll syncs every configured destination concurrently.
	// Results are keyed by destination name.
	RunFullSyncAll(ctx context.Context, records []domain.FeedRecord) (map[string]domain.BatchResult, error)

	// RunStockUpdate pushes a single availability change, bypassing batching.
	RunStockUpdate(ctx context.Context, destination, recordID string, availability domain.Availability) (domain.SyncResult, error)

	// RunDelete removes a single record from a destination, bypassing batching.
	RunDelete(ctx context.Context, destination, recordID string) (domain.SyncResult, error)

	// Status returns the live status for a destination, or an idle status
	// when no run is active.
	Status(destination string) SyncStatus
}
