package driven

import (
	"context"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// RecordSource yields the host store's normalized feed records for a sync
// run. The engine only requires an iterable of records; feed generation
// itself is the source's concern.
type RecordSource interface {
	// Records returns the records for this run, in stable order.
	Records(ctx context.Context) ([]domain.FeedRecord, error)
}
