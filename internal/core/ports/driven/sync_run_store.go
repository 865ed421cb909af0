package driven

import (
	"context"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// SyncRunStore persists the history of full-sync runs.
type SyncRunStore interface {
	// Record saves a completed run, replacing any run with the same ID.
	Record(ctx context.Context, run domain.SyncRun) error

	// Latest returns the most recently started run for the destination.
	// Returns domain.ErrNotFound when the destination has never synced.
	Latest(ctx context.Context, destination string) (*domain.SyncRun, error)

	// History returns up to limit runs for the destination, newest first.
	History(ctx context.Context, destination string, limit int) ([]domain.SyncRun, error)
}
