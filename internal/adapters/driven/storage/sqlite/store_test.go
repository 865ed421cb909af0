package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_CreatesDatabaseFile(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, "feedsync.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.CredentialStore().Set(ctx, "destinations.shopping.platform.refresh_token", "ciphertext"))
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations destructively.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.CredentialStore().Get(ctx, "destinations.shopping.platform.refresh_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ciphertext", value)
}

func TestCredentialStore_GetAbsentKey(t *testing.T) {
	store := setupTestStore(t)

	_, ok, err := store.CredentialStore().Get(context.Background(), "destinations.pins.platform.refresh_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialStore_SetOverwrites(t *testing.T) {
	store := setupTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Set(ctx, "destinations.social.platform.api_token", "first"))
	require.NoError(t, creds.Set(ctx, "destinations.social.platform.api_token", "second"))

	value, ok, err := creds.Get(ctx, "destinations.social.platform.api_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestCredentialStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Set(ctx, "destinations.shopping.custom.refresh_token", "ciphertext"))
	require.NoError(t, creds.Delete(ctx, "destinations.shopping.custom.refresh_token"))

	_, ok, err := creds.Get(ctx, "destinations.shopping.custom.refresh_token")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, creds.Delete(ctx, "destinations.shopping.custom.refresh_token"))
}

func TestCredentialStore_KeysAreIndependent(t *testing.T) {
	store := setupTestStore(t)
	creds := store.CredentialStore()
	ctx := context.Background()

	require.NoError(t, creds.Set(ctx, "destinations.shopping.platform.refresh_token", "shopping-platform"))
	require.NoError(t, creds.Set(ctx, "destinations.shopping.custom.refresh_token", "shopping-custom"))
	require.NoError(t, creds.Delete(ctx, "destinations.shopping.platform.refresh_token"))

	value, ok, err := creds.Get(ctx, "destinations.shopping.custom.refresh_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shopping-custom", value)
}

func TestSyncRunStore_RecordAndLatest(t *testing.T) {
	store := setupTestStore(t)
	runs := store.SyncRunStore()
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, runs.Record(ctx, domain.SyncRun{
		RunID:       "run-1",
		Destination: "shopping",
		StartedAt:   started,
		FinishedAt:  started.Add(time.Minute),
		Synced:      47,
		Failed:      3,
	}))
	require.NoError(t, runs.Record(ctx, domain.SyncRun{
		RunID:       "run-2",
		Destination: "shopping",
		StartedAt:   started.Add(time.Hour),
		FinishedAt:  started.Add(time.Hour + time.Minute),
		Synced:      50,
		Failed:      0,
	}))

	latest, err := runs.Latest(ctx, "shopping")
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.RunID)
	assert.Equal(t, 50, latest.Synced)
	assert.Equal(t, 0, latest.Failed)
}

func TestSyncRunStore_LatestNeverSynced(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SyncRunStore().Latest(context.Background(), "pins")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncRunStore_RecordUpdatesSameRun(t *testing.T) {
	store := setupTestStore(t)
	runs := store.SyncRunStore()
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, runs.Record(ctx, domain.SyncRun{
		RunID:       "run-1",
		Destination: "social",
		StartedAt:   started,
	}))
	require.NoError(t, runs.Record(ctx, domain.SyncRun{
		RunID:       "run-1",
		Destination: "social",
		StartedAt:   started,
		FinishedAt:  started.Add(30 * time.Second),
		Synced:      12,
		Failed:      1,
	}))

	history, err := runs.History(ctx, "social", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 12, history[0].Synced)
	assert.Equal(t, 1, history[0].Failed)
	assert.False(t, history[0].FinishedAt.IsZero())
}

func TestSyncRunStore_HistoryNewestFirstWithLimit(t *testing.T) {
	store := setupTestStore(t)
	runs := store.SyncRunStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, runs.Record(ctx, domain.SyncRun{
			RunID:       "run-" + string(rune('a'+i)),
			Destination: "shopping",
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			FinishedAt:  base.Add(time.Duration(i)*time.Hour + time.Minute),
		}))
	}

	history, err := runs.History(ctx, "shopping", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "run-e", history[0].RunID)
	assert.Equal(t, "run-d", history[1].RunID)
	assert.Equal(t, "run-c", history[2].RunID)
}

func TestSyncRunStore_DestinationsSeparate(t *testing.T) {
	store := setupTestStore(t)
	runs := store.SyncRunStore()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, runs.Record(ctx, domain.SyncRun{RunID: "run-1", Destination: "shopping", StartedAt: now}))
	require.NoError(t, runs.Record(ctx, domain.SyncRun{RunID: "run-2", Destination: "pins", StartedAt: now}))

	latest, err := runs.Latest(ctx, "pins")
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.RunID)
}
