package services

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// --- Mock destination adapter ---

// mockAdapter implements driven.DestinationAdapter for orchestrator tests.
// It records every batch it is asked to push so tests can count provider
// calls and inspect chunk sizes.
type mockAdapter struct {
	name       string
	limits     driven.RateLimits
	validateFn func(domain.FeedRecord) (bool, []string)
	batchErr   string // non-empty: every record in every batch fails with this message

	mu           stdsync.Mutex
	batchCalls   [][]string // record IDs per SyncBatch call
	stockCalls   []string
	deleteCalls  []string
	networkCalls int
}

func newMockAdapter(name string, batchSize, rps int) *mockAdapter {
	return &mockAdapter{
		name:   name,
		limits: driven.RateLimits{RequestsPerSecond: rps, BatchSize: batchSize},
	}
}

func (m *mockAdapter) Name() string        { return m.name }
func (m *mockAdapter) DisplayName() string { return m.name }

func (m *mockAdapter) IsConnected(context.Context) (bool, error) { return true, nil }

func (m *mockAdapter) Validate(record domain.FeedRecord) (bool, []string) {
	if m.validateFn != nil {
		return m.validateFn(record)
	}
	return true, nil
}

func (m *mockAdapter) SyncOne(ctx context.Context, record domain.FeedRecord) domain.SyncResult {
	batch := m.SyncBatch(ctx, []domain.FeedRecord{record})
	if batch.Failed > 0 {
		return domain.SyncResult{RecordID: record.ID, Success: false, Message: batch.Errors[0].Message}
	}
	return domain.SyncResult{RecordID: record.ID, Success: true}
}

func (m *mockAdapter) SyncBatch(_ context.Context, records []domain.FeedRecord) domain.BatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	m.batchCalls = append(m.batchCalls, ids)
	m.networkCalls++

	var result domain.BatchResult
	for _, r := range records {
		if m.batchErr != "" {
			result.AddFailure(r.ID, m.batchErr)
		} else {
			result.Add(domain.SyncResult{RecordID: r.ID, Success: true})
		}
	}
	return result
}

func (m *mockAdapter) UpdateStock(_ context.Context, recordID string, _ domain.Availability) domain.SyncResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockCalls = append(m.stockCalls, recordID)
	return domain.SyncResult{RecordID: recordID, Success: true}
}

func (m *mockAdapter) DeleteRecord(_ context.Context, recordID string) domain.SyncResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, recordID)
	return domain.SyncResult{RecordID: recordID, Success: true}
}

func (m *mockAdapter) ProductCount(context.Context) (int, error) { return 0, nil }

func (m *mockAdapter) RateLimits() driven.RateLimits { return m.limits }

func (m *mockAdapter) calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.batchCalls...)
}

func makeRecords(ids ...string) []domain.FeedRecord {
	records := make([]domain.FeedRecord, len(ids))
	for i, id := range ids {
		records[i] = domain.FeedRecord{
			ID:           id,
			Title:        "Product " + id,
			Link:         "https://shop.example.com/p/" + id,
			ImageLink:    "https://cdn.example.com/" + id + ".jpg",
			Availability: domain.AvailabilityInStock,
			Condition:    domain.ConditionNew,
			Price:        domain.Price{Amount: "10.00", Currency: "USD"},
		}
	}
	return records
}

func newOrchestrator(adapters ...*mockAdapter) *SyncOrchestrator {
	registry := NewRegistry()
	for _, a := range adapters {
		registry.Register(a)
	}
	return NewSyncOrchestrator(registry, 0)
}

// --- Tests ---

func TestRunFullSync_EmptyRecords_NoNetworkCalls(t *testing.T) {
	adapter := newMockAdapter("shopping", 50, 100)
	orch := newOrchestrator(adapter)

	result, err := orch.RunFullSync(context.Background(), "shopping", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.BatchResult{}, result)
	assert.Empty(t, adapter.calls())
}

func TestRunFullSync_UnknownDestination(t *testing.T) {
	orch := newOrchestrator()

	_, err := orch.RunFullSync(context.Background(), "nowhere", makeRecords("sku-1"))
	assert.ErrorIs(t, err, domain.ErrDestinationUnsupported)
}

func TestRunFullSync_ThreeRecordsBatchTwo(t *testing.T) {
	// Scenario: 3 valid records, batch size 2 -> two provider calls of
	// sizes 2 and 1, all synced.
	adapter := newMockAdapter("shopping", 2, 100)
	orch := newOrchestrator(adapter)

	result, err := orch.RunFullSync(context.Background(), "shopping", makeRecords("sku-1", "sku-2", "sku-3"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 0, result.Failed)

	calls := adapter.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"sku-1", "sku-2"}, calls[0])
	assert.Equal(t, []string{"sku-3"}, calls[1])
}

func TestRunFullSync_ChunkCountIsCeilOfBatchSize(t *testing.T) {
	adapter := newMockAdapter("shopping", 3, 100)
	orch := newOrchestrator(adapter)

	records := makeRecords("1", "2", "3", "4", "5", "6", "7")
	result, err := orch.RunFullSync(context.Background(), "shopping", records)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Synced)
	// ceil(7/3) == 3 provider calls, never one larger call
	assert.Len(t, adapter.calls(), 3)
}

func TestRunFullSync_ConfiguredMaxCapsChunkSize(t *testing.T) {
	adapter := newMockAdapter("shopping", 500, 100)
	registry := NewRegistry()
	registry.Register(adapter)
	orch := NewSyncOrchestrator(registry, 2)

	_, err := orch.RunFullSync(context.Background(), "shopping", makeRecords("1", "2", "3"))
	require.NoError(t, err)

	calls := adapter.calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 2)
}

func TestRunFullSync_InvalidRecordExcludedFromChunk(t *testing.T) {
	// Scenario: 2 valid + 1 invalid (missing link), batch size 5 -> one
	// provider call containing only the 2 valid records.
	adapter := newMockAdapter("shopping", 5, 100)
	adapter.validateFn = func(r domain.FeedRecord) (bool, []string) {
		if r.Link == "" {
			return false, []string{"missing link"}
		}
		return true, nil
	}
	orch := newOrchestrator(adapter)

	records := makeRecords("sku-1", "sku-2", "sku-3")
	records[2].Link = ""

	result, err := orch.RunFullSync(context.Background(), "shopping", records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sku-3", result.Errors[0].RecordID)
	assert.Equal(t, "missing link", result.Errors[0].Message)

	calls := adapter.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"sku-1", "sku-2"}, calls[0])
}

func TestRunFullSync_AllRecordsInvalid_NoNetworkCalls(t *testing.T) {
	adapter := newMockAdapter("shopping", 5, 100)
	adapter.validateFn = func(domain.FeedRecord) (bool, []string) {
		return false, []string{"missing title"}
	}
	orch := newOrchestrator(adapter)

	result, err := orch.RunFullSync(context.Background(), "shopping", makeRecords("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Empty(t, adapter.calls())
}

func TestRunFullSync_InvariantHoldsForAnyMix(t *testing.T) {
	adapter := newMockAdapter("shopping", 2, 100)
	adapter.validateFn = func(r domain.FeedRecord) (bool, []string) {
		if r.ID == "bad" {
			return false, []string{"bad record"}
		}
		return true, nil
	}
	orch := newOrchestrator(adapter)

	records := makeRecords("1", "bad", "2", "3", "4")
	result, err := orch.RunFullSync(context.Background(), "shopping", records)
	require.NoError(t, err)

	// synced + failed == total records attempted
	assert.Equal(t, len(records), result.Synced+result.Failed)
}

func TestRunFullSync_ChunkTransportFailureMarksWholeChunk(t *testing.T) {
	adapter := newMockAdapter("shopping", 2, 100)
	adapter.batchErr = "post products/batch: connection refused"
	orch := newOrchestrator(adapter)

	records := makeRecords("1", "2", "3")
	result, err := orch.RunFullSync(context.Background(), "shopping", records)
	require.NoError(t, err) // a failed run is a normal return value

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, len(records), result.Synced+result.Failed)
	for _, recErr := range result.Errors {
		assert.Equal(t, "post products/batch: connection refused", recErr.Message)
	}
	// No automatic retry: exactly ceil(3/2) calls were made.
	assert.Len(t, adapter.calls(), 2)
}

func TestRunFullSync_CancelledBetweenChunks(t *testing.T) {
	adapter := newMockAdapter("shopping", 1, 1000)
	orch := newOrchestrator(adapter)

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel after the first chunk lands.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if len(adapter.calls()) >= 1 {
				cancel()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	records := makeRecords("1", "2", "3", "4", "5")
	result, err := orch.RunFullSync(ctx, "shopping", records)
	<-done
	require.NoError(t, err)

	// Every record is accounted for; the untouched tail is failed with a
	// cancellation message, not silently dropped.
	assert.Equal(t, len(records), result.Synced+result.Failed)
	assert.Greater(t, result.Failed, 0)
	assert.Contains(t, result.Errors[len(result.Errors)-1].Message, "sync cancelled")
	// The provider never saw the cancelled tail.
	assert.Less(t, len(adapter.calls()), len(records))
}

func TestRunFullSync_SecondConcurrentRunRejected(t *testing.T) {
	adapter := newMockAdapter("shopping", 1, 1) // 1 rps forces a slow run
	orch := newOrchestrator(adapter)

	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		close(started)
		_, _ = orch.RunFullSync(context.Background(), "shopping", makeRecords("1", "2", "3"))
	}()
	<-started

	// Wait for the run to register itself.
	require.Eventually(t, func() bool {
		return orch.Status("shopping").Running
	}, time.Second, time.Millisecond)

	_, err := orch.RunFullSync(context.Background(), "shopping", makeRecords("9"))
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
	<-finished
}

func TestStatus_IdleWhenNoRun(t *testing.T) {
	orch := newOrchestrator(newMockAdapter("shopping", 2, 100))

	status := orch.Status("shopping")
	assert.False(t, status.Running)
	assert.Equal(t, "shopping", status.Destination)
}

func TestRunStockUpdate_BypassesBatching(t *testing.T) {
	adapter := newMockAdapter("pins", 25, 10)
	orch := newOrchestrator(adapter)

	result, err := orch.RunStockUpdate(context.Background(), "pins", "sku-7", domain.AvailabilityOutOfStock)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"sku-7"}, adapter.stockCalls)
	assert.Empty(t, adapter.calls())
}

func TestRunDelete_BypassesBatching(t *testing.T) {
	adapter := newMockAdapter("pins", 25, 10)
	orch := newOrchestrator(adapter)

	result, err := orch.RunDelete(context.Background(), "pins", "sku-7")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"sku-7"}, adapter.deleteCalls)
}

func TestRunFullSyncAll_SyncsEveryDestination(t *testing.T) {
	shopping := newMockAdapter("shopping", 50, 100)
	social := newMockAdapter("social", 100, 100)
	pins := newMockAdapter("pins", 25, 100)
	orch := newOrchestrator(shopping, social, pins)

	records := makeRecords("1", "2", "3")
	results, err := orch.RunFullSyncAll(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, results, 3)
	for _, dest := range []string{"shopping", "social", "pins"} {
		assert.Equal(t, 3, results[dest].Synced, dest)
	}
}
