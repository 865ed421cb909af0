package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// DefaultMaxBatchSize caps chunk sizes regardless of what a destination
// advertises.
const DefaultMaxBatchSize = 100

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncService = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives full sync runs across destinations: it partitions
// records into provider-sized chunks, dispatches them in order, paces calls
// to the destination's request budget, and aggregates per-record outcomes.
//
// Chunk dispatch is sequential per destination; distinct destinations sync
// concurrently. The orchestrator never retries: its job is to report
// precisely which records failed and why.
type SyncOrchestrator struct {
	registry     *Registry
	maxBatchSize int

	// Status tracking
	mu         sync.RWMutex
	activeRuns map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a sync orchestrator over the given registry.
// A non-positive maxBatchSize falls back to DefaultMaxBatchSize.
func NewSyncOrchestrator(registry *Registry, maxBatchSize int) *SyncOrchestrator {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &SyncOrchestrator{
		registry:     registry,
		maxBatchSize: maxBatchSize,
		activeRuns:   make(map[string]*driving.SyncStatus),
	}
}

// RunFullSync pushes records to one destination.
//
// Records that fail the destination's schema check are counted as failed
// without ever reaching the network; the remaining valid records in the
// same chunk are still attempted. A chunk counts as one request against
// the destination's per-second budget regardless of its item count.
// Cancellation is honoured between chunks, not mid-chunk: a chunk call is
// atomic from the provider's point of view.
func (o *SyncOrchestrator) RunFullSync(
	ctx context.Context,
	destination string,
	records []domain.FeedRecord,
) (domain.BatchResult, error) {
	adapter, err := o.registry.Get(destination)
	if err != nil {
		return domain.BatchResult{}, err
	}

	var aggregate domain.BatchResult
	if len(records) == 0 {
		return aggregate, nil
	}

	status, err := o.beginRun(destination)
	if err != nil {
		return domain.BatchResult{}, err
	}
	defer o.endRun(destination)

	limits := adapter.RateLimits()
	chunkSize := limits.BatchSize
	if chunkSize <= 0 || chunkSize > o.maxBatchSize {
		chunkSize = o.maxBatchSize
	}

	rps := limits.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	logger.Info("Starting full sync to %s: %d records in chunks of %d", destination, len(records), chunkSize)

	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		// Cancellation is checked between chunks only.
		if ctx.Err() != nil {
			o.failRemaining(&aggregate, records[start:], fmt.Sprintf("sync cancelled: %v", ctx.Err()))
			o.updateStatus(status, aggregate)
			return aggregate, nil
		}

		valid := o.filterChunk(adapter, chunk, &aggregate)
		if len(valid) > 0 {
			// One chunk is one request against the provider's budget.
			if err := limiter.Wait(ctx); err != nil {
				o.failRemaining(&aggregate, valid, fmt.Sprintf("sync cancelled: %v", err))
				o.failRemaining(&aggregate, records[end:], fmt.Sprintf("sync cancelled: %v", err))
				o.updateStatus(status, aggregate)
				return aggregate, nil
			}
			aggregate.Merge(adapter.SyncBatch(ctx, valid))
		}

		o.updateStatus(status, aggregate)
	}

	logger.Info("Sync to %s complete: %d synced, %d failed", destination, aggregate.Synced, aggregate.Failed)
	return aggregate, nil
}

// filterChunk runs the destination's schema check over a chunk. Invalid
// records are folded into the aggregate as failures with the joined rule
// violations; the valid remainder is returned for dispatch.
func (o *SyncOrchestrator) filterChunk(
	adapter driven.DestinationAdapter,
	chunk []domain.FeedRecord,
	aggregate *domain.BatchResult,
) []domain.FeedRecord {
	valid := make([]domain.FeedRecord, 0, len(chunk))
	for _, record := range chunk {
		if ok, problems := adapter.Validate(record); !ok {
			aggregate.AddFailure(record.ID, strings.Join(problems, "; "))
			continue
		}
		valid = append(valid, record)
	}
	return valid
}

// failRemaining marks every record in rest as failed with the same message.
func (o *SyncOrchestrator) failRemaining(aggregate *domain.BatchResult, rest []domain.FeedRecord, message string) {
	for _, record := range rest {
		aggregate.AddFailure(record.ID, message)
	}
}

// RunFullSyncAll syncs every registered destination concurrently.
// Destinations share no mutable state, so no coordination beyond the
// result map is needed. One destination's failure does not stop another.
func (o *SyncOrchestrator) RunFullSyncAll(
	ctx context.Context,
	records []domain.FeedRecord,
) (map[string]domain.BatchResult, error) {
	adapters := o.registry.List()

	results := make(map[string]domain.BatchResult, len(adapters))
	errs := make([]error, len(adapters))

	var mu sync.Mutex
	var g errgroup.Group

	for i, adapter := range adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			result, err := o.RunFullSync(ctx, adapter.Name(), records)
			mu.Lock()
			defer mu.Unlock()
			results[adapter.Name()] = result
			if err != nil {
				errs[i] = fmt.Errorf("sync %s: %w", adapter.Name(), err)
			}
			return nil
		})
	}

	// Goroutines only record errors, they never return them, so Wait's
	// error is always nil; errgroup is used for the join.
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// RunStockUpdate pushes a single availability change directly, bypassing
// the chunking cycle. Latency-sensitive.
func (o *SyncOrchestrator) RunStockUpdate(
	ctx context.Context,
	destination, recordID string,
	availability domain.Availability,
) (domain.SyncResult, error) {
	adapter, err := o.registry.Get(destination)
	if err != nil {
		return domain.SyncResult{}, err
	}
	return adapter.UpdateStock(ctx, recordID, availability), nil
}

// RunDelete removes a single record directly, bypassing the chunking cycle.
func (o *SyncOrchestrator) RunDelete(
	ctx context.Context,
	destination, recordID string,
) (domain.SyncResult, error) {
	adapter, err := o.registry.Get(destination)
	if err != nil {
		return domain.SyncResult{}, err
	}
	return adapter.DeleteRecord(ctx, recordID), nil
}

// Status returns the live status for a destination, or an idle status when
// no run is active.
func (o *SyncOrchestrator) Status(destination string) driving.SyncStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeRuns[destination]; ok {
		// Return a copy to avoid races with the running goroutine.
		return *status
	}
	return driving.SyncStatus{Destination: destination, Running: false}
}

// beginRun claims the single active-run slot for a destination.
func (o *SyncOrchestrator) beginRun(destination string) (*driving.SyncStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.activeRuns[destination]; ok && existing.Running {
		return nil, fmt.Errorf("%w: %s", domain.ErrSyncInProgress, destination)
	}

	status := &driving.SyncStatus{
		RunID:       uuid.NewString(),
		Destination: destination,
		Running:     true,
	}
	o.activeRuns[destination] = status
	return status, nil
}

// endRun releases the active-run slot for a destination.
func (o *SyncOrchestrator) endRun(destination string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeRuns, destination)
}

// updateStatus refreshes the live counters for a run.
func (o *SyncOrchestrator) updateStatus(status *driving.SyncStatus, aggregate domain.BatchResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status.RecordsProcessed = aggregate.Total()
	status.FailedCount = aggregate.Failed
}
