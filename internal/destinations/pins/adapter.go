package pins

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/services"
	"github.com/storekit-labs/feedsync-cli/internal/destinations"
)

// Ensure Adapter implements the interface.
var _ driven.DestinationAdapter = (*Adapter)(nil)

const (
	// BatchSize is the chunk the orchestrator sees. The wire carries one
	// item per call; the adapter loops internally.
	BatchSize = 25
	// RequestsPerSecond is the provider's request-level rate limit.
	RequestsPerSecond = 10
)

// Adapter pushes feed records to the pin-based catalog.
type Adapter struct {
	cfg     Config
	client  *destinations.Client
	limiter *rate.Limiter
}

// New creates the adapter. The item loop inside SyncBatch issues one
// request per record, so the adapter carries its own limiter instead of
// relying on the orchestrator's chunk-level pacing.
func New(cfg Config, manager driven.TokenManager, audit driven.AuditLogger) *Adapter {
	return &Adapter{
		cfg:     cfg,
		client:  destinations.NewOAuthClient(domain.DestinationPins, cfg.BaseURL, manager, audit),
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), 1),
	}
}

func (a *Adapter) Name() string        { return domain.DestinationPins }
func (a *Adapter) DisplayName() string { return "Pin Catalog" }

func (a *Adapter) RateLimits() driven.RateLimits {
	return driven.RateLimits{RequestsPerSecond: RequestsPerSecond, BatchSize: BatchSize}
}

// Validate checks the record against the pins schema. Network-free.
func (a *Adapter) Validate(record domain.FeedRecord) (bool, []string) {
	return services.ValidateRecord(record, domain.DestinationPins)
}

// IsConnected probes the authenticated account. Missing settings
// short-circuit to false without a network call.
func (a *Adapter) IsConnected(ctx context.Context) (bool, error) {
	if !a.cfg.IsComplete() {
		return false, nil
	}
	if err := a.client.Do(ctx, http.MethodGet, "/user_account", nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// ProductCount returns the catalog's item count.
func (a *Adapter) ProductCount(ctx context.Context) (int, error) {
	if !a.cfg.IsComplete() {
		return 0, fmt.Errorf("%w: missing destinations.pins.ad_account_id", domain.ErrNotConfigured)
	}
	var out struct {
		ItemCount int `json:"item_count"`
	}
	path := fmt.Sprintf("/catalogs/summary?ad_account_id=%s", a.cfg.AdAccountID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	return out.ItemCount, nil
}

// SyncOne pushes a single record.
func (a *Adapter) SyncOne(ctx context.Context, record domain.FeedRecord) domain.SyncResult {
	if ok, problems := a.Validate(record); !ok {
		return domain.SyncResult{RecordID: record.ID, Success: false, Message: strings.Join(problems, "; ")}
	}
	if !a.cfg.IsComplete() {
		return domain.SyncResult{RecordID: record.ID, Success: false,
			Message: "destination not configured: missing ad_account_id"}
	}
	return a.upsert(ctx, record)
}

// SyncBatch satisfies the batch contract by looping single-item upserts,
// each paced against the adapter's own limiter. Cancellation between
// items marks the remainder failed so the aggregate still accounts for
// every record.
func (a *Adapter) SyncBatch(ctx context.Context, records []domain.FeedRecord) domain.BatchResult {
	var result domain.BatchResult
	if len(records) == 0 {
		return result
	}

	if !a.cfg.IsComplete() {
		for _, record := range records {
			result.AddFailure(record.ID, "destination not configured: missing ad_account_id")
		}
		return result
	}

	for i, record := range records {
		if ok, problems := a.Validate(record); !ok {
			result.AddFailure(record.ID, strings.Join(problems, "; "))
			continue
		}
		if err := a.limiter.Wait(ctx); err != nil {
			for _, remaining := range records[i:] {
				result.AddFailure(remaining.ID, fmt.Sprintf("sync cancelled: %v", err))
			}
			return result
		}
		result.Add(a.upsert(ctx, record))
	}
	return result
}

// upsert creates or replaces one catalog item.
func (a *Adapter) upsert(ctx context.Context, record domain.FeedRecord) domain.SyncResult {
	body := buildItem(record)
	path := fmt.Sprintf("/catalogs/items/%s?ad_account_id=%s", record.ID, a.cfg.AdAccountID)
	if err := a.client.Do(ctx, http.MethodPut, path, body, nil); err != nil {
		return domain.SyncResult{RecordID: record.ID, Success: false, Message: err.Error()}
	}
	return domain.SyncResult{RecordID: record.ID, Success: true}
}

// UpdateStock pushes an availability change for one item.
func (a *Adapter) UpdateStock(ctx context.Context, recordID string, availability domain.Availability) domain.SyncResult {
	if !availability.IsValid() {
		return domain.SyncResult{RecordID: recordID, Success: false,
			Message: fmt.Sprintf("invalid availability %q", availability)}
	}

	body := map[string]string{"availability": availabilityNames[availability]}
	path := fmt.Sprintf("/catalogs/items/%s?ad_account_id=%s", recordID, a.cfg.AdAccountID)
	if err := a.client.Do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return domain.SyncResult{RecordID: recordID, Success: false, Message: err.Error()}
	}
	return domain.SyncResult{RecordID: recordID, Success: true}
}

// DeleteRecord removes one item from the catalog.
func (a *Adapter) DeleteRecord(ctx context.Context, recordID string) domain.SyncResult {
	path := fmt.Sprintf("/catalogs/items/%s?ad_account_id=%s", recordID, a.cfg.AdAccountID)
	if err := a.client.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return domain.SyncResult{RecordID: recordID, Success: false, Message: err.Error()}
	}
	return domain.SyncResult{RecordID: recordID, Success: true}
}
