package shopping

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/services"
	"github.com/storekit-labs/feedsync-cli/internal/destinations"
)

// Ensure Adapter implements the interface.
var _ driven.DestinationAdapter = (*Adapter)(nil)

const (
	// BatchSize is the provider's products/batch entry limit.
	BatchSize = 50
	// RequestsPerSecond is the provider's request-level rate limit.
	RequestsPerSecond = 10
)

// Adapter pushes feed records to the search-shopping catalog.
type Adapter struct {
	cfg    Config
	client *destinations.Client
}

// New creates the adapter. The token manager owns the OAuth credential;
// the adapter never sees raw tokens.
func New(cfg Config, manager driven.TokenManager, audit driven.AuditLogger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		client: destinations.NewOAuthClient(domain.DestinationShopping, cfg.BaseURL, manager, audit),
	}
}

func (a *Adapter) Name() string        { return domain.DestinationShopping }
func (a *Adapter) DisplayName() string { return "Search Shopping" }

func (a *Adapter) RateLimits() driven.RateLimits {
	return driven.RateLimits{RequestsPerSecond: RequestsPerSecond, BatchSize: BatchSize}
}

// Validate checks the record against the shopping schema. Network-free.
func (a *Adapter) Validate(record domain.FeedRecord) (bool, []string) {
	return services.ValidateRecord(record, domain.DestinationShopping)
}

// IsConnected probes the merchant account. Missing settings short-circuit
// to false without a network call.
func (a *Adapter) IsConnected(ctx context.Context) (bool, error) {
	if !a.cfg.IsComplete() {
		return false, nil
	}
	path := fmt.Sprintf("/accounts/%s", a.cfg.MerchantID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// ProductCount returns the catalog size from the account summary.
func (a *Adapter) ProductCount(ctx context.Context) (int, error) {
	if !a.cfg.IsComplete() {
		return 0, fmt.Errorf("%w: missing destinations.shopping.merchant_id", domain.ErrNotConfigured)
	}
	var out struct {
		TotalProducts int `json:"total_products"`
	}
	path := fmt.Sprintf("/accounts/%s/products/summary", a.cfg.MerchantID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	return out.TotalProducts, nil
}

// SyncOne pushes a single record through the batch endpoint.
func (a *Adapter) SyncOne(ctx context.Context, record domain.FeedRecord) domain.SyncResult {
	batch := a.SyncBatch(ctx, []domain.FeedRecord{record})
	if batch.Failed > 0 {
		return domain.SyncResult{RecordID: record.ID, Success: false, Message: batch.Errors[0].Message}
	}
	return domain.SyncResult{RecordID: record.ID, Success: true}
}

// SyncBatch pushes up to BatchSize records in one products/batch call.
// Records failing Validate never reach the network; providers report
// per-entry errors that map back by batch_id.
func (a *Adapter) SyncBatch(ctx context.Context, records []domain.FeedRecord) domain.BatchResult {
	var result domain.BatchResult
	if len(records) == 0 {
		return result
	}

	// A missing merchant ID is a configuration problem, not a transport
	// failure. Fail every record before any network call.
	if !a.cfg.IsComplete() {
		for _, record := range records {
			result.AddFailure(record.ID, "destination not configured: missing merchant_id")
		}
		return result
	}

	// Defense in depth: the orchestrator chunks first, but an oversized
	// slice must still become multiple provider calls.
	if len(records) > BatchSize {
		for start := 0; start < len(records); start += BatchSize {
			end := min(start+BatchSize, len(records))
			sub := a.SyncBatch(ctx, records[start:end])
			result.Merge(sub)
		}
		return result
	}

	valid := make([]domain.FeedRecord, 0, len(records))
	for _, record := range records {
		if ok, problems := a.Validate(record); !ok {
			result.AddFailure(record.ID, strings.Join(problems, "; "))
			continue
		}
		valid = append(valid, record)
	}
	if len(valid) == 0 {
		return result
	}

	req := batchRequest{Entries: make([]batchEntry, len(valid))}
	for i, record := range valid {
		p := buildProduct(record)
		req.Entries[i] = batchEntry{BatchID: i, Method: "insert", Product: &p}
	}

	var resp batchResponse
	path := fmt.Sprintf("/accounts/%s/products/batch", a.cfg.MerchantID)
	if err := a.client.Do(ctx, http.MethodPost, path, req, &resp); err != nil {
		// Chunk-level transport failure: every record in the call failed
		// the same way. No retry here; rerunning is the caller's decision.
		for _, record := range valid {
			result.AddFailure(record.ID, err.Error())
		}
		return result
	}

	failed := make(map[int]string)
	for _, entry := range resp.Entries {
		if len(entry.Errors) == 0 {
			continue
		}
		messages := make([]string, len(entry.Errors))
		for i, e := range entry.Errors {
			messages[i] = e.Message
		}
		failed[entry.BatchID] = strings.Join(messages, "; ")
	}

	for i, record := range valid {
		if message, ok := failed[i]; ok {
			result.AddFailure(record.ID, message)
			continue
		}
		result.Add(domain.SyncResult{RecordID: record.ID, Success: true})
	}
	return result
}

// UpdateStock pushes an availability change for one record.
func (a *Adapter) UpdateStock(ctx context.Context, recordID string, availability domain.Availability) domain.SyncResult {
	if !availability.IsValid() {
		return domain.SyncResult{RecordID: recordID, Success: false,
			Message: fmt.Sprintf("invalid availability %q", availability)}
	}
	if !a.cfg.IsComplete() {
		return domain.SyncResult{RecordID: recordID, Success: false,
			Message: "destination not configured: missing merchant_id"}
	}

	body := map[string]string{"availability": availabilityNames[availability]}
	path := fmt.Sprintf("/accounts/%s/products/%s/inventory", a.cfg.MerchantID, recordID)
	if err := a.client.Do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return domain.SyncResult{RecordID: recordID, Success: false, Message: err.Error()}
	}
	return domain.SyncResult{RecordID: recordID, Success: true}
}

// DeleteRecord removes one record from the catalog.
func (a *Adapter) DeleteRecord(ctx context.Context, recordID string) domain.SyncResult {
	if !a.cfg.IsComplete() {
		return domain.SyncResult{RecordID: recordID, Success: false,
			Message: "destination not configured: missing merchant_id"}
	}
	path := fmt.Sprintf("/accounts/%s/products/%s", a.cfg.MerchantID, recordID)
	if err := a.client.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return domain.SyncResult{RecordID: recordID, Success: false, Message: err.Error()}
	}
	return domain.SyncResult{RecordID: recordID, Success: true}
}
