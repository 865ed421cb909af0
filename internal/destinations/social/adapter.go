package social

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/services"
	"github.com/storekit-labs/feedsync-cli/internal/destinations"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.DestinationAdapter = (*Adapter)(nil)

const (
	// BatchSize is the provider's items_batch request limit.
	BatchSize = 100
	// RequestsPerSecond is the provider's request-level rate limit.
	RequestsPerSecond = 5
)

// Adapter pushes feed records to the social-commerce catalog.
type Adapter struct {
	cfg    Config
	client *destinations.Client
}

// New creates the adapter. The API token comes from settings; when it is
// absent every network method reports a configuration failure without
// touching the wire.
func New(cfg Config, audit driven.AuditLogger) *Adapter {
	token := func() (string, error) {
		if cfg.APIToken == "" {
			return "", fmt.Errorf("%w: missing destinations.social.api_token", domain.ErrNotConfigured)
		}
		return cfg.APIToken, nil
	}
	return &Adapter{
		cfg:    cfg,
		client: destinations.NewTokenClient(domain.DestinationSocial, cfg.BaseURL, token, audit),
	}
}

func (a *Adapter) Name() string        { return domain.DestinationSocial }
func (a *Adapter) DisplayName() string { return "Social Commerce" }

func (a *Adapter) RateLimits() driven.RateLimits {
	return driven.RateLimits{RequestsPerSecond: RequestsPerSecond, BatchSize: BatchSize}
}

// Validate checks the record against the social schema. Network-free.
func (a *Adapter) Validate(record domain.FeedRecord) (bool, []string) {
	return services.ValidateRecord(record, domain.DestinationSocial)
}

// IsConnected probes the catalog. Missing settings short-circuit to
// false without a network call.
func (a *Adapter) IsConnected(ctx context.Context) (bool, error) {
	if !a.cfg.IsComplete() {
		return false, nil
	}
	path := fmt.Sprintf("/%s", a.cfg.CatalogID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// ProductCount returns the catalog's item count from its metadata.
func (a *Adapter) ProductCount(ctx context.Context) (int, error) {
	if !a.cfg.IsComplete() {
		return 0, fmt.Errorf("%w: missing destinations.social.catalog_id or api_token", domain.ErrNotConfigured)
	}
	var out struct {
		ProductCount int `json:"product_count"`
	}
	path := fmt.Sprintf("/%s?fields=product_count", a.cfg.CatalogID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	return out.ProductCount, nil
}

// SyncOne pushes a single record through the batch endpoint.
func (a *Adapter) SyncOne(ctx context.Context, record domain.FeedRecord) domain.SyncResult {
	batch := a.SyncBatch(ctx, []domain.FeedRecord{record})
	if batch.Failed > 0 {
		return domain.SyncResult{RecordID: record.ID, Success: false, Message: batch.Errors[0].Message}
	}
	return domain.SyncResult{RecordID: record.ID, Success: true}
}

// SyncBatch submits up to BatchSize records in one items_batch call.
// The endpoint is asynchronous: acceptance returns a job handle, and
// accepted items are optimistically counted as synced. The handle is
// logged so an operator can chase a suspect run.
func (a *Adapter) SyncBatch(ctx context.Context, records []domain.FeedRecord) domain.BatchResult {
	var result domain.BatchResult
	if len(records) == 0 {
		return result
	}

	if !a.cfg.IsComplete() {
		for _, record := range records {
			result.AddFailure(record.ID, "destination not configured: missing catalog_id or api_token")
		}
		return result
	}

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

	req := batchRequest{ItemType: "PRODUCT_ITEM", Requests: make([]batchEntry, len(valid))}
	for i, record := range valid {
		item := buildItem(record)
		req.Requests[i] = batchEntry{Method: "UPDATE", RetailerID: record.ID, Data: &item}
	}

	var resp batchResponse
	path := fmt.Sprintf("/%s/items_batch", a.cfg.CatalogID)
	if err := a.client.Do(ctx, http.MethodPost, path, req, &resp); err != nil {
		for _, record := range valid {
			result.AddFailure(record.ID, err.Error())
		}
		return result
	}

	if len(resp.Handles) > 0 {
		logger.Debug("social items_batch accepted, handles: %s", strings.Join(resp.Handles, ", "))
	}

	// Submission accepted. Per-item outcomes would require polling the
	// job handle; until then acceptance counts as success.
	for _, record := range valid {
		result.Add(domain.SyncResult{RecordID: record.ID, Success: true})
	}
	return result
}

// UpdateStock pushes an availability change as a one-entry UPDATE batch;
// the provider has no narrower endpoint.
func (a *Adapter) UpdateStock(ctx context.Context, recordID string, availability domain.Availability) domain.SyncResult {
	if !availability.IsValid() {
		return domain.SyncResult{RecordID: recordID, Success: false,
			Message: fmt.Sprintf("invalid availability %q", availability)}
	}
	return a.submitEntry(ctx, domain.SyncResult{RecordID: recordID}, batchEntry{
		Method:     "UPDATE",
		RetailerID: recordID,
		Data:       &itemData{Availability: availabilityNames[availability]},
	})
}

// DeleteRecord removes one record via a DELETE batch entry.
func (a *Adapter) DeleteRecord(ctx context.Context, recordID string) domain.SyncResult {
	return a.submitEntry(ctx, domain.SyncResult{RecordID: recordID}, batchEntry{
		Method:     "DELETE",
		RetailerID: recordID,
	})
}

func (a *Adapter) submitEntry(ctx context.Context, result domain.SyncResult, entry batchEntry) domain.SyncResult {
	if !a.cfg.IsComplete() {
		result.Success = false
		result.Message = "destination not configured: missing catalog_id or api_token"
		return result
	}

	req := batchRequest{ItemType: "PRODUCT_ITEM", Requests: []batchEntry{entry}}
	path := fmt.Sprintf("/%s/items_batch", a.cfg.CatalogID)
	if err := a.client.Do(ctx, http.MethodPost, path, req, nil); err != nil {
		result.Success = false
		result.Message = err.Error()
		return result
	}
	result.Success = true
	return result
}
