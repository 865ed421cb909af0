// Package feedfile implements a file-backed RecordSource: feed records
// exported by the host store as a JSON array, one file per sync run.
package feedfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source reads feed records from a JSON file. The file holds either a
// bare array of records or an object with a "records" array, so both
// layouts of the products export work.
type Source struct {
	path string
}

// NewSource creates a record source reading from the given file path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Records loads and decodes the feed file. Order follows the file.
func (s *Source) Records(ctx context.Context) ([]domain.FeedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading feed file: %w", err)
	}

	var records []domain.FeedRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []domain.FeedRecord `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing feed file %s: %w", s.path, err)
	}
	return wrapped.Records, nil
}
