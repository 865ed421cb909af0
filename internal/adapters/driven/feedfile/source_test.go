package feedfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

func writeFeed(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRecords_BareArray(t *testing.T) {
	path := writeFeed(t, `[
		{
			"id": "sku-1",
			"title": "Canvas Tote",
			"link": "https://shop.example/p/sku-1",
			"image_link": "https://shop.example/i/sku-1.jpg",
			"availability": "in_stock",
			"price": {"amount": "24.99", "currency": "USD"}
		},
		{
			"id": "sku-2",
			"title": "Enamel Mug",
			"link": "https://shop.example/p/sku-2",
			"image_link": "https://shop.example/i/sku-2.jpg",
			"availability": "out_of_stock",
			"price": {"amount": "12.00", "currency": "EUR"},
			"sale_price": {"amount": "9.50", "currency": "EUR"}
		}
	]`)

	records, err := NewSource(path).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "sku-1", records[0].ID)
	assert.Equal(t, domain.AvailabilityInStock, records[0].Availability)
	assert.Equal(t, "24.99", records[0].Price.Amount)

	require.NotNil(t, records[1].SalePrice)
	assert.Equal(t, "9.50", records[1].SalePrice.Amount)
}

func TestRecords_WrappedObject(t *testing.T) {
	path := writeFeed(t, `{
		"generated_at": "2025-06-01T09:00:00Z",
		"records": [
			{
				"id": "sku-1",
				"title": "Canvas Tote",
				"link": "https://shop.example/p/sku-1",
				"image_link": "https://shop.example/i/sku-1.jpg",
				"availability": "in_stock",
				"price": {"amount": "24.99", "currency": "USD"}
			}
		]
	}`)

	records, err := NewSource(path).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sku-1", records[0].ID)
}

func TestRecords_PreservesFileOrder(t *testing.T) {
	path := writeFeed(t, `[
		{"id": "sku-3", "title": "c", "link": "l", "image_link": "i", "availability": "in_stock", "price": {"amount": "1.00", "currency": "USD"}},
		{"id": "sku-1", "title": "a", "link": "l", "image_link": "i", "availability": "in_stock", "price": {"amount": "1.00", "currency": "USD"}},
		{"id": "sku-2", "title": "b", "link": "l", "image_link": "i", "availability": "in_stock", "price": {"amount": "1.00", "currency": "USD"}}
	]`)

	records, err := NewSource(path).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "sku-3", records[0].ID)
	assert.Equal(t, "sku-1", records[1].ID)
	assert.Equal(t, "sku-2", records[2].ID)
}

func TestRecords_MissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent.json")).Records(context.Background())
	assert.Error(t, err)
}

func TestRecords_MalformedJSON(t *testing.T) {
	path := writeFeed(t, `{"records": [`)

	_, err := NewSource(path).Records(context.Background())
	assert.Error(t, err)
}

func TestRecords_CancelledContext(t *testing.T) {
	path := writeFeed(t, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(path).Records(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
