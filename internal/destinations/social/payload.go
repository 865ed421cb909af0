package social

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// availabilityNames translates the generic availability enum into the
// provider's vocabulary. The provider has no preorder/backorder states;
// both collapse into "available for order".
var availabilityNames = map[domain.Availability]string{
	domain.AvailabilityInStock:    "in stock",
	domain.AvailabilityOutOfStock: "out of stock",
	domain.AvailabilityPreorder:   "available for order",
	domain.AvailabilityBackorder:  "available for order",
}

// itemData is the provider's native product schema. Items are keyed by
// retailer_id across all operations.
type itemData struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	URL                  string   `json:"url"`
	ImageURL             string   `json:"image_url"`
	AdditionalImageURLs  []string `json:"additional_image_urls,omitempty"`
	Availability         string   `json:"availability"`
	Condition            string   `json:"condition,omitempty"`
	Price                string   `json:"price"`
	SalePrice            string   `json:"sale_price,omitempty"`
	Currency             string   `json:"currency"`
	Brand                string   `json:"brand,omitempty"`
	GTIN                 string   `json:"gtin,omitempty"`
	MPN                  string   `json:"mpn,omitempty"`
	Category             string   `json:"category,omitempty"`
	ProductType          string   `json:"product_type,omitempty"`
	ItemGroupID          string   `json:"item_group_id,omitempty"`
	Color                string   `json:"color,omitempty"`
	Size                 string   `json:"size,omitempty"`
	Material             string   `json:"material,omitempty"`
	Pattern              string   `json:"pattern,omitempty"`
	AgeGroup             string   `json:"age_group,omitempty"`
	Gender               string   `json:"gender,omitempty"`
	CustomLabel0         string   `json:"custom_label_0,omitempty"`
	CustomLabel1         string   `json:"custom_label_1,omitempty"`
	CustomLabel2         string   `json:"custom_label_2,omitempty"`
	CustomLabel3         string   `json:"custom_label_3,omitempty"`
	CustomLabel4         string   `json:"custom_label_4,omitempty"`
}

// buildItem formats a feed record into the provider layout. The provider
// wants the amount and currency split, unlike the shopping catalog.
func buildItem(r domain.FeedRecord) itemData {
	item := itemData{
		Name:                r.Title,
		Description:         r.Description,
		URL:                 r.Link,
		ImageURL:            r.ImageLink,
		AdditionalImageURLs: r.AdditionalImageLinks,
		Availability:        availabilityNames[r.Availability],
		Condition:           string(r.Condition),
		Price:               r.Price.Amount,
		Currency:            r.Price.Currency,
		Brand:               r.Brand,
		GTIN:                r.GTIN,
		MPN:                 r.MPN,
		Category:            r.Category,
		ProductType:         r.ProductType,
		ItemGroupID:         r.ItemGroupID,
		Color:               r.Color,
		Size:                r.Size,
		Material:            r.Material,
		Pattern:             r.Pattern,
		AgeGroup:            r.AgeGroup,
		Gender:              r.Gender,
	}
	if r.SalePrice != nil {
		item.SalePrice = r.SalePrice.Amount
	}

	labels := []*string{
		&item.CustomLabel0, &item.CustomLabel1, &item.CustomLabel2,
		&item.CustomLabel3, &item.CustomLabel4,
	}
	for i, label := range r.CustomLabels {
		if i >= len(labels) {
			break
		}
		*labels[i] = label
	}
	return item
}

// batchEntry is one operation inside an items_batch request.
type batchEntry struct {
	Method     string    `json:"method"`
	RetailerID string    `json:"retailer_id"`
	Data       *itemData `json:"data,omitempty"`
}

// batchRequest is the items_batch request envelope.
type batchRequest struct {
	ItemType string       `json:"item_type"`
	Requests []batchEntry `json:"requests"`
}

// batchResponse carries the asynchronous job handles. The provider
// reports nothing per item at submission time.
type batchResponse struct {
	Handles []string `json:"handles"`
}
