package shopping

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// availabilityNames translates the generic availability enum into the
// provider's vocabulary. The provider writes two-word states with spaces.
var availabilityNames = map[domain.Availability]string{
	domain.AvailabilityInStock:    "in stock",
	domain.AvailabilityOutOfStock: "out of stock",
	domain.AvailabilityPreorder:   "preorder",
	domain.AvailabilityBackorder:  "backorder",
}

// product is the provider's native product schema.
type product struct {
	OfferID              string   `json:"offer_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description,omitempty"`
	Link                 string   `json:"link"`
	ImageLink            string   `json:"image_link"`
	AdditionalImageLinks []string `json:"additional_image_links,omitempty"`
	Availability         string   `json:"availability"`
	Condition            string   `json:"condition"`
	Price                string   `json:"price"`
	SalePrice            string   `json:"sale_price,omitempty"`
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
	CustomLabels         []string `json:"custom_labels,omitempty"`
}

// buildProduct formats a feed record into the provider layout. Prices are
// re-joined as "amount CUR"; availability goes through the lookup table.
func buildProduct(r domain.FeedRecord) product {
	p := product{
		OfferID:              r.ID,
		Title:                r.Title,
		Description:          r.Description,
		Link:                 r.Link,
		ImageLink:            r.ImageLink,
		AdditionalImageLinks: r.AdditionalImageLinks,
		Availability:         availabilityNames[r.Availability],
		Condition:            string(r.Condition),
		Price:                r.Price.String(),
		Brand:                r.Brand,
		GTIN:                 r.GTIN,
		MPN:                  r.MPN,
		Category:             r.Category,
		ProductType:          r.ProductType,
		ItemGroupID:          r.ItemGroupID,
		Color:                r.Color,
		Size:                 r.Size,
		Material:             r.Material,
		Pattern:              r.Pattern,
		AgeGroup:             r.AgeGroup,
		Gender:               r.Gender,
		CustomLabels:         r.CustomLabels,
	}
	if r.SalePrice != nil {
		p.SalePrice = r.SalePrice.String()
	}
	return p
}

// batchEntry is one operation inside a products/batch request. BatchID
// indexes into the submitted slice so per-entry results map back.
type batchEntry struct {
	BatchID int      `json:"batch_id"`
	Method  string   `json:"method"`
	Product *product `json:"product,omitempty"`
}

// batchRequest is the products/batch request envelope.
type batchRequest struct {
	Entries []batchEntry `json:"entries"`
}

// batchEntryResult is one entry's outcome in a products/batch reply.
type batchEntryResult struct {
	BatchID int `json:"batch_id"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// batchResponse is the products/batch reply envelope.
type batchResponse struct {
	Entries []batchEntryResult `json:"entries"`
}
