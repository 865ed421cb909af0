package pins

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

// availabilityNames translates the generic availability enum into the
// provider's upper-snake vocabulary.
var availabilityNames = map[domain.Availability]string{
	domain.AvailabilityInStock:    "IN_STOCK",
	domain.AvailabilityOutOfStock: "OUT_OF_STOCK",
	domain.AvailabilityPreorder:   "PREORDER",
	domain.AvailabilityBackorder:  "BACKORDER",
}

// conditionNames translates the condition enum.
var conditionNames = map[domain.Condition]string{
	domain.ConditionNew:         "NEW",
	domain.ConditionRefurbished: "REFURBISHED",
	domain.ConditionUsed:        "USED",
}

// item is the provider's native catalog item schema.
type item struct {
	ItemID          string   `json:"item_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Link            string   `json:"link"`
	ImageLink       string   `json:"image_link"`
	AdditionalImages []string `json:"additional_image_links,omitempty"`
	Availability    string   `json:"availability"`
	Condition       string   `json:"condition,omitempty"`
	Price           string   `json:"price"`
	SalePrice       string   `json:"sale_price,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	GTIN            string   `json:"gtin,omitempty"`
	MPN             string   `json:"mpn,omitempty"`
	Category        string   `json:"google_product_category,omitempty"`
	ProductType     string   `json:"product_type,omitempty"`
	ItemGroupID     string   `json:"item_group_id,omitempty"`
	Color           string   `json:"color,omitempty"`
	Size            string   `json:"size,omitempty"`
	Material        string   `json:"material,omitempty"`
	Pattern         string   `json:"pattern,omitempty"`
	AgeGroup        string   `json:"age_group,omitempty"`
	Gender          string   `json:"gender,omitempty"`
	CustomLabels    []string `json:"custom_labels,omitempty"`
}

// buildItem formats a feed record into the provider layout. Prices keep
// the "amount CUR" join; gtin is optional here unlike the shopping
// catalog.
func buildItem(r domain.FeedRecord) item {
	it := item{
		ItemID:           r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Link:             r.Link,
		ImageLink:        r.ImageLink,
		AdditionalImages: r.AdditionalImageLinks,
		Availability:     availabilityNames[r.Availability],
		Condition:        conditionNames[r.Condition],
		Price:            r.Price.String(),
		Brand:            r.Brand,
		GTIN:             r.GTIN,
		MPN:              r.MPN,
		Category:         r.Category,
		ProductType:      r.ProductType,
		ItemGroupID:      r.ItemGroupID,
		Color:            r.Color,
		Size:             r.Size,
		Material:         r.Material,
		Pattern:          r.Pattern,
		AgeGroup:         r.AgeGroup,
		Gender:           r.Gender,
		CustomLabels:     r.CustomLabels,
	}
	if r.SalePrice != nil {
		it.SalePrice = r.SalePrice.String()
	}
	return it
}
