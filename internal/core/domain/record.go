package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Availability describes a product's stock state.
type Availability string

const (
	// AvailabilityInStock means the product can be ordered now.
	AvailabilityInStock Availability = "in_stock"
	// AvailabilityOutOfStock means the product cannot be ordered.
	AvailabilityOutOfStock Availability = "out_of_stock"
	// AvailabilityPreorder means the product is not yet released.
	AvailabilityPreorder Availability = "preorder"
	// AvailabilityBackorder means the product is temporarily unavailable.
	AvailabilityBackorder Availability = "backorder"
)

// IsValid returns true if the availability is a known value.
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreorder, AvailabilityBackorder:
		return true
	}
	return false
}

// Condition describes a product's physical state.
type Condition string

const (
	// ConditionNew is a brand-new product.
	ConditionNew Condition = "new"
	// ConditionRefurbished is a professionally restored product.
	ConditionRefurbished Condition = "refurbished"
	// ConditionUsed is a second-hand product.
	ConditionUsed Condition = "used"
)

// IsValid returns true if the condition is a known value.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionRefurbished, ConditionUsed:
		return true
	}
	return false
}

// Price is a decimal amount paired with an ISO 4217 currency code.
// Amount is kept as a string to avoid floating-point drift; it is parsed
// only when a numeric comparison is needed.
type Price struct {
	// Amount is the decimal amount, e.g. "12.99".
	Amount string `json:"amount"`
	// Currency is the ISO 4217 code, e.g. "USD".
	Currency string `json:"currency"`
}

// IsZero returns true if the price carries no value.
func (p Price) IsZero() bool {
	return p.Amount == "" && p.Currency == ""
}

// String renders the price in the common feed layout "12.99 USD".
func (p Price) String() string {
	return fmt.Sprintf("%s %s", p.Amount, p.Currency)
}

// Value parses the decimal amount. Returns an error for a malformed amount.
func (p Price) Value() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(p.Amount), 64)
}

// ParsePrice splits a feed price string ("12.99 USD") into amount and
// currency. The reverse of Price.String.
func ParsePrice(s string) (Price, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Price{}, fmt.Errorf("%w: price %q must be \"<amount> <currency>\"", ErrInvalidInput, s)
	}
	if _, err := strconv.ParseFloat(parts[0], 64); err != nil {
		return Price{}, fmt.Errorf("%w: price amount %q is not a decimal", ErrInvalidInput, parts[0])
	}
	return Price{Amount: parts[0], Currency: parts[1]}, nil
}

// MaxAdditionalImages is the provider-conventional cap on extra image links.
const MaxAdditionalImages = 10

// MaxCustomLabels is the number of custom_label slots providers accept.
const MaxCustomLabels = 5

// FeedRecord is one product's exportable state for catalog destinations.
// Records are constructed fresh per sync run, are immutable once handed to
// an adapter, and are never persisted by the engine.
type FeedRecord struct {
	// ID is the stable merchant-assigned identifier, unique per store.
	ID string `json:"id"`
	// Title is the product title.
	Title string `json:"title"`
	// Description is the product description.
	Description string `json:"description,omitempty"`
	// Link is the product page URL.
	Link string `json:"link"`
	// ImageLink is the primary image URL.
	ImageLink string `json:"image_link"`
	// AdditionalImageLinks holds up to MaxAdditionalImages extra image URLs, ordered.
	AdditionalImageLinks []string `json:"additional_image_links,omitempty"`

	// Availability is the stock state.
	Availability Availability `json:"availability"`
	// Condition is the physical state.
	Condition Condition `json:"condition,omitempty"`

	// Price is the regular price. Always present on a valid record.
	Price Price `json:"price"`
	// SalePrice, if set, must be strictly below Price.
	SalePrice *Price `json:"sale_price,omitempty"`

	// Brand is the product brand.
	Brand string `json:"brand,omitempty"`
	// GTIN is the Global Trade Item Number.
	GTIN string `json:"gtin,omitempty"`
	// MPN is the Manufacturer Part Number.
	MPN string `json:"mpn,omitempty"`

	// Category is a free-text taxonomy path, e.g. "Apparel > Shoes".
	Category string `json:"category,omitempty"`
	// ProductType is the merchant's own categorisation.
	ProductType string `json:"product_type,omitempty"`

	// ItemGroupID links product variants together.
	ItemGroupID string `json:"item_group_id,omitempty"`
	// Color is the variant colour.
	Color string `json:"color,omitempty"`
	// Size is the variant size.
	Size string `json:"size,omitempty"`
	// Material is the variant material.
	Material string `json:"material,omitempty"`
	// Pattern is the variant pattern.
	Pattern string `json:"pattern,omitempty"`

	// AgeGroup is the target age group.
	AgeGroup string `json:"age_group,omitempty"`
	// Gender is the target gender.
	Gender string `json:"gender,omitempty"`

	// CustomLabels holds up to MaxCustomLabels merchant-defined strings
	// (custom_label_0 .. custom_label_4).
	CustomLabels []string `json:"custom_labels,omitempty"`
}

// CheckInvariants verifies the record-level rules that hold regardless of
// destination: non-empty id and title, a present price, and a sale price
// strictly below the regular price. Destination-specific rules live in the
// validation service.
func (r *FeedRecord) CheckInvariants() []string {
	var problems []string

	if r.ID == "" {
		problems = append(problems, "missing id")
	}
	if r.Title == "" {
		problems = append(problems, "missing title")
	}
	if r.Price.IsZero() {
		problems = append(problems, "missing price")
	}

	if r.SalePrice != nil && !r.Price.IsZero() {
		if r.SalePrice.Currency != r.Price.Currency {
			problems = append(problems, "sale_price currency differs from price currency")
		} else {
			sale, errSale := r.SalePrice.Value()
			full, errFull := r.Price.Value()
			if errSale != nil {
				problems = append(problems, "sale_price amount is not a decimal")
			} else if errFull == nil && sale >= full {
				problems = append(problems, "sale_price must be below price")
			}
		}
	}

	if len(r.AdditionalImageLinks) > MaxAdditionalImages {
		problems = append(problems, fmt.Sprintf("more than %d additional image links", MaxAdditionalImages))
	}
	if len(r.CustomLabels) > MaxCustomLabels {
		problems = append(problems, fmt.Sprintf("more than %d custom labels", MaxCustomLabels))
	}
	if r.Availability != "" && !r.Availability.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown availability %q", r.Availability))
	}
	if r.Condition != "" && !r.Condition.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown condition %q", r.Condition))
	}

	return problems
}
