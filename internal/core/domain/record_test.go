package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() FeedRecord {
	return FeedRecord{
		ID:           "sku-1",
		Title:        "Trail Runner",
		Link:         "https://shop.example.com/p/sku-1",
		ImageLink:    "https://cdn.example.com/sku-1.jpg",
		Availability: AvailabilityInStock,
		Condition:    ConditionNew,
		Price:        Price{Amount: "89.90", Currency: "USD"},
	}
}

func TestAvailability_IsValid(t *testing.T) {
	assert.True(t, AvailabilityInStock.IsValid())
	assert.True(t, AvailabilityOutOfStock.IsValid())
	assert.True(t, AvailabilityPreorder.IsValid())
	assert.True(t, AvailabilityBackorder.IsValid())
	assert.False(t, Availability("in stock").IsValid())
	assert.False(t, Availability("").IsValid())
}

func TestCondition_IsValid(t *testing.T) {
	assert.True(t, ConditionNew.IsValid())
	assert.True(t, ConditionRefurbished.IsValid())
	assert.True(t, ConditionUsed.IsValid())
	assert.False(t, Condition("mint").IsValid())
}

func TestPrice_String(t *testing.T) {
	p := Price{Amount: "12.99", Currency: "USD"}
	assert.Equal(t, "12.99 USD", p.String())
}

func TestParsePrice_RoundTrip(t *testing.T) {
	p, err := ParsePrice("12.99 USD")
	require.NoError(t, err)
	assert.Equal(t, "12.99", p.Amount)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "12.99 USD", p.String())
}

func TestParsePrice_Malformed(t *testing.T) {
	_, err := ParsePrice("12.99")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParsePrice("twelve USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeedRecord_CheckInvariants_Valid(t *testing.T) {
	r := validRecord()
	assert.Empty(t, r.CheckInvariants())
}

func TestFeedRecord_CheckInvariants_MissingFields(t *testing.T) {
	r := FeedRecord{}
	problems := r.CheckInvariants()

	assert.Contains(t, problems, "missing id")
	assert.Contains(t, problems, "missing title")
	assert.Contains(t, problems, "missing price")
}

func TestFeedRecord_CheckInvariants_SalePriceAbovePrice(t *testing.T) {
	r := validRecord()
	r.SalePrice = &Price{Amount: "99.90", Currency: "USD"}

	problems := r.CheckInvariants()
	assert.Contains(t, problems, "sale_price must be below price")
}

func TestFeedRecord_CheckInvariants_SalePriceEqualPrice(t *testing.T) {
	r := validRecord()
	r.SalePrice = &Price{Amount: "89.90", Currency: "USD"}

	problems := r.CheckInvariants()
	assert.Contains(t, problems, "sale_price must be below price")
}

func TestFeedRecord_CheckInvariants_SalePriceBelowPrice(t *testing.T) {
	r := validRecord()
	r.SalePrice = &Price{Amount: "59.90", Currency: "USD"}

	assert.Empty(t, r.CheckInvariants())
}

func TestFeedRecord_CheckInvariants_MixedCurrencies(t *testing.T) {
	r := validRecord()
	r.SalePrice = &Price{Amount: "59.90", Currency: "EUR"}

	problems := r.CheckInvariants()
	assert.Contains(t, problems, "sale_price currency differs from price currency")
}

func TestFeedRecord_CheckInvariants_TooManyImages(t *testing.T) {
	r := validRecord()
	for i := 0; i < MaxAdditionalImages+1; i++ {
		r.AdditionalImageLinks = append(r.AdditionalImageLinks, "https://cdn.example.com/x.jpg")
	}

	problems := r.CheckInvariants()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "additional image links")
}

func TestFeedRecord_CheckInvariants_TooManyCustomLabels(t *testing.T) {
	r := validRecord()
	r.CustomLabels = []string{"a", "b", "c", "d", "e", "f"}

	problems := r.CheckInvariants()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "custom labels")
}

func TestFeedRecord_CheckInvariants_UnknownEnums(t *testing.T) {
	r := validRecord()
	r.Availability = "sold out"
	r.Condition = "mint"

	problems := r.CheckInvariants()
	assert.Len(t, problems, 2)
}
