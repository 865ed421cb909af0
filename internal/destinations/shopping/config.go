package shopping

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// DefaultBaseURL is the provider's content API root.
const DefaultBaseURL = "https://content.shoppingapis.example.com/v2"

// Config holds the settings this destination needs before it can sync.
type Config struct {
	// MerchantID is the merchant account the catalog belongs to. Required.
	MerchantID string
	// BaseURL overrides the API root. Used for sandbox accounts.
	BaseURL string
}

// LoadConfig reads the destination settings from the settings store.
func LoadConfig(settings driven.SettingsStore) Config {
	cfg := Config{
		MerchantID: settings.GetString("destinations.shopping.merchant_id"),
		BaseURL:    settings.GetString("destinations.shopping.api_base_url"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}

// IsComplete reports whether the required settings are present.
func (c Config) IsComplete() bool {
	return c.MerchantID != ""
}
