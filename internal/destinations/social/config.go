package social

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// DefaultBaseURL is the provider's graph API root.
const DefaultBaseURL = "https://graph.socialcommerce.example.com/v19.0"

// Config holds the settings this destination needs before it can sync.
// There is no OAuth flow here: the provider issues a long-lived system
// access token that the merchant pastes into settings.
type Config struct {
	// CatalogID identifies the product catalog. Required.
	CatalogID string
	// APIToken is the long-lived system access token. Required.
	APIToken string
	// BaseURL overrides the API root. Used for sandbox accounts.
	BaseURL string
}

// LoadConfig reads the destination settings from the settings store.
func LoadConfig(settings driven.SettingsStore) Config {
	cfg := Config{
		CatalogID: settings.GetString("destinations.social.catalog_id"),
		APIToken:  settings.GetString("destinations.social.api_token"),
		BaseURL:   settings.GetString("destinations.social.api_base_url"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}

// IsComplete reports whether the required settings are present.
func (c Config) IsComplete() bool {
	return c.CatalogID != "" && c.APIToken != ""
}
