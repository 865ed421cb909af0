package pins

import (
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// DefaultBaseURL is the provider's API root.
const DefaultBaseURL = "https://api.pincatalog.example.com/v5"

// Config holds the settings this destination needs before it can sync.
type Config struct {
	// AdAccountID scopes catalog writes to an advertising account.
	// Required.
	AdAccountID string
	// BaseURL overrides the API root. Used for sandbox accounts.
	BaseURL string
}

// LoadConfig reads the destination settings from the settings store.
func LoadConfig(settings driven.SettingsStore) Config {
	cfg := Config{
		AdAccountID: settings.GetString("destinations.pins.ad_account_id"),
		BaseURL:     settings.GetString("destinations.pins.api_base_url"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}

// IsComplete reports whether the required settings are present.
func (c Config) IsComplete() bool {
	return c.AdAccountID != ""
}
