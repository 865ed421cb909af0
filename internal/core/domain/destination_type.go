package domain

// Canonical destination names. Adapters, the validation table, and
// credential-store keys all use these identifiers.
const (
	// DestinationShopping is the search-shopping catalog.
	DestinationShopping = "shopping"
	// DestinationSocial is the social-commerce catalog.
	DestinationSocial = "social"
	// DestinationPins is the pin-based catalog.
	DestinationPins = "pins"
)

// AuthScheme defines how a destination authenticates API calls.
type AuthScheme string

const (
	// AuthSchemeOAuth uses OAuth 2.0 with refresh tokens.
	AuthSchemeOAuth AuthScheme = "oauth"
	// AuthSchemeAPIToken uses a long-lived token from settings.
	AuthSchemeAPIToken AuthScheme = "api_token"
)

// DestinationType describes a supported catalog destination.
type DestinationType struct {
	// Name is the stable identifier (e.g. "shopping", "social", "pins").
	Name string
	// DisplayName is the human-readable label.
	DisplayName string
	// Description briefly explains the destination.
	Description string
	// AuthScheme specifies how this destination authenticates.
	AuthScheme AuthScheme
	// SettingKeys lists the configuration fields the destination needs.
	SettingKeys []SettingKey
}

// RequiresConsentFlow returns true if connecting this destination runs the
// external OAuth consent flow.
func (d *DestinationType) RequiresConsentFlow() bool {
	return d.AuthScheme == AuthSchemeOAuth
}

// SettingKey describes one configuration field for a destination.
type SettingKey struct {
	// Key is the setting key name.
	Key string
	// Description explains what the field is for.
	Description string
	// Required indicates whether the field must be provided before syncing.
	Required bool
	// Secret indicates the value must never be echoed or logged.
	Secret bool
}
