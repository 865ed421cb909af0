package services

import (
	"context"
	"fmt"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// Ensure ConnectionManager implements the interface.
var _ driving.ConnectionService = (*ConnectionManager)(nil)

// destinationTypes is the catalog of supported destinations and the
// settings each one needs before it can sync.
var destinationTypes = []domain.DestinationType{
	{
		Name:        domain.DestinationShopping,
		DisplayName: "Search Shopping",
		Description: "Search-engine shopping catalog with a synchronous batch API",
		AuthScheme:  domain.AuthSchemeOAuth,
		SettingKeys: []domain.SettingKey{
			{Key: "destinations.shopping.merchant_id", Description: "Merchant account ID", Required: true},
			{Key: "destinations.shopping.api_base_url", Description: "API root override for sandbox accounts"},
		},
	},
	{
		Name:        domain.DestinationSocial,
		DisplayName: "Social Commerce",
		Description: "Social-commerce catalog fed through asynchronous batch jobs",
		AuthScheme:  domain.AuthSchemeAPIToken,
		SettingKeys: []domain.SettingKey{
			{Key: "destinations.social.catalog_id", Description: "Product catalog ID", Required: true},
			{Key: "destinations.social.api_token", Description: "Long-lived system access token", Required: true, Secret: true},
			{Key: "destinations.social.api_base_url", Description: "API root override for sandbox accounts"},
		},
	},
	{
		Name:        domain.DestinationPins,
		DisplayName: "Pin Catalog",
		Description: "Pin-based catalog driven item by item",
		AuthScheme:  domain.AuthSchemeOAuth,
		SettingKeys: []domain.SettingKey{
			{Key: "destinations.pins.ad_account_id", Description: "Advertising account ID", Required: true},
			{Key: "destinations.pins.api_base_url", Description: "API root override for sandbox accounts"},
		},
	},
}

// TokenManagerFactory returns the token manager for one destination and
// app identity. Managers are per-identity because platform-app and
// custom-app connections hold independent credentials.
type TokenManagerFactory func(destination string, identity domain.AppIdentity) (driven.TokenManager, error)

// ConnectionManager implements driving.ConnectionService over the
// destination registry, the token managers, and the settings store.
type ConnectionManager struct {
	registry *Registry
	managers TokenManagerFactory
	settings driven.SettingsStore
}

// NewConnectionManager creates the connection service.
func NewConnectionManager(registry *Registry, managers TokenManagerFactory, settings driven.SettingsStore) *ConnectionManager {
	return &ConnectionManager{
		registry: registry,
		managers: managers,
		settings: settings,
	}
}

// Destinations lists the supported destination types.
func (c *ConnectionManager) Destinations() []domain.DestinationType {
	types := make([]domain.DestinationType, len(destinationTypes))
	copy(types, destinationTypes)
	return types
}

// DestinationType returns the type descriptor for one destination name.
func (c *ConnectionManager) DestinationType(destination string) (domain.DestinationType, error) {
	for _, t := range destinationTypes {
		if t.Name == destination {
			return t, nil
		}
	}
	return domain.DestinationType{}, fmt.Errorf("%w: %q", domain.ErrDestinationUnsupported, destination)
}

// AuthorizationURL builds the consent URL for an OAuth destination.
func (c *ConnectionManager) AuthorizationURL(ctx context.Context, destination string, identity domain.AppIdentity) (string, string, error) {
	t, err := c.DestinationType(destination)
	if err != nil {
		return "", "", err
	}
	if !t.RequiresConsentFlow() {
		return "", "", fmt.Errorf("%w: %s authenticates with an API token, set %s instead",
			domain.ErrInvalidInput, destination, apiTokenKey(destination))
	}
	if !identity.IsValid() {
		return "", "", fmt.Errorf("%w: unknown app identity %q", domain.ErrInvalidInput, identity)
	}

	manager, err := c.managers(destination, identity)
	if err != nil {
		return "", "", err
	}
	return manager.AuthorizationURL()
}

// CompleteConnection exchanges the delivered authorization code.
func (c *ConnectionManager) CompleteConnection(ctx context.Context, destination string, identity domain.AppIdentity, code, state string) error {
	t, err := c.DestinationType(destination)
	if err != nil {
		return err
	}
	if !t.RequiresConsentFlow() {
		return fmt.Errorf("%w: %s has no authorization-code flow", domain.ErrInvalidInput, destination)
	}

	manager, err := c.managers(destination, identity)
	if err != nil {
		return err
	}
	if err := manager.ExchangeCode(ctx, code, state); err != nil {
		return err
	}

	// Remember which app the destination is connected through so sync
	// runs pick the right credential namespace.
	if err := c.settings.Set(appIdentityKey(destination), string(identity)); err != nil {
		logger.Warn("could not record app identity for %s: %v", destination, err)
	}

	logger.Info("connected %s (%s app)", destination, identity)
	return nil
}

// Disconnect destroys the persisted credential. For OAuth destinations
// that is the refresh token; for token destinations it is the API token
// setting. Idempotent.
func (c *ConnectionManager) Disconnect(ctx context.Context, destination string, identity domain.AppIdentity) error {
	t, err := c.DestinationType(destination)
	if err != nil {
		return err
	}

	if !t.RequiresConsentFlow() {
		return c.settings.Delete(apiTokenKey(destination))
	}

	manager, err := c.managers(destination, identity)
	if err != nil {
		return err
	}
	return manager.Disconnect(ctx)
}

// Inspect probes every registered destination and reports its state.
// Probe failures degrade to a disconnected entry rather than aborting
// the whole report.
func (c *ConnectionManager) Inspect(ctx context.Context) []driving.ConnectionInfo {
	adapters := c.registry.List()
	infos := make([]driving.ConnectionInfo, 0, len(adapters))

	for _, adapter := range adapters {
		limits := adapter.RateLimits()
		info := driving.ConnectionInfo{
			Name:              adapter.Name(),
			DisplayName:       adapter.DisplayName(),
			ProductCount:      -1,
			RequestsPerSecond: limits.RequestsPerSecond,
			BatchSize:         limits.BatchSize,
		}

		connected, err := adapter.IsConnected(ctx)
		if err != nil {
			logger.Warn("probe for %s failed: %v", adapter.Name(), err)
		}
		info.Connected = connected

		if connected {
			if count, err := adapter.ProductCount(ctx); err == nil {
				info.ProductCount = count
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func apiTokenKey(destination string) string {
	return fmt.Sprintf("destinations.%s.api_token", destination)
}

func appIdentityKey(destination string) string {
	return fmt.Sprintf("destinations.%s.app_identity", destination)
}

// ConnectedIdentity returns the app identity a destination was last
// connected through, defaulting to the platform app.
func ConnectedIdentity(settings driven.SettingsStore, destination string) domain.AppIdentity {
	identity := domain.AppIdentity(settings.GetString(appIdentityKey(destination)))
	if !identity.IsValid() {
		return domain.AppIdentityPlatform
	}
	return identity
}
