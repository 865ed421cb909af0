package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/audit"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/auth"
	configfile "github.com/storekit-labs/feedsync-cli/internal/adapters/driven/config/file"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/crypto"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/feedfile"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/storage/memory"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driving/cli"
	"github.com/storekit-labs/feedsync-cli/internal/adapters/driving/oauth"
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
	"github.com/storekit-labs/feedsync-cli/internal/core/services"
	"github.com/storekit-labs/feedsync-cli/internal/destinations/pins"
	"github.com/storekit-labs/feedsync-cli/internal/destinations/shopping"
	"github.com/storekit-labs/feedsync-cli/internal/destinations/social"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := configfile.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	secret, err := encryptionSecret(settings)
	if err != nil {
		return fmt.Errorf("load encryption secret: %w", err)
	}
	cipher, err := crypto.NewAESCipher(secret)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	auditLog := audit.New()
	managers := tokenManagerFactory(settings, store.CredentialStore(), cipher, memory.NewTokenCache(), auditLog)

	registry := services.NewRegistry()

	shoppingManager, err := managers(domain.DestinationShopping, services.ConnectedIdentity(settings, domain.DestinationShopping))
	if err != nil {
		return err
	}
	registry.Register(shopping.New(shopping.LoadConfig(settings), shoppingManager, auditLog))

	registry.Register(social.New(social.LoadConfig(settings), auditLog))

	pinsManager, err := managers(domain.DestinationPins, services.ConnectedIdentity(settings, domain.DestinationPins))
	if err != nil {
		return err
	}
	registry.Register(pins.New(pins.LoadConfig(settings), pinsManager, auditLog))

	cli.Wire(cli.Dependencies{
		SyncServiceFactory: func(maxBatchSize int) driving.SyncService {
			return services.NewSyncOrchestrator(registry, maxBatchSize)
		},
		Connections: services.NewConnectionManager(registry, managers, settings),
		Settings:    settings,
		SyncRuns:    store.SyncRunStore(),
		RecordSource: func(path string) driven.RecordSource {
			return feedfile.NewSource(path)
		},
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// tokenManagerFactory builds token managers from the per-destination OAuth
// app settings. Incomplete app configs are handed through as-is: the
// manager reports ErrNotConfigured when a flow actually needs them.
func tokenManagerFactory(
	settings driven.SettingsStore,
	credentials driven.CredentialStore,
	cipher driven.TokenCipher,
	cache driven.TokenCache,
	auditLog driven.AuditLogger,
) services.TokenManagerFactory {
	return func(destination string, identity domain.AppIdentity) (driven.TokenManager, error) {
		app := oauthAppConfig(settings, destination, identity)
		return auth.NewTokenManager(destination, identity, app, credentials, cipher, cache, auditLog), nil
	}
}

// oauthAppConfig loads the OAuth application registration for one
// destination and app identity from settings.
func oauthAppConfig(settings driven.SettingsStore, destination string, identity domain.AppIdentity) domain.OAuthAppConfig {
	prefix := fmt.Sprintf("destinations.%s.oauth.%s.", destination, identity)
	app := domain.OAuthAppConfig{
		ClientID:     settings.GetString(prefix + "client_id"),
		ClientSecret: settings.GetString(prefix + "client_secret"),
		AuthURL:      settings.GetString(prefix + "auth_url"),
		TokenURL:     settings.GetString(prefix + "token_url"),
		RedirectURI:  settings.GetString(prefix + "redirect_uri"),
		Scopes:       settings.GetStringSlice(prefix + "scopes"),
	}
	if app.RedirectURI == "" {
		app.RedirectURI = fmt.Sprintf("http://localhost:%d/callback", oauth.DefaultPort)
	}
	return app
}

// encryptionSecret returns the secret the refresh-token cipher derives its
// key from. FEEDSYNC_ENCRYPTION_KEY overrides the stored secret; a fresh
// secret is generated and persisted on first run.
func encryptionSecret(settings driven.SettingsStore) (string, error) {
	if secret := os.Getenv("FEEDSYNC_ENCRYPTION_KEY"); secret != "" {
		return secret, nil
	}
	if secret := settings.GetString("encryption_key"); secret != "" {
		return secret, nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	secret := hex.EncodeToString(raw)
	if err := settings.Set("encryption_key", secret); err != nil {
		return "", err
	}
	return secret, nil
}
