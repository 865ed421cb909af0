package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/storekit-labs/feedsync-cli/internal/adapters/driving/oauth"
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// consentTimeout bounds how long connect waits for the user to approve
// the consent screen.
const consentTimeout = 5 * time.Minute

var (
	connectApp   string
	connectToken string
	connectPort  int
)

var connectCmd = &cobra.Command{
	Use:   "connect <destination>",
	Short: "Authorize a destination",
	Long: `Connects a destination so sync runs can reach it.

OAuth destinations (shopping, pins) open the provider's consent page in
your browser and wait for the redirect on a local callback server. The
social destination uses a long-lived API token instead: pass it with
--token.

Examples:
  feedsync connect shopping
  feedsync connect pins --app custom
  feedsync connect social --token <api-token>`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(
		&connectApp, "app", string(domain.AppIdentityPlatform),
		"OAuth app identity (platform or custom)")
	connectCmd.Flags().StringVar(
		&connectToken, "token", "",
		"API token for token-authenticated destinations")
	connectCmd.Flags().IntVar(
		&connectPort, "port", oauth.DefaultPort,
		"Local port for the OAuth callback (must match the app's registered redirect URI)")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	destination := args[0]

	if connectToken != "" {
		return connectWithToken(cmd, destination)
	}

	identity := domain.AppIdentity(connectApp)
	if !identity.IsValid() {
		return fmt.Errorf("unknown app identity %q, use platform or custom", connectApp)
	}
	return connectWithConsent(cmd.Context(), cmd, destination, identity)
}

// connectWithToken stores a long-lived API token for a destination whose
// provider has no authorization-code flow.
func connectWithToken(cmd *cobra.Command, destination string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	for _, t := range connectionService.Destinations() {
		if t.Name != destination {
			continue
		}
		if t.RequiresConsentFlow() {
			return fmt.Errorf("%s uses the browser consent flow, run connect without --token", destination)
		}
		key := fmt.Sprintf("destinations.%s.api_token", destination)
		if err := settingsStore.Set(key, connectToken); err != nil {
			return fmt.Errorf("store API token: %w", err)
		}
		cmd.Printf("Stored API token for %s.\n", destination)
		return nil
	}
	return fmt.Errorf("unknown destination: %s", destination)
}

// connectWithConsent runs the full browser consent flow: local callback
// server, consent URL, code exchange.
func connectWithConsent(
	ctx context.Context,
	cmd *cobra.Command,
	destination string,
	identity domain.AppIdentity,
) error {
	authURL, state, err := connectionService.AuthorizationURL(ctx, destination, identity)
	if err != nil {
		return err
	}

	server := oauth.NewCallbackServer(connectPort, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	cmd.Println("Opening the authorization page in your browser...")
	cmd.Printf("If it does not open, visit:\n\n  %s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Debug("could not open browser: %v", err)
	}

	cmd.Println("Waiting for authorization...")
	code, err := server.WaitForCode(consentTimeout)
	if err != nil {
		return fmt.Errorf("authorization not completed: %w", err)
	}

	if err := connectionService.CompleteConnection(ctx, destination, identity, code, state); err != nil {
		return fmt.Errorf("complete connection: %w", err)
	}

	cmd.Printf("Connected %s.\n", destination)
	return nil
}
