package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
)

var disconnectApp string

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <destination>",
	Short: "Remove a destination's stored credential",
	Long: `Destroys the persisted credential for a destination: the encrypted
refresh token for OAuth destinations, or the stored API token for the
social destination. Syncing again requires a new connect.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisconnect,
}

func init() {
	disconnectCmd.Flags().StringVar(
		&disconnectApp, "app", string(domain.AppIdentityPlatform),
		"OAuth app identity (platform or custom)")
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	destination := args[0]
	identity := domain.AppIdentity(disconnectApp)
	if !identity.IsValid() {
		return fmt.Errorf("unknown app identity %q, use platform or custom", disconnectApp)
	}

	if err := connectionService.Disconnect(cmd.Context(), destination, identity); err != nil {
		return fmt.Errorf("disconnect %s: %w", destination, err)
	}

	cmd.Printf("Disconnected %s.\n", destination)
	return nil
}
