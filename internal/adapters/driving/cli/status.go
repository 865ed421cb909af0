package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show destination connection state",
	Long: `Probes every registered destination with an authenticated call and
reports its connection state, catalog size, rate limits, and the last
sync run.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	ctx := cmd.Context()

	infos := connectionService.Inspect(ctx)
	if len(infos) == 0 {
		cmd.Println("No destinations registered.")
		return nil
	}

	for _, info := range infos {
		state := "not connected"
		if info.Connected {
			state = "connected"
		}
		cmd.Printf("%s (%s): %s\n", info.DisplayName, info.Name, state)
		if info.Connected && info.ProductCount >= 0 {
			cmd.Printf("  products: %d\n", info.ProductCount)
		}
		cmd.Printf("  limits: %d records/call, %d requests/s\n",
			info.BatchSize, info.RequestsPerSecond)
		printLastRun(cmd, info.Name)
	}
	return nil
}

func printLastRun(cmd *cobra.Command, destination string) {
	if syncRunStore == nil {
		return
	}

	run, err := syncRunStore.Latest(cmd.Context(), destination)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cmd.Println("  last sync: never")
	case err != nil:
		logger.Warn("could not load sync history for %s: %v", destination, err)
	default:
		at := run.FinishedAt
		if at.IsZero() {
			at = run.StartedAt
		}
		cmd.Printf("  last sync: %s (%d synced, %d failed)\n",
			at.Format(time.RFC3339), run.Synced, run.Failed)
	}
}
