package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

var (
	syncFile     string
	syncMaxBatch int
)

var syncCmd = &cobra.Command{
	Use:   "sync [destination]",
	Short: "Push the product feed to destinations",
	Long: `Pushes every record in the feed file to the given destination,
chunked and paced to its rate limits. Without a destination argument,
all registered destinations are synced concurrently.

Records that fail a destination's schema check are reported as failed
without being sent; the valid remainder is still attempted. The command
never retries: fix the reported records and run it again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(
		&syncFile, "file", "f", "", "Path to the product feed JSON file (required)")
	syncCmd.Flags().IntVar(
		&syncMaxBatch, "max-batch", 0, "Cap chunk sizes below the destinations' own batch limits")
	_ = syncCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncServiceFactory == nil {
		return errors.New("sync service not configured")
	}
	if recordSourceFactory == nil {
		return errors.New("record source not configured")
	}

	ctx := cmd.Context()

	records, err := recordSourceFactory(syncFile).Records(ctx)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}
	cmd.Printf("Loaded %d records from %s\n", len(records), syncFile)

	service := syncServiceFactory(syncMaxBatch)

	if len(args) > 0 {
		return syncDestination(ctx, cmd, service, args[0], records)
	}
	return syncAll(ctx, cmd, service, records)
}

func syncDestination(
	ctx context.Context,
	cmd *cobra.Command,
	service driving.SyncService,
	destination string,
	records []domain.FeedRecord,
) error {
	started := time.Now()
	result, err := service.RunFullSync(ctx, destination, records)
	if err != nil {
		return fmt.Errorf("sync %s: %w", destination, err)
	}
	recordRun(ctx, destination, started, result)
	printResult(cmd, destination, result)
	return nil
}

func syncAll(
	ctx context.Context,
	cmd *cobra.Command,
	service driving.SyncService,
	records []domain.FeedRecord,
) error {
	started := time.Now()
	results, err := service.RunFullSyncAll(ctx, records)

	destinations := make([]string, 0, len(results))
	for destination := range results {
		destinations = append(destinations, destination)
	}
	sort.Strings(destinations)

	for _, destination := range destinations {
		result := results[destination]
		recordRun(ctx, destination, started, result)
		printResult(cmd, destination, result)
	}

	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// recordRun persists the run outcome. History is advisory: a storage
// failure is logged, not surfaced.
func recordRun(ctx context.Context, destination string, started time.Time, result domain.BatchResult) {
	if syncRunStore == nil {
		return
	}
	run := domain.SyncRun{
		RunID:       uuid.NewString(),
		Destination: destination,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Synced:      result.Synced,
		Failed:      result.Failed,
	}
	if err := syncRunStore.Record(ctx, run); err != nil {
		logger.Warn("could not record sync run for %s: %v", destination, err)
	}
}

func printResult(cmd *cobra.Command, destination string, result domain.BatchResult) {
	cmd.Printf("%s: %d synced, %d failed\n", destination, result.Synced, result.Failed)
	for _, recordErr := range result.Errors {
		cmd.Printf("  %s: %s\n", recordErr.RecordID, recordErr.Message)
	}
}
