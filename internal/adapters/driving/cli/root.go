// Package cli implements the admin-facing command surface. Commands are
// thin: they parse flags, call the driving services wired in by main, and
// render results. No sync or connection logic lives here.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
	"github.com/storekit-labs/feedsync-cli/internal/logger"
)

// version is the build version, overridden at build time via -ldflags.
var version = "dev"

// Services wired by the composition root before Execute runs. Commands
// guard against missing wiring instead of panicking.
var (
	syncServiceFactory  func(maxBatchSize int) driving.SyncService
	connectionService   driving.ConnectionService
	settingsStore       driven.SettingsStore
	syncRunStore        driven.SyncRunStore
	recordSourceFactory func(path string) driven.RecordSource
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "feedsync",
	Short: "Synchronise product feeds to external catalog destinations",
	Long: `feedsync pushes a store's product feed to external catalog
destinations: search shopping, social commerce, and pin catalogs.

Connect a destination once with 'connect', then run 'sync' whenever the
feed changes. Each destination is synced in provider-sized chunks, paced
to its rate limits, with per-record failure reporting.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging, including redacted provider request traces")
}

// Dependencies carries the wired services the commands depend on.
type Dependencies struct {
	// SyncServiceFactory builds the sync service for a run. A positive
	// maxBatchSize caps chunk sizes below every destination's own limit.
	SyncServiceFactory func(maxBatchSize int) driving.SyncService
	// Connections manages destination credential lifecycles.
	Connections driving.ConnectionService
	// Settings is the persistent configuration store.
	Settings driven.SettingsStore
	// SyncRuns persists sync-run history. Optional.
	SyncRuns driven.SyncRunStore
	// RecordSource opens a feed file as a record source.
	RecordSource func(path string) driven.RecordSource
}

// Wire installs the service dependencies. Called once from main before
// Execute.
func Wire(deps Dependencies) {
	syncServiceFactory = deps.SyncServiceFactory
	connectionService = deps.Connections
	settingsStore = deps.Settings
	syncRunStore = deps.SyncRuns
	recordSourceFactory = deps.RecordSource
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
