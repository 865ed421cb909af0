package cli

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/storekit-labs/feedsync-cli/internal/adapters/driving/oauth"
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driving"
)

// fakeSyncService records calls and returns canned results.
type fakeSyncService struct {
	mu       sync.Mutex
	synced   []string
	result   domain.BatchResult
	results  map[string]domain.BatchResult
	err      error
	maxBatch int
}

func (f *fakeSyncService) RunFullSync(_ context.Context, destination string, _ []domain.FeedRecord) (domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, destination)
	return f.result, f.err
}

func (f *fakeSyncService) RunFullSyncAll(_ context.Context, _ []domain.FeedRecord) (map[string]domain.BatchResult, error) {
	return f.results, f.err
}

func (f *fakeSyncService) RunStockUpdate(_ context.Context, _, recordID string, _ domain.Availability) (domain.SyncResult, error) {
	return domain.SyncResult{RecordID: recordID, Success: true}, nil
}

func (f *fakeSyncService) RunDelete(_ context.Context, _, recordID string) (domain.SyncResult, error) {
	return domain.SyncResult{RecordID: recordID, Success: true}, nil
}

func (f *fakeSyncService) Status(destination string) driving.SyncStatus {
	return driving.SyncStatus{Destination: destination}
}

// fakeConnections implements driving.ConnectionService.
type fakeConnections struct {
	infos        []driving.ConnectionInfo
	authURL      string
	state        string
	authErr      error
	completed    []string
	completeErr  error
	disconnected []string
	disconnErr   error
}

func (f *fakeConnections) Destinations() []domain.DestinationType {
	return []domain.DestinationType{
		{Name: domain.DestinationShopping, DisplayName: "Search Shopping", AuthScheme: domain.AuthSchemeOAuth},
		{Name: domain.DestinationSocial, DisplayName: "Social Commerce", AuthScheme: domain.AuthSchemeAPIToken},
		{Name: domain.DestinationPins, DisplayName: "Pin Catalog", AuthScheme: domain.AuthSchemeOAuth},
	}
}

func (f *fakeConnections) AuthorizationURL(_ context.Context, _ string, _ domain.AppIdentity) (string, string, error) {
	return f.authURL, f.state, f.authErr
}

func (f *fakeConnections) CompleteConnection(_ context.Context, destination string, identity domain.AppIdentity, code, state string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, fmt.Sprintf("%s/%s/%s/%s", destination, identity, code, state))
	return nil
}

func (f *fakeConnections) Disconnect(_ context.Context, destination string, _ domain.AppIdentity) error {
	if f.disconnErr != nil {
		return f.disconnErr
	}
	f.disconnected = append(f.disconnected, destination)
	return nil
}

func (f *fakeConnections) Inspect(_ context.Context) []driving.ConnectionInfo {
	return f.infos
}

// fakeRunStore keeps sync runs in memory.
type fakeRunStore struct {
	runs   []domain.SyncRun
	latest map[string]domain.SyncRun
}

func (f *fakeRunStore) Record(_ context.Context, run domain.SyncRun) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunStore) Latest(_ context.Context, destination string) (*domain.SyncRun, error) {
	run, ok := f.latest[destination]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

func (f *fakeRunStore) History(_ context.Context, destination string, _ int) ([]domain.SyncRun, error) {
	return nil, nil
}

// fakeSettings is a map-backed settings store.
type fakeSettings struct {
	values map[string]any
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]any)}
}

func (f *fakeSettings) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeSettings) GetString(key string) string {
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return ""
}

func (f *fakeSettings) GetInt(key string) int {
	if v, ok := f.values[key].(int); ok {
		return v
	}
	return 0
}

func (f *fakeSettings) GetBool(key string) bool {
	if v, ok := f.values[key].(bool); ok {
		return v
	}
	return false
}

func (f *fakeSettings) GetStringSlice(key string) []string {
	if v, ok := f.values[key].([]string); ok {
		return v
	}
	return nil
}

func (f *fakeSettings) Set(key string, value any) error {
	f.values[key] = value
	return nil
}

func (f *fakeSettings) Delete(key string) error {
	delete(f.values, key)
	return nil
}

// fakeSource yields a fixed record slice.
type fakeSource struct {
	records []domain.FeedRecord
	err     error
}

func (f *fakeSource) Records(_ context.Context) ([]domain.FeedRecord, error) {
	return f.records, f.err
}

// wireFakes installs fake dependencies and restores the previous wiring
// and flag state when the test ends.
func wireFakes(t *testing.T, deps Dependencies) {
	t.Helper()

	prev := Dependencies{
		SyncServiceFactory: syncServiceFactory,
		Connections:        connectionService,
		Settings:           settingsStore,
		SyncRuns:           syncRunStore,
		RecordSource:       recordSourceFactory,
	}
	Wire(deps)

	t.Cleanup(func() {
		Wire(prev)
		syncFile = ""
		syncMaxBatch = 0
		connectApp = string(domain.AppIdentityPlatform)
		connectToken = ""
		connectPort = oauth.DefaultPort
		disconnectApp = string(domain.AppIdentityPlatform)
	})
}

// execute runs the root command with the given args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
