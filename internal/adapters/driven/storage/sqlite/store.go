package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/storekit-labs/feedsync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/storekit-labs/feedsync-cli/internal/core/domain"
	"github.com/storekit-labs/feedsync-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed storage. It exposes the driven store
// interfaces through wrapper types sharing one database handle.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at the given data
// directory. If dataDir is empty, defaults to ~/.feedsync/data/feedsync.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".feedsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedsync.db")

	// WAL mode for concurrent readers during a sync run.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CredentialStore returns a CredentialStore backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// SyncRunStore returns a SyncRunStore backed by this store.
func (s *Store) SyncRunStore() driven.SyncRunStore {
	return &syncRunStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Credential Store ====================

// credentialStore implements driven.CredentialStore over the credentials
// table. Values arrive already encrypted where they are sensitive.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

func (c *credentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	row := c.store.db.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE key = ?", key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting credential: %w", err)
	}
	return value, true, nil
}

func (c *credentialStore) Set(ctx context.Context, key, value string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("setting credential: %w", err)
	}
	return nil
}

func (c *credentialStore) Delete(ctx context.Context, key string) error {
	_, err := c.store.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// ==================== Sync Run Store ====================

// syncRunStore implements driven.SyncRunStore over the sync_runs table.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

func (r *syncRunStore) Record(ctx context.Context, run domain.SyncRun) error {
	var finishedAt any
	if !run.FinishedAt.IsZero() {
		finishedAt = run.FinishedAt.UTC()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (run_id, destination, started_at, finished_at, synced, failed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			finished_at = excluded.finished_at,
			synced = excluded.synced,
			failed = excluded.failed
	`, run.RunID, run.Destination, run.StartedAt.UTC(), finishedAt, run.Synced, run.Failed)
	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

func (r *syncRunStore) Latest(ctx context.Context, destination string) (*domain.SyncRun, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT run_id, destination, started_at, finished_at, synced, failed
		FROM sync_runs WHERE destination = ?
		ORDER BY started_at DESC LIMIT 1
	`, destination)

	run, err := scanSyncRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting latest sync run: %w", err)
	}
	return run, nil
}

func (r *syncRunStore) History(ctx context.Context, destination string, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT run_id, destination, started_at, finished_at, synced, failed
		FROM sync_runs WHERE destination = ?
		ORDER BY started_at DESC LIMIT ?
	`, destination, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(row rowScanner) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var startedAt sql.NullTime
	var finishedAt sql.NullTime
	if err := row.Scan(&run.RunID, &run.Destination, &startedAt, &finishedAt,
		&run.Synced, &run.Failed); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		run.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}
