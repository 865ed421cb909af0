// Package sqlite provides durable storage over a single SQLite database:
// the encrypted-credential key/value store and the sync-run history.
package sqlite
