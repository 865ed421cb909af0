// Package pins implements the pin-based catalog destination. The
// provider has no batch endpoint at all: SyncBatch drives single-item
// upsert calls internally, paced by its own limiter, while still
// presenting the one-batch contract the orchestrator expects.
package pins
