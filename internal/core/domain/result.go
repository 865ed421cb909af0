package domain

import "time"

// SyncResult is the outcome of one record's sync attempt.
type SyncResult struct {
	// RecordID identifies the record this result belongs to.
	RecordID string `json:"record_id"`
	// Success is true if the record reached the destination.
	Success bool `json:"success"`
	// Message carries the failure reason. Empty on success.
	Message string `json:"message,omitempty"`
}

// RecordError pairs a record ID with its failure message inside a BatchResult.
type RecordError struct {
	// RecordID identifies the failed record.
	RecordID string `json:"record_id"`
	// Message is the failure reason.
	Message string `json:"message"`
}

// BatchResult aggregates sync outcomes over a chunk or a full run.
// Invariant: Synced + Failed equals the number of records attempted.
type BatchResult struct {
	// Synced counts records that reached the destination.
	Synced int `json:"synced"`
	// Failed counts records that did not sync.
	Failed int `json:"failed"`
	// Errors lists failures in attempt order.
	Errors []RecordError `json:"errors,omitempty"`
}

// Add folds a single result into the aggregate.
func (b *BatchResult) Add(r SyncResult) {
	if r.Success {
		b.Synced++
		return
	}
	b.Failed++
	b.Errors = append(b.Errors, RecordError{RecordID: r.RecordID, Message: r.Message})
}

// AddFailure marks one record failed with the given message.
func (b *BatchResult) AddFailure(recordID, message string) {
	b.Add(SyncResult{RecordID: recordID, Success: false, Message: message})
}

// Merge folds another aggregate into this one, preserving error order.
func (b *BatchResult) Merge(other BatchResult) {
	b.Synced += other.Synced
	b.Failed += other.Failed
	b.Errors = append(b.Errors, other.Errors...)
}

// Total returns the number of records this aggregate accounts for.
func (b *BatchResult) Total() int {
	return b.Synced + b.Failed
}

// SyncRun is a completed (or in-flight) full-sync run kept for history.
type SyncRun struct {
	// RunID is the unique identifier assigned when the run started.
	RunID string `json:"run_id"`
	// Destination names the destination the run targeted.
	Destination string `json:"destination"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run completed. Zero while in flight.
	FinishedAt time.Time `json:"finished_at,omitempty"`
	// Synced counts records that reached the destination.
	Synced int `json:"synced"`
	// Failed counts records that did not sync.
	Failed int `json:"failed"`
}
