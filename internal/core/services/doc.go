// Package services implements the core business logic for feedsync.
//
// Services implement the driving ports and depend only on domain types
// and driven port interfaces:
//
//   - SyncOrchestrator: chunks, paces, and aggregates full sync runs
//   - Validator: per-destination required-field schema checks
//   - Registry: the set of configured destination adapters
package services
