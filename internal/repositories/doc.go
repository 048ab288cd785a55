// Package repositories implements SQLite persistence for scrape runs.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted rows from queries by default.
//
// Key Implementations:
//   - [RunRepository] : Run history with per-URL outcomes
//   - [RecordRepository] : Normalized records stored as JSON payloads, keyed by run
//   - [RunStoreAdapter] : The tasks.RecordStore sink used by `scx scrape --store`, plus read helpers for `runs` and `serve`
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
