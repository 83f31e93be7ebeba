// Package repositories implements SQLite persistence for the mirei service.
//
// Key Implementations:
//   - [AuthEventRepository] : append-only credential lifecycle log with kind-based lookups
//
// Sequence numbers provide stable, human-readable ordering (event #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
