// Package models defines the persisted entities of the mirei service.
//
// The service is a passthrough, so the only thing it stores is a log of credential lifecycle steps:
//   - [AuthEvent] : one bootstrap or initialization attempt, with its outcome
//
// Persistent entities implement the [Model] interface providing ID, timestamp and validation.
// The [Repository] interface defines the append-only data access used by internal/repositories.
package models
