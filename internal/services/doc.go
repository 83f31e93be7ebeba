// Package services owns the authenticated YouTube Music client used by the HTTP layer.
//
// # Library Interface
//
// HTTP handlers depend on the [Library] interface rather than on [ytmusic.Client] so they can be tested with doubles.
//
// # Session
//
// A [Session] builds the client lazily through a [Factory] and caches it once construction succeeds.
// Construction failures are never cached: every later call retries, so a credential file written after startup is
// picked up by the next request without a restart.
//
// Concurrent first calls are serialized by a mutex; once the client is cached an atomic flag lets readers skip the lock.
//
// # Error Handling
//
// The factory returned by [ClientFactory] classifies failures with the shared sentinels:
//   - [shared.ErrConfiguration] : application identity or credential file missing
//   - [shared.ErrAuthentication] : credential file unreadable, or rejected by the liveness check
//
// Every attempt is logged and, when a [Recorder] is configured, stored as a [models.AuthEvent].
package services
