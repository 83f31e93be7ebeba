// Package server exposes the YouTube Music passthrough endpoints over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// Requests with the wrong method get a 405 that still passes through the middleware stack.
//
// # Endpoints
//
// [API] registers the public routes. Each endpoint asks the [services.Session] for the client, forwards the query
// parameters and returns the client's result as JSON. Failures are reported as {"detail": "..."}:
//
//	GET /                  welcome message
//	GET /search            query (required), limit (default 20)
//	GET /library/playlists
//	GET /library/liked     limit (default 100)
//	GET /stream_url        videoId (required), placeholder
//	GET /health            liveness, never builds the client
//
// # Status Codes
//
// 503 when the client cannot be built, 500 for search failures, 401 for library failures and 422 for invalid
// query parameters.
//
// # Server
//
// [Server] wraps [http.Server] with timeouts from configuration and drains in-flight requests on shutdown.
package server
