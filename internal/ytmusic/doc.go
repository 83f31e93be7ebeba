// Package ytmusic is a small client for the YouTube Music InnerTube API.
//
// # Authentication
//
// Requests are authorized with an OAuth 2.0 bearer token obtained through the device authorization grant
// ([DeviceFlow]) and persisted in a credential file ([SaveToken], [LoadToken]). The file uses the same field names as
// the community ytmusicapi oauth.json so either tool can read it. [NewFromFile] wraps the stored token in a refreshing
// [oauth2.TokenSource]; refreshed access tokens live in memory only and the file is never rewritten.
//
// # Requests
//
// Every call is a POST to https://music.youtube.com/youtubei/v1/{endpoint} with a WEB_REMIX client context.
// Responses are deeply nested renderer trees; parsing is done with gjson paths and only the fields exposed by
// [SearchResult], [LibraryPlaylist], [Track] and [Playlist] are extracted.
//
// Paged endpoints follow continuation tokens until the requested limit is reached. Outbound calls can be throttled
// with a token-bucket limiter (see [Options.RateLimit]).
//
// # Errors
//
// Non-2xx responses are returned as [*APIError]. Status 401 and 403 match [shared.ErrAuthentication] with
// [errors.Is]; all other failures match [shared.ErrUpstream].
package ytmusic
