// Package services defines the [LibraryService] interface for the remote music library and
// implements it for YouTube Music.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The auth_file path is sent via X-Auth-File header on each request.
// When a token is configured, requests carry an Authorization header from an [oauth2.StaticTokenSource].
// Every request waits on a [rate.Limiter] before it is sent.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : Authenticate() called without auth_file or token
//   - [shared.ErrServiceUnavailable] : proxy unreachable
//   - [shared.ErrAPIRequest] : non-2xx response
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//
// # API Mappings
//
// Proxy responses are converted to [models.TrackRef]:
//   - videoId → RemoteID
//   - setVideoId → PlaylistEntryID (playlist membership, required for removal)
//   - artists[0].name → Artist
package services
