// Package services implements the remote call collaborator for the SoundCloud API v2.
//
// # SoundCloud Service
//
// [SoundCloudService] issues GET requests against https://api-v2.soundcloud.com,
// adding the client_id parameter and the User-Agent and Accept headers to every call.
// Responses are decoded with number preservation into [models.Resource].
//
// High-level calls map to endpoints:
//   - Resolve: GET /resolve?url=...
//   - Track, User, Playlist: GET /tracks/{id}, /users/{id}, /playlists/{id}
//   - CommentsPage: GET /tracks/{id}/comments?limit=&offset=
//   - SearchTracksPage: GET /search/tracks?q=&limit=&offset=
//
// # Pacing and Authorization
//
// A [rate.Limiter] paces requests when rate_limit is positive. There is no retry
// or backoff. An optional static access token is attached through [oauth2.Transport].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : no client_id configured
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrServiceUnavailable] : 5xx status (also wraps ErrAPIRequest)
//   - [shared.ErrDecode] : body is not a JSON object
//
// [SoundCloudService.Raw] returns the undecoded response for any status; the
// CLI's api command uses it for debugging.
package services
