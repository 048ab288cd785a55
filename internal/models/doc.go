// Package models defines the data shapes shared by the scraper packages.
//
// The package contains three categories of types:
//
// 1. Raw API data
//   - [Resource] : decoded JSON object returned by the SoundCloud API, read through
//     ordered-key accessors so callers can express field fallbacks declaratively
//
// 2. Normalized records: the output of a scrape run
//   - [TrackRecord] : track with uploader summary and (optionally) comments
//   - [CommentRecord] : single comment on a track
//   - [PlaylistRecord] : playlist or album with its embedded tracks
//   - [UserRecord] : user profile
//
// 3. Persistent entities: database-backed run history
//   - [Run] : one invocation of the scraper and its counters
//   - [StoredRecord] : a record serialized into a run
//   - [StoredOutcome] : per-URL result of a run
//
// Persistent entities implement the Model interface providing ID, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
