// Package tasks orchestrates a scrape run with real-time progress reporting.
//
// # Dispatch Loop
//
// [ScrapeEngine.Run] takes an ordered list of input URLs. Each URL is classified
// (see package urls); invalid URLs and valid URLs of unknown type are logged and
// skipped. The rest go to the fetch strategy for their resource type:
//
//  1. Track: resolve → track → optional paginated comments
//  2. Playlist / Album: resolve → playlist with embedded tracks (no pagination)
//  3. User: resolve → user profile
//  4. Search: paginated track search for the URL's q term
//
// Failures are captured per URL in an [Outcome] and never stop the run. Only
// context cancellation aborts, returning the partial [RunResult].
//
// # Pagination
//
// Paginated strategies share one [pagination.Cursor] for the whole run by default
// (cursor_scope "run"), so end_page and max_items are global budgets. With cursor_scope
// "resource" each URL gets a fresh cursor.
//
// # Progress Reporting
//
// Updates are sent on a channel with select/default so reporting never blocks the run.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
//
// # Persistence
//
// The optional [RecordStore] receives each finished run. Store errors are logged
// and do not affect the returned result.
package tasks
