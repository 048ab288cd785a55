// Package ui implements an interactive terminal interface for scrape runs using bubbletea's Elm architecture.
//
// The TUI walks through a short workflow:
//  1. [ConfirmView] : Review the queued URLs before starting
//  2. [ScrapeView] : Monitor real-time progress updates from the engine
//  3. [ResultView] : Browse per-URL outcomes with counts for the run
//  4. [DetailView] : Inspect the records produced by one URL
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the ScrapeEngine, which runs on its own goroutine;
// the model only reads from that channel.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
