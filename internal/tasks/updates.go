package tasks

import (
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/urls"
)

// ProgressUpdate represents a progress event during a scrape run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current input URL (1-based)
	Total   int    // Total input URLs
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Classify Phase = iota
	Resolve
	FetchTrack
	FetchComments
	FetchPlaylist
	FetchUser
	SearchTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case Classify:
		return "classify"
	case Resolve:
		return "resolve"
	case FetchTrack:
		return "fetch_track"
	case FetchComments:
		return "fetch_comments"
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchUser:
		return "fetch_user"
	case SearchTracks:
		return "search_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func classifyUpdate(step, total int, c urls.Classification) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Classify,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, c),
		Data:    c,
	}
}

func resolveUpdate(step, total int, rawURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving %s...", step, total, rawURL),
	}
}

func fetchUpdate(phase Phase, step, total int, id int64) ProgressUpdate {
	var what string
	switch phase {
	case FetchTrack:
		what = "track"
	case FetchPlaylist:
		what = "playlist"
	case FetchUser:
		what = "user"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s %d...", step, total, what, id),
	}
}

func commentsUpdate(step, total int, trackID int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchComments,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching comments for track %d...", step, total, trackID),
	}
}

func searchUpdate(step, total int, term string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching tracks for %q...", step, total, term),
	}
}

func outcomeUpdate(step, total int, out Outcome) ProgressUpdate {
	var msg string
	switch {
	case out.Err != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, out.URL, out.Err)
	case out.Skipped:
		msg = fmt.Sprintf("[%d/%d] - %s: %s", step, total, out.URL, out.Reason)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s (%d records)", step, total, out.URL, len(out.Records))
	}
	return ProgressUpdate{
		Phase:   phaseFor(out.Classification.Type),
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    out,
	}
}

func doneUpdate(res *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Done,
		Step:  res.URLCount,
		Total: res.URLCount,
		Message: fmt.Sprintf("Scraping completed: %d records (%d ok, %d failed, %d skipped)",
			len(res.Records), res.Succeeded, res.Failed, res.Skipped),
		Data: res,
	}
}
