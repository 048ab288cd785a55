// package tasks implements the scrape run: URL dispatch, fetch strategies and progress reporting.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/pagination"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/Kiara-243/soundcloud-scraper/internal/urls"
)

// dedupeCacheSize bounds the number of track ids remembered for search de-duplication.
const dedupeCacheSize = 10_000

// Client is the subset of the SoundCloud API used by the fetch strategies.
//
// Implemented by [services.SoundCloudService].
type Client interface {
	Resolve(ctx context.Context, resourceURL string) (models.Resource, error)
	Track(ctx context.Context, id int64) (models.Resource, error)
	User(ctx context.Context, id int64) (models.Resource, error)
	Playlist(ctx context.Context, id int64) (models.Resource, error)
	CommentsPage(ctx context.Context, trackID int64, limit, offset int) (models.Resource, error)
	SearchTracksPage(ctx context.Context, q string, limit, offset int) (models.Resource, error)
}

// RecordStore persists a finished run. Assigns ids to run, outcomes and records.
//
// Implemented by repositories.RunStoreAdapter.
type RecordStore interface {
	SaveRun(run *models.Run, outcomes []models.StoredOutcome, records []*models.StoredRecord) error
}

// Options configures a [ScrapeEngine].
type Options struct {
	IncludeComments  bool
	Limits           pagination.Limits
	CursorScope      string // shared.ScopeRun or shared.ScopeResource
	CommentsPageSize int
	SearchPageSize   int
	DedupeSearch     bool
}

// OptionsFromConfig maps the [scrape] config section to [Options].
func OptionsFromConfig(cfg shared.ScrapeConfig) Options {
	return Options{
		IncludeComments:  cfg.IncludeComments,
		Limits:           pagination.Limits{EndPage: cfg.EndPage, MaxItems: cfg.MaxItems},
		CursorScope:      cfg.CursorScope,
		CommentsPageSize: cfg.CommentsPageSize,
		SearchPageSize:   cfg.SearchPageSize,
		DedupeSearch:     cfg.DedupeSearch,
	}
}

func (o Options) withDefaults() Options {
	if o.CursorScope == "" {
		o.CursorScope = shared.ScopeRun
	}
	if o.CommentsPageSize <= 0 {
		o.CommentsPageSize = 200
	}
	if o.SearchPageSize <= 0 {
		o.SearchPageSize = 50
	}
	return o
}

// Outcome is the result of processing one input URL.
//
// Exactly one of Err, Skipped or success (Records, possibly empty) applies.
type Outcome struct {
	Position       int
	URL            string
	Classification urls.Classification
	Records        []models.Record
	Err            error
	Skipped        bool
	Reason         string
}

// Status returns the persisted status string for the outcome.
func (o Outcome) Status() string {
	switch {
	case o.Err != nil:
		return models.StatusFailed
	case o.Skipped:
		return models.StatusSkipped
	default:
		return models.StatusOK
	}
}

// RunResult contains everything produced by one [ScrapeEngine.Run].
type RunResult struct {
	RunID       string          // Set when a RecordStore persisted the run
	CursorScope string          // Cursor scope used for the run
	URLCount    int             // Number of input URLs
	Records     []models.Record // Records of successful URLs, in input order
	Outcomes    []Outcome       // One per processed input URL
	Succeeded   int
	Failed      int
	Skipped     int
	Pages       int // Paginated requests started
	Items       int // Items received through paginated requests
	StartedAt   time.Time
	FinishedAt  time.Time
}

// ScrapeEngine runs input URLs through classification and the fetch strategies.
//
// URLs are processed sequentially with one request outstanding at a time.
type ScrapeEngine struct {
	client Client
	opts   Options
	store  RecordStore
	logger *log.Logger
}

// NewScrapeEngine creates a ScrapeEngine. A nil logger uses the default logger.
func NewScrapeEngine(client Client, opts Options, logger *log.Logger) *ScrapeEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &ScrapeEngine{client: client, opts: opts.withDefaults(), logger: logger}
}

// WithStore sets an optional sink that persists each finished run.
func (e *ScrapeEngine) WithStore(store RecordStore) *ScrapeEngine {
	e.store = store
	return e
}

// Options returns the effective options.
func (e *ScrapeEngine) Options() Options {
	return e.opts
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ScrapeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run processes inputs in order. A failure on one URL is recorded in its
// [Outcome] and does not stop the run; only ctx cancellation aborts, returning
// the partial result together with the context error.
func (e *ScrapeEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, inputs []string) (*RunResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: SoundCloud client not initialized", shared.ErrServiceUnavailable)
	}

	res := &RunResult{
		CursorScope: e.opts.CursorScope,
		URLCount:    len(inputs),
		Records:     []models.Record{},
		Outcomes:    make([]Outcome, 0, len(inputs)),
		StartedAt:   time.Now(),
	}

	var runCursor *pagination.Cursor
	if e.opts.CursorScope != shared.ScopeResource {
		runCursor = e.opts.Limits.NewCursor()
	}

	var seen *lru.Cache[int64, struct{}]
	if e.opts.DedupeSearch {
		var err error
		if seen, err = newSeenSet(dedupeCacheSize); err != nil {
			return nil, err
		}
	}

	total := len(inputs)
	for i, raw := range inputs {
		if err := ctx.Err(); err != nil {
			e.finish(res)
			return res, err
		}

		step := i + 1
		c := urls.Classify(raw)
		e.sendProgress(progress, classifyUpdate(step, total, c))

		out := Outcome{Position: i, URL: raw, Classification: c}
		switch {
		case !c.Valid:
			e.logger.Warn("skipping invalid SoundCloud URL", "url", raw)
			out.Skipped, out.Reason = true, "invalid SoundCloud URL"
		case !c.Skippable():
			cursor := runCursor
			if cursor == nil {
				cursor = e.opts.Limits.NewCursor()
			}
			pages, items := cursor.CurrentPage(), cursor.ItemsSeen()

			s := &scrape{engine: e, progress: progress, step: step, total: total, cursor: cursor, seen: seen}
			out.Records, out.Err = s.dispatch(ctx, raw, c)

			res.Pages += cursor.CurrentPage() - pages
			res.Items += cursor.ItemsSeen() - items
		default:
			e.logger.Warn("unknown resource type", "type", c.Type, "url", raw)
			out.Skipped, out.Reason = true, fmt.Sprintf("unknown resource type %q", c.Type)
		}

		if out.Err != nil && ctx.Err() != nil {
			e.finish(res)
			return res, ctx.Err()
		}

		switch {
		case out.Err != nil:
			out.Records = nil
			res.Failed++
			e.logger.Error("SoundCloud client error", "url", raw, "kind", ErrorKind(out.Err), "err", out.Err)
		case out.Skipped:
			res.Skipped++
		default:
			res.Succeeded++
			res.Records = append(res.Records, out.Records...)
		}

		res.Outcomes = append(res.Outcomes, out)
		e.sendProgress(progress, outcomeUpdate(step, total, out))
	}

	e.finish(res)
	e.persist(res)
	e.sendProgress(progress, doneUpdate(res))
	e.logger.Info("scraping completed", "records", len(res.Records), "succeeded", res.Succeeded,
		"failed", res.Failed, "skipped", res.Skipped, "pages", res.Pages)
	return res, nil
}

func (e *ScrapeEngine) finish(res *RunResult) {
	res.FinishedAt = time.Now()
}

// persist hands the run to the store. Failures are logged; they never fail the run.
func (e *ScrapeEngine) persist(res *RunResult) {
	if e.store == nil {
		return
	}

	run := models.NewRun(res.CursorScope, res.URLCount, res.StartedAt)
	run.Succeeded, run.Failed, run.Skipped = res.Succeeded, res.Failed, res.Skipped
	run.Pages, run.Items = res.Pages, res.Items
	run.Finish(res.FinishedAt)

	outcomes := make([]models.StoredOutcome, 0, len(res.Outcomes))
	var records []*models.StoredRecord
	for _, out := range res.Outcomes {
		stored := models.StoredOutcome{
			Position:     out.Position,
			URL:          out.URL,
			ResourceType: string(out.Classification.Type),
			Status:       out.Status(),
			Message:      out.Reason,
			RecordCount:  len(out.Records),
		}
		if out.Err != nil {
			stored.ErrorKind = ErrorKind(out.Err)
			stored.Message = out.Err.Error()
		}
		outcomes = append(outcomes, stored)

		for _, rec := range out.Records {
			sr, err := models.NewStoredRecord("", out.Position, out.URL, rec)
			if err != nil {
				e.logger.Warn("failed to encode record", "url", out.URL, "err", err)
				continue
			}
			records = append(records, sr)
		}
	}

	if err := e.store.SaveRun(run, outcomes, records); err != nil {
		e.logger.Error("failed to persist run", "err", err)
		return
	}
	res.RunID = run.ID()
	e.logger.Debug("run persisted", "run_id", run.ID(), "records", len(records))
}

// newSeenSet builds the bounded id set used to drop repeated search results.
func newSeenSet(size int) (*lru.Cache[int64, struct{}], error) {
	seen, err := lru.New[int64, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedupe cache: %w", err)
	}
	return seen, nil
}

// ErrorKind classifies an outcome error for logs and persistence:
// missing_id, transport, config, canceled or unknown.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, shared.ErrMissingID):
		return "missing_id"
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, pagination.ErrNoCursor),
		errors.Is(err, shared.ErrInvalidConfig):
		return "config"
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrDecode),
		errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "transport"
	default:
		return "unknown"
	}
}

func phaseFor(t urls.ResourceType) Phase {
	switch t {
	case urls.Track:
		return FetchTrack
	case urls.Playlist, urls.Album:
		return FetchPlaylist
	case urls.User:
		return FetchUser
	case urls.Search:
		return SearchTracks
	default:
		return Classify
	}
}
