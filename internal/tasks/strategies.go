package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/normalize"
	"github.com/Kiara-243/soundcloud-scraper/internal/pagination"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/Kiara-243/soundcloud-scraper/internal/urls"
)

// scrape holds the per-URL state handed to a fetch strategy.
type scrape struct {
	engine   *ScrapeEngine
	progress chan<- ProgressUpdate
	step     int
	total    int
	cursor   *pagination.Cursor
	seen     *lru.Cache[int64, struct{}]
}

func (s *scrape) dispatch(ctx context.Context, rawURL string, c urls.Classification) ([]models.Record, error) {
	switch c.Type {
	case urls.Track:
		return s.track(ctx, rawURL)
	case urls.Playlist, urls.Album:
		return s.playlist(ctx, rawURL)
	case urls.User:
		return s.user(ctx, rawURL)
	case urls.Search:
		return s.search(ctx, rawURL, c)
	default:
		return nil, fmt.Errorf("%w: no strategy for resource type %q", shared.ErrInvalidInput, c.Type)
	}
}

// resolveID resolves rawURL and returns its numeric id. A kind outside expected
// is logged and processing continues.
func (s *scrape) resolveID(ctx context.Context, rawURL string, expected ...string) (int64, error) {
	s.send(resolveUpdate(s.step, s.total, rawURL))

	res, err := s.engine.client.Resolve(ctx, rawURL)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", rawURL, err)
	}

	if kind := res.Kind(); !slices.Contains(expected, kind) {
		s.engine.logger.Warn("resolved resource kind mismatch", "url", rawURL, "expected", strings.Join(expected, "|"), "kind", kind)
	}

	id, ok := res.ID()
	if !ok {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingID, rawURL)
	}
	return id, nil
}

func (s *scrape) track(ctx context.Context, rawURL string) ([]models.Record, error) {
	id, err := s.resolveID(ctx, rawURL, models.KindTrack)
	if err != nil {
		return nil, err
	}

	s.send(fetchUpdate(FetchTrack, s.step, s.total, id))
	raw, err := s.engine.client.Track(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("track %d: %w", id, err)
	}

	var comments []models.CommentRecord
	if s.engine.opts.IncludeComments {
		s.send(commentsUpdate(s.step, s.total, id))

		fetch := func(ctx context.Context, limit, offset int) (models.Resource, error) {
			return s.engine.client.CommentsPage(ctx, id, limit, offset)
		}
		items, err := pagination.Collect(ctx, s.cursor, s.engine.opts.CommentsPageSize, fetch, normalize.CommentItemKeys...)
		if err != nil {
			return nil, fmt.Errorf("comments for track %d: %w", id, err)
		}

		s.engine.logger.Info("fetched comments", "track_id", id, "count", len(items), "pages", s.cursor.CurrentPage())
		comments = normalize.Comments(items)
	}

	rec := normalize.Track(raw, comments)
	s.remember(rec.ID)
	return []models.Record{rec}, nil
}

func (s *scrape) playlist(ctx context.Context, rawURL string) ([]models.Record, error) {
	id, err := s.resolveID(ctx, rawURL, models.KindPlaylist, models.KindAlbum)
	if err != nil {
		return nil, err
	}

	s.send(fetchUpdate(FetchPlaylist, s.step, s.total, id))
	raw, err := s.engine.client.Playlist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("playlist %d: %w", id, err)
	}
	return []models.Record{normalize.Playlist(raw)}, nil
}

func (s *scrape) user(ctx context.Context, rawURL string) ([]models.Record, error) {
	id, err := s.resolveID(ctx, rawURL, models.KindUser)
	if err != nil {
		return nil, err
	}

	s.send(fetchUpdate(FetchUser, s.step, s.total, id))
	raw, err := s.engine.client.User(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return []models.Record{normalize.User(raw)}, nil
}

// search collects track search results for the URL's term. A missing or blank
// term yields no records and no error.
func (s *scrape) search(ctx context.Context, rawURL string, c urls.Classification) ([]models.Record, error) {
	term := strings.TrimSpace(c.SearchTerm)
	if !c.HasSearchTerm || term == "" {
		s.engine.logger.Warn("no search term could be derived from URL", "url", rawURL)
		return []models.Record{}, nil
	}

	s.send(searchUpdate(s.step, s.total, term))
	fetch := func(ctx context.Context, limit, offset int) (models.Resource, error) {
		return s.engine.client.SearchTracksPage(ctx, term, limit, offset)
	}
	items, err := pagination.Collect(ctx, s.cursor, s.engine.opts.SearchPageSize, fetch)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	records := make([]models.Record, 0, len(items))
	dropped := 0
	for _, item := range items {
		rec := normalize.Track(item, nil)
		if s.duplicate(rec.ID) {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	s.engine.logger.Info("search completed", "q", term, "tracks", len(records), "duplicates", dropped, "pages", s.cursor.CurrentPage())
	return records, nil
}

// duplicate reports whether id was already emitted in this run, remembering it otherwise.
func (s *scrape) duplicate(id *int64) bool {
	if s.seen == nil || id == nil {
		return false
	}
	found, _ := s.seen.ContainsOrAdd(*id, struct{}{})
	return found
}

func (s *scrape) remember(id *int64) {
	if s.seen != nil && id != nil {
		s.seen.Add(*id, struct{}{})
	}
}

func (s *scrape) send(update ProgressUpdate) {
	s.engine.sendProgress(s.progress, update)
}
