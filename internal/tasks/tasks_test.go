package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/pagination"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	tu "github.com/Kiara-243/soundcloud-scraper/internal/testing"
)

const (
	trackURL    = "https://soundcloud.com/artist/track-slug"
	playlistURL = "https://soundcloud.com/artist/sets/mix"
	albumURL    = "https://soundcloud.com/artist/albums/lp"
	userURL     = "https://soundcloud.com/artist"
	searchURL   = "https://soundcloud.com/search?q=lofi"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newClient() *tu.MockClient {
	return &tu.MockClient{
		Resolved: map[string]models.Resource{
			trackURL:    {"kind": "track", "id": 1},
			playlistURL: {"kind": "playlist", "id": 2},
			albumURL:    {"kind": "album", "id": 3},
			userURL:     {"kind": "user", "id": 4},
		},
		Tracks:    map[int64]models.Resource{1: {"id": 1, "title": "Track One"}},
		Playlists: map[int64]models.Resource{2: {"id": 2, "kind": "playlist", "title": "Mix"}, 3: {"id": 3, "kind": "album", "title": "LP"}},
		Users:     map[int64]models.Resource{4: {"id": 4, "username": "artist"}},
	}
}

func alwaysNext(pageSize int) func(int64, int, int) (models.Resource, error) {
	return func(_ int64, limit, offset int) (models.Resource, error) {
		return tu.Page(pageSize, int64(offset+1), true), nil
	}
}

type fakeStore struct {
	run      *models.Run
	outcomes []models.StoredOutcome
	records  []*models.StoredRecord
	err      error
}

func (f *fakeStore) SaveRun(run *models.Run, outcomes []models.StoredOutcome, records []*models.StoredRecord) error {
	if f.err != nil {
		return f.err
	}
	run.SetID("run-1")
	f.run, f.outcomes, f.records = run, outcomes, records
	return nil
}

func TestScrapeEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil Client", func(t *testing.T) {
		_, err := NewScrapeEngine(nil, Options{}, quietLogger()).Run(ctx, nil, []string{trackURL})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		opts := NewScrapeEngine(newClient(), Options{}, nil).Options()
		if opts.CursorScope != shared.ScopeRun || opts.CommentsPageSize != 200 || opts.SearchPageSize != 50 {
			t.Errorf("unexpected defaults: %+v", opts)
		}
	})

	t.Run("Track With End Page One", func(t *testing.T) {
		client := newClient()
		client.CommentsFn = alwaysNext(200)

		engine := NewScrapeEngine(client, Options{IncludeComments: true, Limits: pagination.Limits{EndPage: 1}}, quietLogger())
		res, err := engine.Run(ctx, nil, []string{trackURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := client.CallCount("comments"); got != 1 {
			t.Errorf("expected exactly one comments page, got %d", got)
		}
		if len(res.Records) != 1 {
			t.Fatalf("expected one record, got %d", len(res.Records))
		}

		rec, ok := res.Records[0].(*models.TrackRecord)
		if !ok {
			t.Fatalf("expected *models.TrackRecord, got %T", res.Records[0])
		}
		if len(rec.Comments) != 200 {
			t.Errorf("expected 200 comments, got %d", len(rec.Comments))
		}
		if rec.CommentCount == nil || *rec.CommentCount != 200 {
			t.Errorf("expected comment_count fallback to 200, got %v", rec.CommentCount)
		}
		if res.Pages != 1 || res.Items != 200 || res.Succeeded != 1 {
			t.Errorf("unexpected counters: pages=%d items=%d ok=%d", res.Pages, res.Items, res.Succeeded)
		}
	})

	t.Run("Track Without Comments", func(t *testing.T) {
		client := newClient()
		client.CommentsFn = alwaysNext(10)

		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{trackURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.CallCount("comments") != 0 {
			t.Error("expected no comment requests")
		}
		if rec := res.Records[0].(*models.TrackRecord); rec.Comments == nil || len(rec.Comments) != 0 {
			t.Errorf("expected empty comments, got %v", rec.Comments)
		}
	})

	t.Run("Search With Max Items", func(t *testing.T) {
		client := newClient()
		client.SearchFn = func(q string, limit, offset int) (models.Resource, error) {
			if q != "lofi" {
				t.Errorf("expected term lofi, got %q", q)
			}
			return tu.Page(limit, int64(offset+1), true), nil
		}

		engine := NewScrapeEngine(client, Options{Limits: pagination.Limits{MaxItems: 25}, SearchPageSize: 50}, quietLogger())
		res, err := engine.Run(ctx, nil, []string{searchURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := client.CallCount("search"); got != 1 {
			t.Errorf("expected one search request, got %d", got)
		}
		if client.Calls[0] != "search lofi limit=50 offset=0" {
			t.Errorf("unexpected call %q", client.Calls[0])
		}
		if len(res.Records) != 50 {
			t.Errorf("expected the whole first page (50 records), got %d", len(res.Records))
		}
		for _, r := range res.Records {
			if rec := r.(*models.TrackRecord); len(rec.Comments) != 0 {
				t.Error("search results must not carry comments")
			}
		}
	})

	t.Run("Search Without Term", func(t *testing.T) {
		client := newClient()
		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{
			"https://soundcloud.com/search",
			"https://soundcloud.com/search?q=",
			"https://soundcloud.com/search?q=%20%20",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(client.Calls) != 0 {
			t.Errorf("expected no remote calls, got %v", client.Calls)
		}
		if res.Succeeded != 3 || len(res.Records) != 0 {
			t.Errorf("expected three empty successes, got ok=%d records=%d", res.Succeeded, len(res.Records))
		}
	})

	t.Run("Unresolvable Track Does Not Stop The Run", func(t *testing.T) {
		client := newClient()
		missing := "https://soundcloud.com/ghost/gone"
		client.Resolved[missing] = models.Resource{"kind": "track"}

		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{missing, userURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(res.Outcomes) != 2 {
			t.Fatalf("expected two outcomes, got %d", len(res.Outcomes))
		}
		first := res.Outcomes[0]
		if !errors.Is(first.Err, shared.ErrMissingID) || len(first.Records) != 0 {
			t.Errorf("expected missing id failure with no records, got %+v", first)
		}
		if ErrorKind(first.Err) != "missing_id" || first.Status() != models.StatusFailed {
			t.Errorf("unexpected kind/status %s/%s", ErrorKind(first.Err), first.Status())
		}
		if client.CallCount("track") != 0 {
			t.Error("expected no track fetch without an id")
		}

		if res.Failed != 1 || res.Succeeded != 1 || len(res.Records) != 1 {
			t.Errorf("unexpected counters: failed=%d ok=%d records=%d", res.Failed, res.Succeeded, len(res.Records))
		}
		if _, ok := res.Records[0].(*models.UserRecord); !ok {
			t.Errorf("expected user record, got %T", res.Records[0])
		}
	})

	t.Run("Transport Error Is Isolated", func(t *testing.T) {
		client := newClient()
		client.ResolveErr = map[string]error{playlistURL: fmt.Errorf("%w: status 500", shared.ErrAPIRequest)}

		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{playlistURL, albumURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ErrorKind(res.Outcomes[0].Err) != "transport" {
			t.Errorf("expected transport error, got %v", res.Outcomes[0].Err)
		}
		if len(res.Records) != 1 || res.Records[0].RecordKind() != models.KindAlbum {
			t.Errorf("expected one album record, got %v", res.Records)
		}
	})

	t.Run("Comment Page Error Drops Track", func(t *testing.T) {
		client := newClient()
		client.CommentsFn = func(_ int64, limit, offset int) (models.Resource, error) {
			if offset > 0 {
				return nil, shared.ErrDecode
			}
			return tu.Page(limit, 1, true), nil
		}

		res, err := NewScrapeEngine(client, Options{IncludeComments: true, CommentsPageSize: 5}, quietLogger()).Run(ctx, nil, []string{trackURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Failed != 1 || len(res.Records) != 0 {
			t.Errorf("expected failed track with no records, got failed=%d records=%d", res.Failed, len(res.Records))
		}
	})

	t.Run("Skips Invalid And Unknown", func(t *testing.T) {
		client := newClient()
		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{
			"https://example.com/artist/track",
			"not a url",
			"https://soundcloud.com/",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Skipped != 3 || len(client.Calls) != 0 {
			t.Errorf("expected 3 skips and no calls, got skipped=%d calls=%v", res.Skipped, client.Calls)
		}
		for _, out := range res.Outcomes {
			if out.Status() != models.StatusSkipped || out.Reason == "" {
				t.Errorf("expected skipped outcome with reason, got %+v", out)
			}
		}
	})

	t.Run("Kind Mismatch Proceeds", func(t *testing.T) {
		client := newClient()
		client.Resolved[trackURL] = models.Resource{"kind": "playlist", "id": 1}

		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(ctx, nil, []string{trackURL})
		if err != nil || len(res.Records) != 1 {
			t.Errorf("expected one record despite kind mismatch, got %d (err %v)", len(res.Records), err)
		}
	})

	t.Run("Records Keep Input Order", func(t *testing.T) {
		res, err := NewScrapeEngine(newClient(), Options{}, quietLogger()).Run(ctx, nil, []string{userURL, playlistURL, trackURL, albumURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{models.KindUser, models.KindPlaylist, models.KindTrack, models.KindAlbum}
		if len(res.Records) != len(want) {
			t.Fatalf("expected %d records, got %d", len(want), len(res.Records))
		}
		for i, kind := range want {
			if res.Records[i].RecordKind() != kind {
				t.Errorf("record %d: expected %s, got %s", i, kind, res.Records[i].RecordKind())
			}
		}
	})

	t.Run("Cursor Scope", func(t *testing.T) {
		second := "https://soundcloud.com/artist/other"
		setup := func() *tu.MockClient {
			client := newClient()
			client.Resolved[second] = models.Resource{"kind": "track", "id": 5}
			client.Tracks[5] = models.Resource{"id": 5}
			client.CommentsFn = alwaysNext(10)
			return client
		}
		opts := Options{IncludeComments: true, Limits: pagination.Limits{EndPage: 2}}

		t.Run("Run Shares One Budget", func(t *testing.T) {
			client := setup()
			res, err := NewScrapeEngine(client, opts, quietLogger()).Run(ctx, nil, []string{trackURL, second})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := client.CallCount("comments"); got != 2 {
				t.Errorf("expected 2 comment pages across the run, got %d", got)
			}
			if res.Pages != 2 {
				t.Errorf("expected 2 pages, got %d", res.Pages)
			}
			if rec := res.Records[1].(*models.TrackRecord); len(rec.Comments) != 0 {
				t.Errorf("expected exhausted cursor to yield no comments for the second track, got %d", len(rec.Comments))
			}
		})

		t.Run("Resource Gets Fresh Cursors", func(t *testing.T) {
			client := setup()
			scoped := opts
			scoped.CursorScope = shared.ScopeResource

			res, err := NewScrapeEngine(client, scoped, quietLogger()).Run(ctx, nil, []string{trackURL, second})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := client.CallCount("comments"); got != 4 {
				t.Errorf("expected 4 comment pages, got %d", got)
			}
			if res.Pages != 4 || res.Items != 40 {
				t.Errorf("expected pages=4 items=40, got pages=%d items=%d", res.Pages, res.Items)
			}
		})
	})

	t.Run("Dedupe Search", func(t *testing.T) {
		client := newClient()
		client.SearchFn = func(q string, limit, offset int) (models.Resource, error) {
			return tu.Page(3, 1, false), nil
		}
		inputs := []string{trackURL, searchURL, "https://soundcloud.com/search?q=other"}

		res, err := NewScrapeEngine(client, Options{DedupeSearch: true}, quietLogger()).Run(ctx, nil, inputs)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		// track 1 from the track URL, then tracks 2 and 3 once.
		if len(res.Records) != 3 {
			t.Errorf("expected 3 unique records, got %d", len(res.Records))
		}
		if res.Items != 6 {
			t.Errorf("expected the cursor to count every retrieved item (6), got %d", res.Items)
		}

		res, err = NewScrapeEngine(newClientWithSearch(), Options{}, quietLogger()).Run(ctx, nil, inputs)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(res.Records) != 7 {
			t.Errorf("expected 7 records without dedupe, got %d", len(res.Records))
		}
	})

	t.Run("Seen Set Size", func(t *testing.T) {
		if _, err := newSeenSet(0); err == nil {
			t.Error("expected error for a zero-sized dedupe cache")
		}
		seen, err := newSeenSet(dedupeCacheSize)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if seen.Len() != 0 {
			t.Errorf("expected an empty cache, got %d entries", seen.Len())
		}
	})

	t.Run("Progress", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 64)
		res, err := NewScrapeEngine(newClient(), Options{}, quietLogger()).Run(ctx, progress, []string{userURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		want := []Phase{Classify, Resolve, FetchUser, FetchUser, Done}
		if fmt.Sprint(phases) != fmt.Sprint(want) {
			t.Errorf("expected phases %v, got %v", want, phases)
		}
		if res.URLCount != 1 {
			t.Errorf("expected url count 1, got %d", res.URLCount)
		}
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		res, err := NewScrapeEngine(newClient(), Options{}, quietLogger()).Run(ctx, progress, []string{userURL, trackURL})
		if err != nil || len(res.Records) != 2 {
			t.Errorf("expected run to finish with an unread channel, got %v records=%d", err, len(res.Records))
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		client := newClient()
		res, err := NewScrapeEngine(client, Options{}, quietLogger()).Run(cctx, nil, []string{userURL, trackURL})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if res == nil || len(res.Outcomes) != 0 || len(client.Calls) != 0 {
			t.Errorf("expected an empty partial result, got %+v", res)
		}
	})

	t.Run("Store", func(t *testing.T) {
		store := &fakeStore{}
		res, err := NewScrapeEngine(newClient(), Options{}, quietLogger()).WithStore(store).
			Run(ctx, nil, []string{userURL, "https://example.com/x", playlistURL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if res.RunID != "run-1" {
			t.Errorf("expected run id from store, got %q", res.RunID)
		}
		if store.run.URLCount != 3 || store.run.Succeeded != 2 || store.run.Skipped != 1 || store.run.FinishedAt == nil {
			t.Errorf("unexpected run: %+v", store.run)
		}
		if len(store.outcomes) != 3 || store.outcomes[1].Status != models.StatusSkipped {
			t.Errorf("unexpected outcomes: %+v", store.outcomes)
		}
		if len(store.records) != 2 || store.records[1].Position != 2 || store.records[1].SourceURL != playlistURL {
			t.Errorf("unexpected records: %+v", store.records)
		}
	})

	t.Run("Store Failure Is Logged", func(t *testing.T) {
		store := &fakeStore{err: errors.New("disk full")}
		res, err := NewScrapeEngine(newClient(), Options{}, quietLogger()).WithStore(store).Run(ctx, nil, []string{userURL})
		if err != nil || res.RunID != "" || len(res.Records) != 1 {
			t.Errorf("expected run to succeed without id, got err=%v id=%q", err, res.RunID)
		}
	})
}

func newClientWithSearch() *tu.MockClient {
	client := newClient()
	client.SearchFn = func(q string, limit, offset int) (models.Resource, error) {
		return tu.Page(3, 1, false), nil
	}
	return client
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("wrap: %w", context.Canceled), "canceled"},
		{fmt.Errorf("%w: x", shared.ErrMissingID), "missing_id"},
		{fmt.Errorf("%w: x", shared.ErrMissingCredentials), "config"},
		{pagination.ErrNoCursor, "config"},
		{fmt.Errorf("%w: status 404", shared.ErrAPIRequest), "transport"},
		{shared.ErrDecode, "transport"},
		{context.DeadlineExceeded, "transport"},
		{errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Classify: "classify", FetchComments: "fetch_comments", SearchTracks: "search_tracks", Done: "done", Phase(99): ""} {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}
