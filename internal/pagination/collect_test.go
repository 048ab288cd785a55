package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	tu "github.com/Kiara-243/soundcloud-scraper/internal/testing"
)

type call struct{ limit, offset int }

// pager serves pages built by page and records every request.
type pager struct {
	calls []call
	page  func(n int) (models.Resource, error)
}

func (p *pager) fetch(_ context.Context, limit, offset int) (models.Resource, error) {
	p.calls = append(p.calls, call{limit, offset})
	return p.page(len(p.calls))
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil Cursor", func(t *testing.T) {
		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(1, 1, true), nil }}

		_, err := Collect(ctx, nil, 50, p.fetch)
		if !errors.Is(err, ErrNoCursor) {
			t.Errorf("expected ErrNoCursor, got %v", err)
		}
		if len(p.calls) != 0 {
			t.Errorf("expected no remote calls, got %d", len(p.calls))
		}
	})

	t.Run("Stops Without Next", func(t *testing.T) {
		p := &pager{page: func(n int) (models.Resource, error) {
			return tu.Page(10, int64(n*100), n < 3), nil
		}}

		cursor := NewCursor(0, 0)
		items, err := Collect(ctx, cursor, 10, p.fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 30 || len(p.calls) != 3 {
			t.Errorf("expected 30 items over 3 calls, got %d items over %d calls", len(items), len(p.calls))
		}
		if cursor.CurrentPage() != 3 || cursor.ItemsSeen() != 30 {
			t.Errorf("unexpected cursor state page=%d items=%d", cursor.CurrentPage(), cursor.ItemsSeen())
		}
	})

	t.Run("Always Next Terminates On End Page", func(t *testing.T) {
		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(5, 1, true), nil }}

		cursor := NewCursor(4, 0)
		items, err := Collect(ctx, cursor, 5, p.fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(p.calls) != 4 || len(items) != 20 {
			t.Errorf("expected 4 calls and 20 items, got %d calls and %d items", len(p.calls), len(items))
		}
	})

	t.Run("Always Next Terminates On Max Items", func(t *testing.T) {
		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(5, 1, true), nil }}

		items, err := Collect(ctx, NewCursor(0, 12), 5, p.fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(p.calls) != 3 || len(items) != 15 {
			t.Errorf("expected 3 calls and 15 items, got %d calls and %d items", len(p.calls), len(items))
		}
	})

	t.Run("Empty First Page", func(t *testing.T) {
		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(0, 1, true), nil }}

		cursor := NewCursor(0, 0)
		items, err := Collect(ctx, cursor, 50, p.fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 0 || len(p.calls) != 1 {
			t.Errorf("expected one call and no items, got %d calls and %d items", len(p.calls), len(items))
		}
		if cursor.CurrentPage() != 1 || cursor.ItemsSeen() != 0 {
			t.Errorf("expected page=1 items=0, got page=%d items=%d", cursor.CurrentPage(), cursor.ItemsSeen())
		}
	})

	t.Run("Offset Advances By Items Received", func(t *testing.T) {
		sizes := []int{7, 3, 9}
		p := &pager{page: func(n int) (models.Resource, error) {
			return tu.Page(sizes[n-1], 1, n < len(sizes)), nil
		}}

		if _, err := Collect(ctx, NewCursor(0, 0), 50, p.fetch); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []call{{50, 0}, {50, 7}, {50, 10}}
		if len(p.calls) != len(want) {
			t.Fatalf("expected %d calls, got %d", len(want), len(p.calls))
		}
		for i, c := range want {
			if p.calls[i] != c {
				t.Errorf("call %d: expected %+v, got %+v", i, c, p.calls[i])
			}
		}
	})

	t.Run("Exhausted Cursor Makes No Calls", func(t *testing.T) {
		cursor := NewCursor(1, 0)
		cursor.StartNewPage()

		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(1, 1, true), nil }}
		items, err := Collect(ctx, cursor, 50, p.fetch)
		if err != nil || len(items) != 0 || len(p.calls) != 0 {
			t.Errorf("expected no calls, got items=%d calls=%d err=%v", len(items), len(p.calls), err)
		}
	})

	t.Run("Fallback Keys", func(t *testing.T) {
		p := &pager{page: func(int) (models.Resource, error) {
			return models.Resource{"comments": []any{map[string]any{"id": 1}, map[string]any{"id": 2}}}, nil
		}}

		items, err := Collect(ctx, NewCursor(0, 0), 200, p.fetch, "collection", "comments")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 2 {
			t.Errorf("expected 2 items from comments key, got %d", len(items))
		}
	})

	t.Run("Fetch Error", func(t *testing.T) {
		boom := errors.New("boom")
		p := &pager{page: func(n int) (models.Resource, error) {
			if n == 2 {
				return nil, boom
			}
			return tu.Page(3, 1, true), nil
		}}

		_, err := Collect(ctx, NewCursor(0, 0), 3, p.fetch)
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped fetch error, got %v", err)
		}
		if err != nil && err.Error() != fmt.Sprintf("page 2: %v", boom) {
			t.Errorf("expected page number in error, got %q", err.Error())
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		p := &pager{page: func(int) (models.Resource, error) { return tu.Page(1, 1, true), nil }}
		_, err := Collect(cctx, NewCursor(0, 0), 1, p.fetch)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(p.calls) != 0 {
			t.Errorf("expected no calls, got %d", len(p.calls))
		}
	})
}
