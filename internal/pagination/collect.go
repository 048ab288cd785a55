package pagination

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

// ErrNoCursor is returned when a paginated operation is started without a cursor.
var ErrNoCursor = errors.New("pagination cursor is required")

// PageFunc fetches one page of at most limit items starting at offset.
type PageFunc func(ctx context.Context, limit, offset int) (models.Resource, error)

// Collect fetches pages until the cursor is exhausted, a page comes back empty,
// the page has no next-page indicator, or the item cap is reached, in that order.
//
// Items are read from the first non-empty of keys ("collection" when none are given).
// The offset advances by the number of items received, not by pageSize.
func Collect(ctx context.Context, cursor *Cursor, pageSize int, fetch PageFunc, keys ...string) ([]models.Resource, error) {
	if cursor == nil {
		return nil, ErrNoCursor
	}

	var items []models.Resource
	offset := 0

	for cursor.CanFetchNextPage() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cursor.StartNewPage()
		page, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", cursor.CurrentPage(), err)
		}

		batch := page.Collection(keys...)
		if len(batch) == 0 {
			break
		}

		cursor.RegisterItems(len(batch))
		items = append(items, batch...)
		offset += len(batch)

		if !page.HasNext() || cursor.ReachedMaxItems() {
			break
		}
	}

	return items, nil
}
