package pagination

// Limits holds the page and item caps for a cursor. Values ≤ 0 mean unlimited.
type Limits struct {
	EndPage  int `json:"end_page"`
	MaxItems int `json:"max_items"`
}

// NewCursor returns a fresh cursor bounded by l.
func (l Limits) NewCursor() *Cursor {
	return NewCursor(l.EndPage, l.MaxItems)
}

// Cursor tracks progress through paginated calls. Counters only grow.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	endPage     int
	maxItems    int
	currentPage int
	itemsSeen   int
}

// NewCursor creates a cursor. endPage or maxItems ≤ 0 disables that limit.
func NewCursor(endPage, maxItems int) *Cursor {
	return &Cursor{endPage: max(endPage, 0), maxItems: max(maxItems, 0)}
}

// CanFetchNextPage reports whether neither the page limit nor the item cap has been reached.
func (c *Cursor) CanFetchNextPage() bool {
	if c.endPage > 0 && c.currentPage >= c.endPage {
		return false
	}
	return !c.ReachedMaxItems()
}

// StartNewPage records that a page request is about to be made.
func (c *Cursor) StartNewPage() {
	c.currentPage++
}

// RegisterItems adds count received items. Negative counts are treated as zero.
func (c *Cursor) RegisterItems(count int) {
	c.itemsSeen += max(count, 0)
}

// ReachedMaxItems reports whether an item cap is set and has been met.
func (c *Cursor) ReachedMaxItems() bool {
	return c.maxItems > 0 && c.itemsSeen >= c.maxItems
}

func (c *Cursor) CurrentPage() int { return c.currentPage }
func (c *Cursor) ItemsSeen() int   { return c.itemsSeen }
func (c *Cursor) Limits() Limits   { return Limits{EndPage: c.endPage, MaxItems: c.maxItems} }
