package pagination

import "testing"

func TestCursor(t *testing.T) {
	t.Run("Unlimited", func(t *testing.T) {
		c := NewCursor(0, 0)
		for range 100 {
			if !c.CanFetchNextPage() {
				t.Fatal("unlimited cursor should always allow another page")
			}
			c.StartNewPage()
			c.RegisterItems(1000)
		}
		if c.ReachedMaxItems() {
			t.Error("unlimited cursor never reaches max items")
		}
	})

	t.Run("End Page", func(t *testing.T) {
		c := NewCursor(2, 0)
		c.StartNewPage()
		if !c.CanFetchNextPage() {
			t.Error("expected second page to be allowed")
		}
		c.StartNewPage()
		if c.CanFetchNextPage() {
			t.Error("expected page limit to stop the cursor")
		}
	})

	t.Run("Max Items", func(t *testing.T) {
		c := NewCursor(0, 25)
		c.StartNewPage()
		c.RegisterItems(24)
		if c.ReachedMaxItems() || !c.CanFetchNextPage() {
			t.Error("24 of 25 items should not exhaust the cursor")
		}
		c.RegisterItems(1)
		if !c.ReachedMaxItems() {
			t.Error("expected max items reached")
		}
		if c.CanFetchNextPage() {
			t.Error("expected item cap to stop the cursor")
		}
	})

	t.Run("Negative Limits", func(t *testing.T) {
		c := NewCursor(-1, -5)
		if got := c.Limits(); got != (Limits{}) {
			t.Errorf("expected negative limits to be unlimited, got %+v", got)
		}
		if !c.CanFetchNextPage() {
			t.Error("expected unlimited cursor")
		}
	})

	t.Run("Counters Are Monotonic", func(t *testing.T) {
		c := NewCursor(0, 0)
		counts := []int{3, -4, 0, 7, -1, 2}

		prevPage, prevItems := 0, 0
		for _, n := range counts {
			c.StartNewPage()
			c.RegisterItems(n)

			if c.CurrentPage() != prevPage+1 {
				t.Errorf("expected page %d, got %d", prevPage+1, c.CurrentPage())
			}
			if c.ItemsSeen() != prevItems+max(n, 0) {
				t.Errorf("expected %d items after registering %d, got %d", prevItems+max(n, 0), n, c.ItemsSeen())
			}
			prevPage, prevItems = c.CurrentPage(), c.ItemsSeen()
		}

		if c.ItemsSeen() != 12 {
			t.Errorf("expected 12 items, got %d", c.ItemsSeen())
		}
	})

	t.Run("Limits NewCursor", func(t *testing.T) {
		l := Limits{EndPage: 3, MaxItems: 10}
		a, b := l.NewCursor(), l.NewCursor()

		a.StartNewPage()
		a.RegisterItems(10)

		if b.CurrentPage() != 0 || b.ItemsSeen() != 0 {
			t.Error("cursors minted from the same limits must be independent")
		}
		if a.Limits() != l {
			t.Errorf("expected limits %+v, got %+v", l, a.Limits())
		}
	})
}
