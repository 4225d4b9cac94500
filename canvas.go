package gridbuilder

// Canvas is a layout container. Items is ordered: the order matters for
// positional undo restoration and for auto-stacking, not for paint order
// (paint order is each item's ZIndex).
type Canvas struct {
	ID string

	Items []*Item

	// ZIndexCounter mints new top-most z-index values; it only grows.
	ZIndexCounter int

	// BackgroundColor is presentation-only, owned by the host. The core
	// carries it through export/import and never mutates it.
	BackgroundColor string
}

// indexOf returns the position of itemID in Items, or -1.
func (c *Canvas) indexOf(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// item returns the item with the given id, or nil.
func (c *Canvas) item(itemID string) *Item {
	if i := c.indexOf(itemID); i >= 0 {
		return c.Items[i]
	}
	return nil
}

// nextZIndex mints a z-index above everything placed so far.
func (c *Canvas) nextZIndex() int {
	c.ZIndexCounter++
	return c.ZIndexCounter
}

// Clone returns a deep copy of the canvas, including item snapshots.
// RemoveCanvas commands snapshot through Clone so undo restores every item
// and the z-index counter exactly.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	out := &Canvas{
		ID:              c.ID,
		ZIndexCounter:   c.ZIndexCounter,
		BackgroundColor: c.BackgroundColor,
	}
	if c.Items != nil {
		out.Items = make([]*Item, len(c.Items))
		for i, it := range c.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}
