package gridbuilder

import (
	"math"

	"github.com/pagegrid/gridbuilder/internal/debug"
	"github.com/pagegrid/gridbuilder/internal/grid"
)

// Interactive chrome: clicks on these element classes (drag handles, resize
// handles, item buttons) must not trigger activation or selection.
var chromeClasses = map[string]struct{}{
	"drag-handle":    {},
	"resize-handle":  {},
	"delete-button":  {},
	"reorder-button": {},
	"config-button":  {},
}

// IsInteractiveChrome reports whether an element class belongs to item
// chrome rather than item content.
func IsInteractiveChrome(elementClass string) bool {
	_, ok := chromeClasses[elementClass]
	return ok
}

// HandleItemClick implements click selection: the owning canvas becomes
// active, then the item is selected. Clicks on chrome elements and releases
// that ended a real drag are ignored; viewer instances never select.
func (b *Builder) HandleItemClick(itemID, elementClass string, wasDrag bool) {
	if b.viewer || wasDrag || IsInteractiveChrome(elementClass) {
		return
	}
	canvas, it, _ := b.state.FindItem(itemID)
	if it == nil {
		return
	}
	b.state.SelectItem(canvas.ID, itemID)
	b.bus.emit(Event{Type: EventSelectionChanged, CanvasID: canvas.ID, ItemID: itemID})
}

// HandleCanvasClick implements background clicks: the canvas becomes active
// and the selection clears.
func (b *Builder) HandleCanvasClick(canvasID string) {
	if b.viewer {
		return
	}
	if _, ok := b.state.Canvas(canvasID); !ok {
		return
	}
	b.state.Batch(func() {
		b.state.SetActiveCanvas(canvasID)
		b.state.ClearSelection()
	})
	b.bus.emit(Event{Type: EventSelectionChanged, CanvasID: canvasID})
}

// gesture holds what drag and resize share: the item, its pre-gesture
// snapshot, and the cell width frozen at gesture start. Freezing the cell
// width keeps per-move conversion stable against concurrent reflows.
type gesture struct {
	b        *Builder
	canvasID string
	itemID   string
	viewport Viewport
	start    ItemLayout
	index    int
	cellW    float64
	active   bool
}

func (b *Builder) beginGesture(itemID string) (*gesture, bool) {
	if b.viewer {
		return nil, false
	}
	canvas, it, index := b.state.FindItem(itemID)
	if it == nil {
		return nil, false
	}
	// Starting a gesture on an item of another canvas activates that canvas.
	if b.state.ActiveCanvasID != canvas.ID {
		b.state.SetActiveCanvas(canvas.ID)
	}
	vp := b.state.CurrentViewport
	return &gesture{
		b:        b,
		canvasID: canvas.ID,
		itemID:   itemID,
		viewport: vp,
		start:    it.Layout(vp, b.state.PrimaryViewport),
		index:    index,
		cellW:    b.conv.CellWidth(canvas.ID),
		active:   true,
	}, true
}

// unitsX converts a cumulative horizontal pixel delta with the frozen cell
// width. Returns 0 while the canvas is unmeasurable.
func (g *gesture) unitsX(px int) int {
	if g.cellW <= 0 {
		return 0
	}
	return int(math.Round(float64(px) / g.cellW))
}

func (g *gesture) unitsY(px int) int {
	return g.b.conv.ToUnitsY(px)
}

// current returns the item's live layout for the gesture viewport.
func (g *gesture) current() ItemLayout {
	it := g.b.state.Item(g.canvasID, g.itemID)
	if it == nil {
		return g.start
	}
	return it.Layout(g.viewport, g.b.state.PrimaryViewport)
}

// write stores a layout directly into the state: an un-commanded,
// immediately visible mutation that provides live gesture feedback.
func (g *gesture) write(l ItemLayout) {
	vp, primary := g.viewport, g.b.state.PrimaryViewport
	g.b.state.UpdateItem(g.canvasID, g.itemID, func(it *Item) {
		it.setLayout(vp, primary, l)
	})
}

// restore reverts the item to its pre-gesture snapshot, including the
// customized flag a secondary-viewport write would otherwise set.
func (g *gesture) restore() {
	vp, start := g.viewport, g.start
	g.b.state.UpdateItem(g.canvasID, g.itemID, func(it *Item) {
		it.Layouts[vp] = start
	})
}

// Drag is an in-flight move gesture. The state machine is idle -> active ->
// idle: BeginDrag activates, MoveBy streams position updates, End or Cancel
// return to idle.
type Drag struct {
	gesture
}

// BeginDrag starts a drag gesture on an item. Returns false for unknown
// items and for viewer instances.
func (b *Builder) BeginDrag(itemID string) (*Drag, bool) {
	g, ok := b.beginGesture(itemID)
	if !ok {
		return nil, false
	}
	debug.Log("drag: begin %s at %+v", itemID, g.start)
	return &Drag{gesture: *g}, true
}

// MoveBy applies the cumulative pointer delta since the gesture started,
// snapped to grid units and clamped to the canvas. Deltas are cumulative,
// not incremental, so intermediate rounding never accumulates.
func (d *Drag) MoveBy(dxPx, dyPx int) {
	if !d.active {
		return
	}
	adj := grid.ConstrainPosition(
		d.start.X+d.unitsX(dxPx),
		d.start.Y+d.unitsY(dyPx),
		d.start.Width, d.start.Height,
		d.b.cfg.CanvasWidthUnits,
	)
	next := d.start
	next.X, next.Y = adj.X, adj.Y
	if next != d.current() {
		d.write(next)
	}
}

// Moved reports whether the item has actually left its starting position.
// Click handlers check this so a drag-then-release does not also select.
func (d *Drag) Moved() bool {
	cur := d.current()
	return cur.X != d.start.X || cur.Y != d.start.Y
}

// Cancel reverts to the pre-gesture snapshot without recording history —
// an undo before commit. Used for Escape and for the pointer leaving the
// window.
func (d *Drag) Cancel() {
	if !d.active {
		return
	}
	d.active = false
	d.restore()
}

// End commits the gesture. targetCanvasID is the canvas under the pointer
// at release; pass the source canvas for an in-place drag and "" when the
// drop target cannot be resolved, in which case the item snaps back rather
// than becoming orphaned. Exactly one command is pushed if anything
// changed; a click that never dragged pushes nothing.
func (d *Drag) End(targetCanvasID string) {
	if !d.active {
		return
	}
	d.active = false
	b := d.b

	if targetCanvasID == "" {
		debug.Log("drag: %s dropped outside any canvas, snapping back", d.itemID)
		d.restore()
		return
	}

	if targetCanvasID == d.canvasID {
		after := d.current()
		if after == d.start {
			return // a click, not a drag
		}
		b.history.Push(&layoutChangeCommand{
			canvasID: d.canvasID,
			itemID:   d.itemID,
			viewport: d.viewport,
			before:   d.start,
			after:    after,
		})
		b.bus.emit(Event{Type: EventItemUpdated, CanvasID: d.canvasID, ItemID: d.itemID})
		return
	}

	if _, ok := b.state.Canvas(targetCanvasID); !ok {
		d.restore()
		return
	}

	after := d.current()
	b.state.MoveItem(d.itemID, targetCanvasID)
	b.history.Push(&moveItemCommand{
		itemID:         d.itemID,
		sourceCanvasID: d.canvasID,
		targetCanvasID: targetCanvasID,
		viewport:       d.viewport,
		sourceLayout:   d.start,
		targetLayout:   after,
		sourceIndex:    d.index,
	})
	b.bus.emit(Event{Type: EventItemMoved, CanvasID: targetCanvasID, ItemID: d.itemID})
}

// Resize is an in-flight resize gesture, same state machine as Drag but
// streaming size updates from the bottom-right handle.
type Resize struct {
	gesture
	min grid.Size
	max grid.Size
}

// BeginResize starts a resize gesture on an item. The item type's min/max
// sizes bound the gesture; unregistered types get a 1x1 minimum.
func (b *Builder) BeginResize(itemID string) (*Resize, bool) {
	g, ok := b.beginGesture(itemID)
	if !ok {
		return nil, false
	}
	min := grid.Size{Width: 1, Height: 1}
	var max grid.Size
	_, it, _ := b.state.FindItem(itemID)
	if desc, ok := b.registry.Lookup(it.Type); ok {
		if desc.MinSize.Width > 0 {
			min.Width = desc.MinSize.Width
		}
		if desc.MinSize.Height > 0 {
			min.Height = desc.MinSize.Height
		}
		max = desc.MaxSize
	}
	debug.Log("resize: begin %s at %+v", itemID, g.start)
	return &Resize{gesture: *g, min: min, max: max}, true
}

// MoveBy applies the cumulative pointer delta to the item's size, snapped
// to units, bounded by the type's size contract and the canvas width.
func (r *Resize) MoveBy(dxPx, dyPx int) {
	if !r.active {
		return
	}
	w := r.start.Width + r.unitsX(dxPx)
	h := r.start.Height + r.unitsY(dyPx)

	if w < r.min.Width {
		w = r.min.Width
	}
	if r.max.Width > 0 && w > r.max.Width {
		w = r.max.Width
	}
	if room := r.b.cfg.CanvasWidthUnits - r.start.X; w > room {
		w = room
	}
	if h < r.min.Height {
		h = r.min.Height
	}
	if r.max.Height > 0 && h > r.max.Height {
		h = r.max.Height
	}

	next := r.start
	next.Width, next.Height = w, h
	if next != r.current() {
		r.write(next)
	}
}

// Moved reports whether the size actually changed.
func (r *Resize) Moved() bool {
	cur := r.current()
	return cur.Width != r.start.Width || cur.Height != r.start.Height
}

// Cancel reverts to the pre-gesture size without recording history.
func (r *Resize) Cancel() {
	if !r.active {
		return
	}
	r.active = false
	r.restore()
}

// End commits the gesture, pushing one command if the size changed.
func (r *Resize) End() {
	if !r.active {
		return
	}
	r.active = false

	after := r.current()
	if after == r.start {
		return
	}
	r.b.history.Push(&layoutChangeCommand{
		canvasID: r.canvasID,
		itemID:   r.itemID,
		viewport: r.viewport,
		before:   r.start,
		after:    after,
	})
	r.b.bus.emit(Event{Type: EventItemUpdated, CanvasID: r.canvasID, ItemID: r.itemID})
}
