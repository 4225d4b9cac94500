package gridbuilder

import "github.com/pagegrid/gridbuilder/internal/debug"

// Unsubscribe removes a subscriber or event listener. Calling it more than
// once is safe.
type Unsubscribe func()

// stateSubscriber is a registered notification callback.
type stateSubscriber struct {
	fn     func()
	active bool
}

// LayoutState is the canonical in-memory model: every canvas and item plus
// the non-undoable UI fields (selection, active canvas, current viewport).
// It is owned by one Builder instance and passed by reference to
// sub-handlers; nothing reaches it through ambient lookup, so multiple
// builders coexist in one process.
//
// All mutation happens on the host's UI loop; LayoutState takes no locks.
// Every mutator ends with a notify: subscribers observe a state-identity
// change (a bumped version) after any mutation, even though contained
// object identities are preserved for efficiency. Use Batch to coalesce
// notifications while applying several primitive mutations as one visible
// transition:
//
//	state.Batch(func() {
//	    state.RemoveItem("a", id)
//	    state.AddItem("b", item)
//	})  // subscribers fire once here, not twice
type LayoutState struct {
	canvases map[string]*Canvas
	order    []string // canvas ids in creation order

	// Selection and activation are plain fields, not undoable.
	SelectedItemID   string
	SelectedCanvasID string
	ActiveCanvasID   string

	CurrentViewport Viewport
	PrimaryViewport Viewport
	ShowGrid        bool

	version     uint64
	subscribers []*stateSubscriber

	batchDepth   int
	batchPending bool
}

// NewLayoutState creates an empty state. primary is the viewport that always
// holds concrete coordinates; it is also the initial current viewport.
func NewLayoutState(primary Viewport) *LayoutState {
	if primary == "" {
		primary = ViewportDesktop
	}
	return &LayoutState{
		canvases:        make(map[string]*Canvas),
		CurrentViewport: primary,
		PrimaryViewport: primary,
	}
}

// Version returns a counter that increases on every mutation. Readers that
// cache derived data key it by Version.
func (s *LayoutState) Version() uint64 {
	return s.version
}

// Subscribe registers fn to run after every committed mutation.
func (s *LayoutState) Subscribe(fn func()) Unsubscribe {
	sub := &stateSubscriber{fn: fn, active: true}
	s.subscribers = append(s.subscribers, sub)
	return func() { sub.active = false }
}

// notify bumps the version and runs subscribers. Inside a batch the run is
// deferred until the outermost Batch returns.
func (s *LayoutState) notify() {
	s.version++
	if s.batchDepth > 0 {
		s.batchPending = true
		return
	}
	s.runSubscribers()
}

func (s *LayoutState) runSubscribers() {
	// Compact inactive subscribers while notifying.
	active := s.subscribers[:0]
	for _, sub := range s.subscribers {
		if sub.active {
			active = append(active, sub)
		}
	}
	s.subscribers = active
	for _, sub := range active {
		sub.fn()
	}
}

// Batch executes fn and defers subscriber notification until fn returns.
// Nested batches are supported; subscribers fire once when the outermost
// batch completes, and only if something actually mutated.
func (s *LayoutState) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 && s.batchPending {
			s.batchPending = false
			s.runSubscribers()
		}
	}()
	fn()
}

// AddCanvas creates and registers an empty canvas. Returns the existing
// canvas unchanged if the id is already present.
func (s *LayoutState) AddCanvas(id string) *Canvas {
	if c, ok := s.canvases[id]; ok {
		return c
	}
	c := &Canvas{ID: id}
	s.canvases[id] = c
	s.order = append(s.order, id)
	s.notify()
	return c
}

// adoptCanvas re-registers a canvas snapshot at a specific order index,
// used by RemoveCanvas undo. An out-of-range index appends.
func (s *LayoutState) adoptCanvas(c *Canvas, orderIndex int) {
	if c == nil {
		return
	}
	if _, ok := s.canvases[c.ID]; ok {
		return
	}
	s.canvases[c.ID] = c
	if orderIndex < 0 || orderIndex > len(s.order) {
		orderIndex = len(s.order)
	}
	s.order = append(s.order, "")
	copy(s.order[orderIndex+1:], s.order[orderIndex:])
	s.order[orderIndex] = c.ID
	s.notify()
}

// RemoveCanvas drops a canvas and everything on it. Returns the removed
// canvas and its order index, or (nil, -1) if the id is unknown.
func (s *LayoutState) RemoveCanvas(id string) (*Canvas, int) {
	c, ok := s.canvases[id]
	if !ok {
		return nil, -1
	}
	delete(s.canvases, id)
	idx := -1
	for i, oid := range s.order {
		if oid == id {
			idx = i
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.ActiveCanvasID == id {
		s.ActiveCanvasID = ""
	}
	if s.SelectedCanvasID == id {
		s.SelectedCanvasID = ""
		s.SelectedItemID = ""
	}
	s.notify()
	return c, idx
}

// Canvas returns the canvas with the given id.
func (s *LayoutState) Canvas(id string) (*Canvas, bool) {
	c, ok := s.canvases[id]
	return c, ok
}

// Canvases returns every canvas in creation order.
func (s *LayoutState) Canvases() []*Canvas {
	out := make([]*Canvas, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.canvases[id])
	}
	return out
}

// AddItem appends an item to a canvas and stamps its CanvasID.
// A missing canvas is a silent no-op.
func (s *LayoutState) AddItem(canvasID string, it *Item) {
	s.InsertItem(canvasID, it, -1)
}

// InsertItem splices an item into a canvas's item list at index. A negative
// or out-of-range index appends, so an undo against a canvas mutated since
// the index was captured degrades instead of crashing.
func (s *LayoutState) InsertItem(canvasID string, it *Item, index int) {
	c, ok := s.canvases[canvasID]
	if !ok || it == nil {
		debug.Log("InsertItem: canvas %q not found, skipping", canvasID)
		return
	}
	it.CanvasID = canvasID
	if index < 0 || index > len(c.Items) {
		index = len(c.Items)
	}
	c.Items = append(c.Items, nil)
	copy(c.Items[index+1:], c.Items[index:])
	c.Items[index] = it
	s.notify()
}

// RemoveItem removes an item from a canvas, returning the live item and the
// index it occupied. Missing canvas or item degrades to (nil, -1, false).
func (s *LayoutState) RemoveItem(canvasID, itemID string) (*Item, int, bool) {
	c, ok := s.canvases[canvasID]
	if !ok {
		debug.Log("RemoveItem: canvas %q not found, skipping", canvasID)
		return nil, -1, false
	}
	i := c.indexOf(itemID)
	if i < 0 {
		return nil, -1, false
	}
	it := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	s.notify()
	return it, i, true
}

// UpdateItem applies mutate to an item in place. Missing references are a
// silent no-op. mutate must not push commands or touch other items.
func (s *LayoutState) UpdateItem(canvasID, itemID string, mutate func(*Item)) {
	c, ok := s.canvases[canvasID]
	if !ok {
		debug.Log("UpdateItem: canvas %q not found, skipping", canvasID)
		return
	}
	it := c.item(itemID)
	if it == nil {
		return
	}
	mutate(it)
	s.notify()
}

// MoveItem removes an item from its current canvas, reassigns CanvasID and
// appends it to the target canvas. The live item keeps its identity.
func (s *LayoutState) MoveItem(itemID, targetCanvasID string) bool {
	target, ok := s.canvases[targetCanvasID]
	if !ok {
		debug.Log("MoveItem: target canvas %q not found, skipping", targetCanvasID)
		return false
	}
	source, it, i := s.FindItem(itemID)
	if it == nil {
		return false
	}
	source.Items = append(source.Items[:i], source.Items[i+1:]...)
	it.CanvasID = targetCanvasID
	target.Items = append(target.Items, it)
	s.notify()
	return true
}

// Item returns the item with the given id on a canvas, or nil.
func (s *LayoutState) Item(canvasID, itemID string) *Item {
	c, ok := s.canvases[canvasID]
	if !ok {
		return nil
	}
	return c.item(itemID)
}

// FindItem locates an item by id across all canvases, returning its canvas
// and index. Returns (nil, nil, -1) when absent.
func (s *LayoutState) FindItem(itemID string) (*Canvas, *Item, int) {
	for _, id := range s.order {
		c := s.canvases[id]
		if i := c.indexOf(itemID); i >= 0 {
			return c, c.Items[i], i
		}
	}
	return nil, nil, -1
}

// SelectItem marks an item selected. The owning canvas becomes active
// first, then the selection fields are set, matching click semantics.
func (s *LayoutState) SelectItem(canvasID, itemID string) {
	s.ActiveCanvasID = canvasID
	s.SelectedCanvasID = canvasID
	s.SelectedItemID = itemID
	s.notify()
}

// ClearSelection drops the current selection. The active canvas keeps.
func (s *LayoutState) ClearSelection() {
	if s.SelectedItemID == "" && s.SelectedCanvasID == "" {
		return
	}
	s.SelectedItemID = ""
	s.SelectedCanvasID = ""
	s.notify()
}

// clearSelectionOf drops the selection only if it points at itemID.
func (s *LayoutState) clearSelectionOf(itemID string) {
	if s.SelectedItemID == itemID {
		s.SelectedItemID = ""
		s.SelectedCanvasID = ""
		s.notify()
	}
}

// SetActiveCanvas scopes subsequent operations that do not name a canvas.
func (s *LayoutState) SetActiveCanvas(canvasID string) {
	if s.ActiveCanvasID == canvasID {
		return
	}
	s.ActiveCanvasID = canvasID
	s.notify()
}

// SetViewport switches the current viewport. Not undoable.
func (s *LayoutState) SetViewport(vp Viewport) {
	if s.CurrentViewport == vp {
		return
	}
	s.CurrentViewport = vp
	s.notify()
}

// SetShowGrid toggles the grid overlay flag. Not undoable.
func (s *LayoutState) SetShowGrid(show bool) {
	if s.ShowGrid == show {
		return
	}
	s.ShowGrid = show
	s.notify()
}
