package gridbuilder

import "github.com/pagegrid/gridbuilder/internal/debug"

// Command is one reversible operation over a LayoutState. Undo and Redo are
// total: when the state no longer contains what they reference, they do
// nothing. Command bodies are restricted to raw state mutation — they must
// never push onto a History.
//
// Add/Delete commands carry deep snapshots because they outlive the item's
// presence in the live state. Move commands deliberately do not: they mutate
// the live item by reference so its identity survives a cross-canvas move
// (selection by id and == comparisons keep working).
type Command interface {
	Undo(s *LayoutState)
	Redo(s *LayoutState)
}

// addItemCommand reverses an item insertion. Constructed immediately after
// the add, with a snapshot of the freshly created item.
type addItemCommand struct {
	canvasID string
	snapshot *Item
}

func (c *addItemCommand) Undo(s *LayoutState) {
	if _, _, ok := s.RemoveItem(c.canvasID, c.snapshot.ID); ok {
		s.clearSelectionOf(c.snapshot.ID)
	}
}

func (c *addItemCommand) Redo(s *LayoutState) {
	// Re-insert a fresh clone at the end; append is acceptable since the
	// original insertion was an append too.
	s.AddItem(c.canvasID, c.snapshot.Clone())
}

// deleteItemCommand reverses a deletion. It must be constructed before the
// deletion happens so index reflects the pre-delete array position; undo
// splices the clone back at exactly that index so stacking order is restored.
type deleteItemCommand struct {
	canvasID string
	snapshot *Item
	index    int
}

func (c *deleteItemCommand) Undo(s *LayoutState) {
	// InsertItem falls back to appending when the canvas shrank meanwhile.
	s.InsertItem(c.canvasID, c.snapshot.Clone(), c.index)
}

func (c *deleteItemCommand) Redo(s *LayoutState) {
	if _, _, ok := s.RemoveItem(c.canvasID, c.snapshot.ID); ok {
		s.clearSelectionOf(c.snapshot.ID)
	}
}

// moveItemCommand reverses a cross-canvas (or same-canvas) move. It holds
// no clone: the live item is mutated by reference.
type moveItemCommand struct {
	itemID         string
	sourceCanvasID string
	targetCanvasID string
	viewport       Viewport
	sourceLayout   ItemLayout
	targetLayout   ItemLayout
	sourceIndex    int
}

func (c *moveItemCommand) Undo(s *LayoutState) {
	// Check the destination before removing: if the source canvas is gone
	// the item must stay where it is, never be left off every canvas.
	if _, ok := s.Canvas(c.sourceCanvasID); !ok {
		debug.Log("moveItemCommand.Undo: canvas %q missing, item %q stays put", c.sourceCanvasID, c.itemID)
		return
	}
	it, _, ok := s.RemoveItem(c.targetCanvasID, c.itemID)
	if !ok {
		debug.Log("moveItemCommand.Undo: item %q missing from %q", c.itemID, c.targetCanvasID)
		return
	}
	it.Layouts[c.viewport] = c.sourceLayout
	s.InsertItem(c.sourceCanvasID, it, c.sourceIndex)
}

func (c *moveItemCommand) Redo(s *LayoutState) {
	if _, ok := s.Canvas(c.targetCanvasID); !ok {
		debug.Log("moveItemCommand.Redo: canvas %q missing, item %q stays put", c.targetCanvasID, c.itemID)
		return
	}
	it, _, ok := s.RemoveItem(c.sourceCanvasID, c.itemID)
	if !ok {
		debug.Log("moveItemCommand.Redo: item %q missing from %q", c.itemID, c.sourceCanvasID)
		return
	}
	it.Layouts[c.viewport] = c.targetLayout
	// Redo always advances forward in time, so appending to the target is
	// observably equivalent to restoring an index.
	s.InsertItem(c.targetCanvasID, it, -1)
}

// layoutChangeCommand reverses a same-canvas drag or resize: the before and
// after layouts of one viewport.
type layoutChangeCommand struct {
	canvasID string
	itemID   string
	viewport Viewport
	before   ItemLayout
	after    ItemLayout
}

func (c *layoutChangeCommand) Undo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) {
		it.Layouts[c.viewport] = c.before
	})
}

func (c *layoutChangeCommand) Redo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) {
		it.Layouts[c.viewport] = c.after
	})
}

// configChangeCommand reverses a shallow config merge. Shallow merges never
// delete keys, so undo restores prior values and removes keys the merge
// introduced.
type configChangeCommand struct {
	canvasID string
	itemID   string
	before   map[string]any // prior values of overwritten keys
	absent   []string       // keys the merge introduced
	after    map[string]any // the applied patch
}

func (c *configChangeCommand) Undo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) {
		for k, v := range c.before {
			it.Config[k] = v
		}
		for _, k := range c.absent {
			delete(it.Config, k)
		}
	})
}

func (c *configChangeCommand) Redo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) {
		if it.Config == nil {
			it.Config = make(map[string]any, len(c.after))
		}
		for k, v := range c.after {
			it.Config[k] = v
		}
	})
}

// renameCommand reverses a display-name edit.
type renameCommand struct {
	canvasID string
	itemID   string
	before   string
	after    string
}

func (c *renameCommand) Undo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) { it.Name = c.before })
}

func (c *renameCommand) Redo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) { it.Name = c.after })
}

// zIndexCommand reverses a stacking-order change.
type zIndexCommand struct {
	canvasID string
	itemID   string
	before   int
	after    int
}

func (c *zIndexCommand) Undo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) { it.ZIndex = c.before })
}

func (c *zIndexCommand) Redo(s *LayoutState) {
	s.UpdateItem(c.canvasID, c.itemID, func(it *Item) { it.ZIndex = c.after })
}

// batchCommand groups N commands into one history slot. Redo applies in
// order, undo reverses in reverse order, and both run inside a state batch
// so subscribers see a single transition with no partially-applied middle.
type batchCommand struct {
	commands []Command
}

// Batch wraps commands into a single history entry.
func Batch(commands ...Command) Command {
	return &batchCommand{commands: commands}
}

func (c *batchCommand) Undo(s *LayoutState) {
	s.Batch(func() {
		for i := len(c.commands) - 1; i >= 0; i-- {
			c.commands[i].Undo(s)
		}
	})
}

func (c *batchCommand) Redo(s *LayoutState) {
	s.Batch(func() {
		for _, cmd := range c.commands {
			cmd.Redo(s)
		}
	})
}

// addCanvasCommand reverses a canvas creation.
type addCanvasCommand struct {
	snapshot *Canvas // empty shell: id, background
}

func (c *addCanvasCommand) Undo(s *LayoutState) {
	s.RemoveCanvas(c.snapshot.ID)
}

func (c *addCanvasCommand) Redo(s *LayoutState) {
	restored := s.AddCanvas(c.snapshot.ID)
	restored.BackgroundColor = c.snapshot.BackgroundColor
}

// removeCanvasCommand reverses a canvas removal. The snapshot holds the full
// item list and z-index counter so undo restores every item exactly.
type removeCanvasCommand struct {
	snapshot   *Canvas
	orderIndex int
}

func (c *removeCanvasCommand) Undo(s *LayoutState) {
	s.adoptCanvas(c.snapshot.Clone(), c.orderIndex)
}

func (c *removeCanvasCommand) Redo(s *LayoutState) {
	s.RemoveCanvas(c.snapshot.ID)
}
