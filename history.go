package gridbuilder

import "github.com/pagegrid/gridbuilder/internal/debug"

// DefaultHistoryCapacity bounds the undo stack unless configured otherwise.
const DefaultHistoryCapacity = 50

// History is a bounded undo/redo stack of Commands over one LayoutState.
//
// The model is a flat ordered list plus a position pointing at the last
// applied command (-1 when nothing is applied). Pushing after an undo
// truncates the redoable tail; pushing past capacity slides the window
// forward, forgetting the oldest entry.
type History struct {
	state    *LayoutState
	commands []Command
	position int
	capacity int

	// applying guards against re-entrancy: a command's Undo/Redo pushing a
	// new command would corrupt the position mid-traversal.
	applying bool
}

// NewHistory creates a history bound to a state. capacity <= 0 selects
// DefaultHistoryCapacity.
func NewHistory(state *LayoutState, capacity int) *History {
	if state == nil {
		panic("gridbuilder: nil state in NewHistory")
	}
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		state:    state,
		position: -1,
		capacity: capacity,
	}
}

// Push records a command whose forward mutation has already been applied.
// Any redoable commands after the current position are discarded: a new
// action after an undo forfeits the old future.
func (h *History) Push(cmd Command) {
	if h.applying {
		panic("gridbuilder: Push called from inside a command's Undo/Redo")
	}
	if cmd == nil {
		return
	}
	h.commands = h.commands[:h.position+1]
	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.capacity {
		// Slide the window instead of growing: forget the oldest command.
		copy(h.commands, h.commands[1:])
		h.commands[len(h.commands)-1] = nil
		h.commands = h.commands[:h.capacity]
	}
	h.position = len(h.commands) - 1
	debug.Log("history: pushed %T, position=%d len=%d", cmd, h.position, len(h.commands))
}

// Undo reverts the last applied command. No-op (returning false) when
// nothing is left to undo.
func (h *History) Undo() bool {
	if h.position < 0 {
		return false
	}
	cmd := h.commands[h.position]
	h.applying = true
	defer func() { h.applying = false }()
	// One visible state transition per history step.
	h.state.Batch(func() { cmd.Undo(h.state) })
	h.position--
	return true
}

// Redo re-applies the next command. No-op (returning false) at the end of
// the list.
func (h *History) Redo() bool {
	if h.position >= len(h.commands)-1 {
		return false
	}
	h.position++
	cmd := h.commands[h.position]
	h.applying = true
	defer func() { h.applying = false }()
	h.state.Batch(func() { cmd.Redo(h.state) })
	return true
}

// CanUndo reports whether an undo would do anything.
func (h *History) CanUndo() bool {
	return h.position >= 0
}

// CanRedo reports whether a redo would do anything.
func (h *History) CanRedo() bool {
	return h.position < len(h.commands)-1
}

// Clear empties the history.
func (h *History) Clear() {
	h.commands = nil
	h.position = -1
}

// Len returns the number of recorded commands.
func (h *History) Len() int {
	return len(h.commands)
}
