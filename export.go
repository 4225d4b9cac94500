package gridbuilder

import (
	"encoding/json"
	"fmt"
)

// ExportedState is the flat, JSON-serializable snapshot of a LayoutState.
// Persistence is entirely the host's responsibility; this shape is the
// whole contract, with no versioned envelope beyond what the host adds.
type ExportedState struct {
	Canvases         []ExportedCanvas `json:"canvases"`
	SelectedItemID   string           `json:"selectedItemId,omitempty"`
	SelectedCanvasID string           `json:"selectedCanvasId,omitempty"`
	ActiveCanvasID   string           `json:"activeCanvasId,omitempty"`
	CurrentViewport  Viewport         `json:"currentViewport"`
	PrimaryViewport  Viewport         `json:"primaryViewport"`
	ShowGrid         bool             `json:"showGrid"`
}

// ExportedCanvas mirrors Canvas.
type ExportedCanvas struct {
	ID              string         `json:"id"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	ZIndexCounter   int            `json:"zIndexCounter"`
	Items           []ExportedItem `json:"items"`
}

// ExportedItem mirrors Item.
type ExportedItem struct {
	ID      string                  `json:"id"`
	Type    string                  `json:"type"`
	Name    string                  `json:"name"`
	ZIndex  int                     `json:"zIndex"`
	Layouts map[Viewport]ItemLayout `json:"layouts"`
	Config  map[string]any          `json:"config,omitempty"`
}

// Export snapshots the full layout state. The snapshot is independent of
// the live state: mutating one never affects the other.
func (b *Builder) Export() ExportedState {
	s := b.state
	out := ExportedState{
		SelectedItemID:   s.SelectedItemID,
		SelectedCanvasID: s.SelectedCanvasID,
		ActiveCanvasID:   s.ActiveCanvasID,
		CurrentViewport:  s.CurrentViewport,
		PrimaryViewport:  s.PrimaryViewport,
		ShowGrid:         s.ShowGrid,
	}
	for _, c := range s.Canvases() {
		ec := ExportedCanvas{
			ID:              c.ID,
			BackgroundColor: c.BackgroundColor,
			ZIndexCounter:   c.ZIndexCounter,
			Items:           make([]ExportedItem, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			clone := it.Clone()
			cfg := clone.Config
			if len(cfg) == 0 {
				// Canonical form: an empty bag exports as absent, so a
				// JSON round trip reproduces the snapshot exactly.
				cfg = nil
			}
			ec.Items = append(ec.Items, ExportedItem{
				ID:      clone.ID,
				Type:    clone.Type,
				Name:    clone.Name,
				ZIndex:  clone.ZIndex,
				Layouts: clone.Layouts,
				Config:  cfg,
			})
		}
		out.Canvases = append(out.Canvases, ec)
	}
	return out
}

// ExportJSON serializes the snapshot.
func (b *Builder) ExportJSON() ([]byte, error) {
	return json.Marshal(b.Export())
}

// Import replaces the layout state with a snapshot and clears the history:
// imported state has no past. Viewer instances may import; it is their only
// way to receive content.
func (b *Builder) Import(st ExportedState) error {
	primary := st.PrimaryViewport
	if primary == "" {
		primary = Viewport(b.settings.PrimaryViewport)
	}

	// Validate before touching the live state.
	seenCanvas := make(map[string]struct{}, len(st.Canvases))
	seenItem := make(map[string]struct{})
	for _, ec := range st.Canvases {
		if ec.ID == "" {
			return fmt.Errorf("import: canvas with empty id")
		}
		if _, dup := seenCanvas[ec.ID]; dup {
			return fmt.Errorf("import: duplicate canvas id %q", ec.ID)
		}
		seenCanvas[ec.ID] = struct{}{}
		for _, ei := range ec.Items {
			if ei.ID == "" {
				return fmt.Errorf("import: item with empty id on canvas %q", ec.ID)
			}
			if _, dup := seenItem[ei.ID]; dup {
				return fmt.Errorf("import: duplicate item id %q", ei.ID)
			}
			seenItem[ei.ID] = struct{}{}
			if _, ok := ei.Layouts[primary]; !ok {
				return fmt.Errorf("import: item %q has no %s layout", ei.ID, primary)
			}
		}
	}

	next := NewLayoutState(primary)
	next.subscribers = b.state.subscribers
	next.version = b.state.version
	next.SelectedItemID = st.SelectedItemID
	next.SelectedCanvasID = st.SelectedCanvasID
	next.ActiveCanvasID = st.ActiveCanvasID
	if st.CurrentViewport != "" {
		next.CurrentViewport = st.CurrentViewport
	}
	next.ShowGrid = st.ShowGrid

	next.Batch(func() {
		for _, ec := range st.Canvases {
			c := next.AddCanvas(ec.ID)
			c.BackgroundColor = ec.BackgroundColor
			c.ZIndexCounter = ec.ZIndexCounter
			for _, ei := range ec.Items {
				item := &Item{
					ID:      ei.ID,
					Type:    ei.Type,
					Name:    ei.Name,
					ZIndex:  ei.ZIndex,
					Layouts: ei.Layouts,
					Config:  ei.Config,
				}
				// Clone detaches the item from the caller's snapshot.
				next.AddItem(ec.ID, item.Clone())
			}
		}
	})

	b.state = next
	b.history = NewHistory(next, b.settings.HistoryCapacity)
	next.notify()
	return nil
}

// ImportJSON deserializes and imports a snapshot.
func (b *Builder) ImportJSON(data []byte) error {
	var st ExportedState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return b.Import(st)
}
