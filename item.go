package gridbuilder

// Viewport names a responsive breakpoint. Desktop and mobile are built in;
// hosts may define additional breakpoints.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportMobile  Viewport = "mobile"
)

// ItemLayout holds one viewport's coordinates in grid units.
type ItemLayout struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Customized applies to secondary viewports only. When false the
	// viewport has no coordinates of its own: it resolves through the
	// primary viewport or the auto-stacking layout.
	Customized bool `json:"customized,omitempty" yaml:"customized,omitempty"`
}

// Item is one placed component instance. ID is immutable once created;
// CanvasID changes on a cross-canvas move.
type Item struct {
	ID       string
	CanvasID string

	// Type keys into the component-type registry.
	Type string

	// Name is the display label, host-editable, defaulted from the type.
	Name string

	// Layouts is keyed by viewport. The primary viewport always holds
	// concrete coordinates.
	Layouts map[Viewport]ItemLayout

	// ZIndex is the stacking order; larger paints on top.
	ZIndex int

	// Config is an opaque bag owned by the host's renderer. The core
	// stores and forwards it without inspecting its contents. Values must
	// be plain data: Clone copies the bag one level deep.
	Config map[string]any
}

// Clone returns a deep, independent copy of the item. Commands snapshot
// items through Clone so history entries never hold live references that
// could mutate out from under them.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := &Item{
		ID:       it.ID,
		CanvasID: it.CanvasID,
		Type:     it.Type,
		Name:     it.Name,
		ZIndex:   it.ZIndex,
	}
	if it.Layouts != nil {
		out.Layouts = make(map[Viewport]ItemLayout, len(it.Layouts))
		for vp, l := range it.Layouts {
			out.Layouts[vp] = l
		}
	}
	if it.Config != nil {
		out.Config = make(map[string]any, len(it.Config))
		for k, v := range it.Config {
			out.Config[k] = v
		}
	}
	return out
}

// Layout returns the stored layout for vp, falling back to the primary
// viewport when vp has not been customized. Use Builder.EffectiveLayout to
// resolve the auto-stacked position instead of the raw fallback.
func (it *Item) Layout(vp, primary Viewport) ItemLayout {
	if l, ok := it.Layouts[vp]; ok && (vp == primary || l.Customized) {
		return l
	}
	return it.Layouts[primary]
}

// setLayout stores a layout for vp, marking it customized when vp is not
// the primary viewport.
func (it *Item) setLayout(vp, primary Viewport, l ItemLayout) {
	if it.Layouts == nil {
		it.Layouts = make(map[Viewport]ItemLayout, 2)
	}
	l.Customized = vp != primary
	it.Layouts[vp] = l
}
