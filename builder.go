package gridbuilder

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pagegrid/gridbuilder/internal/debug"
	"github.com/pagegrid/gridbuilder/internal/grid"
)

// Builder is one page-builder instance: the layout state, its command
// history, the grid coordinate converter, the component-type registry and
// the visibility scheduler, behind the thin API that palettes, config
// panels and host apps call.
//
// A Builder owns all of its parts; nothing is process-global, so any number
// of independent builders can coexist.
type Builder struct {
	settings Settings
	cfg      grid.Config

	state     *LayoutState
	history   *History
	conv      *grid.Converter
	registry  *Registry
	scheduler *Scheduler
	bus       *eventBus

	widthProvider grid.WidthProvider

	// viewer marks a read-only rendering instance: no mutation, no
	// selection, no activation.
	viewer bool

	pendingImport *ExportedState
}

// New creates a builder. Options are applied in order; the first error
// aborts construction.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		settings: DefaultSettings(),
		registry: NewRegistry(),
		bus:      newEventBus(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.cfg = b.settings.gridConfig()
	b.conv = grid.NewConverter(b.cfg, b.widthProvider)
	if b.state == nil {
		b.state = NewLayoutState(Viewport(b.settings.PrimaryViewport))
	}
	b.history = NewHistory(b.state, b.settings.HistoryCapacity)
	b.scheduler = NewScheduler(b.settings.VisibilityMargin)

	if b.pendingImport != nil {
		if err := b.Import(*b.pendingImport); err != nil {
			return nil, err
		}
		b.pendingImport = nil
	}
	return b, nil
}

// State exposes the layout state for reading and for the direct
// pass-through setters (selection, viewport). All undoable mutation goes
// through the Builder's operations instead.
func (b *Builder) State() *LayoutState {
	return b.state
}

// Registry returns the component-type registry.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// ViewerMode reports whether this is a read-only rendering instance.
func (b *Builder) ViewerMode() bool {
	return b.viewer
}

// On subscribes to builder events. The returned handle unsubscribes.
func (b *Builder) On(t EventType, fn func(Event)) Unsubscribe {
	return b.bus.on(t, fn)
}

// fault reports a degraded-path condition on the fault event channel.
func (b *Builder) fault(err error) {
	debug.Log("fault: %v", err)
	b.bus.emit(Event{Type: EventFault, Err: err})
}

// AddCanvas registers a new layout container. An empty id mints one.
// Returns the canvas id. Adding an id that already exists is a no-op: the
// existing canvas is untouched and nothing is recorded in the history.
func (b *Builder) AddCanvas(id string) string {
	if b.viewer {
		return ""
	}
	if id == "" {
		id = uuid.New().String()
	} else if _, exists := b.state.Canvas(id); exists {
		return id
	}
	c := b.state.AddCanvas(id)
	b.history.Push(&addCanvasCommand{snapshot: c.Clone()})
	b.bus.emit(Event{Type: EventCanvasAdded, CanvasID: id})
	return id
}

// RemoveCanvas deletes a canvas and everything on it. The full canvas is
// snapshotted first so undo restores every item and the z-index counter.
func (b *Builder) RemoveCanvas(id string) bool {
	if b.viewer {
		return false
	}
	c, ok := b.state.Canvas(id)
	if !ok {
		return false
	}
	cmd := &removeCanvasCommand{snapshot: c.Clone()}
	removed, orderIndex := b.state.RemoveCanvas(id)
	if removed == nil {
		return false
	}
	cmd.orderIndex = orderIndex
	b.history.Push(cmd)
	b.bus.emit(Event{Type: EventCanvasRemoved, CanvasID: id})
	return true
}

// AddComponent validates a drop against the canvas bounds, creates the
// item, and records one history entry. canvasID may be empty to target the
// active canvas. Returns ("", false) when the placement is rejected or any
// reference is missing — rejection is a sentinel, not an error.
func (b *Builder) AddComponent(canvasID, componentType string, pos grid.Position) (string, bool) {
	return b.AddComponentWithConfig(canvasID, componentType, pos, nil)
}

// AddComponentWithConfig is AddComponent with an initial config patch
// merged over the type's default config.
func (b *Builder) AddComponentWithConfig(canvasID, componentType string, pos grid.Position, config map[string]any) (string, bool) {
	if b.viewer {
		return "", false
	}
	it, canvas, ok := b.buildItem(canvasID, componentType, pos, config)
	if !ok {
		return "", false
	}
	b.state.AddItem(canvas.ID, it)
	b.history.Push(&addItemCommand{canvasID: canvas.ID, snapshot: it.Clone()})
	b.bus.emit(Event{Type: EventItemAdded, CanvasID: canvas.ID, ItemID: it.ID})
	return it.ID, true
}

// buildItem resolves the target canvas and descriptor, constrains the
// placement, and constructs the item. Shared by the single and batch add
// paths.
func (b *Builder) buildItem(canvasID, componentType string, pos grid.Position, config map[string]any) (*Item, *Canvas, bool) {
	if canvasID == "" {
		canvasID = b.state.ActiveCanvasID
	}
	canvas, ok := b.state.Canvas(canvasID)
	if !ok {
		b.fault(fmt.Errorf("add component: canvas %q not found", canvasID))
		return nil, nil, false
	}
	desc, ok := b.registry.Lookup(componentType)
	if !ok {
		b.fault(fmt.Errorf("add component: type %q not registered", componentType))
		return nil, nil, false
	}
	adj := grid.Constrain(desc.definition(), pos.X, pos.Y, b.cfg.CanvasWidthUnits)
	if adj == nil {
		// Minimum size cannot fit the canvas at all.
		b.fault(fmt.Errorf("add component: type %q cannot fit a %d-unit canvas", componentType, b.cfg.CanvasWidthUnits))
		return nil, nil, false
	}

	cfg := make(map[string]any, len(desc.DefaultConfig)+len(config))
	for k, v := range desc.DefaultConfig {
		cfg[k] = v
	}
	for k, v := range config {
		cfg[k] = v
	}

	it := &Item{
		ID:       uuid.New().String(),
		CanvasID: canvas.ID,
		Type:     desc.Type,
		Name:     desc.Name,
		ZIndex:   canvas.nextZIndex(),
		Config:   cfg,
		Layouts: map[Viewport]ItemLayout{
			b.state.PrimaryViewport: {X: adj.X, Y: adj.Y, Width: adj.Width, Height: adj.Height},
		},
	}
	return it, canvas, true
}

// DeleteComponent removes an item. The command is constructed before the
// deletion so undo can splice the item back at its original index.
func (b *Builder) DeleteComponent(itemID string) bool {
	if b.viewer {
		return false
	}
	canvas, it, index := b.state.FindItem(itemID)
	if it == nil {
		return false
	}
	cmd := &deleteItemCommand{canvasID: canvas.ID, snapshot: it.Clone(), index: index}
	b.state.Batch(func() {
		b.state.RemoveItem(canvas.ID, itemID)
		b.state.clearSelectionOf(itemID)
	})
	b.scheduler.Unobserve(itemID)
	b.history.Push(cmd)
	b.bus.emit(Event{Type: EventItemRemoved, CanvasID: canvas.ID, ItemID: itemID})
	return true
}

// UpdateConfig shallow-merges patch into an item's config bag and records
// one history entry. The core never interprets the values.
func (b *Builder) UpdateConfig(itemID string, patch map[string]any) bool {
	if b.viewer || len(patch) == 0 {
		return false
	}
	canvas, it, _ := b.state.FindItem(itemID)
	if it == nil {
		return false
	}
	cmd := configChange(canvas.ID, it, patch)
	b.state.UpdateItem(canvas.ID, itemID, func(it *Item) {
		if it.Config == nil {
			it.Config = make(map[string]any, len(patch))
		}
		for k, v := range patch {
			it.Config[k] = v
		}
	})
	b.history.Push(cmd)
	b.bus.emit(Event{Type: EventItemUpdated, CanvasID: canvas.ID, ItemID: itemID})
	return true
}

// configChange captures the pre-merge values of the keys a patch touches.
// Must run before the merge.
func configChange(canvasID string, it *Item, patch map[string]any) *configChangeCommand {
	cmd := &configChangeCommand{
		canvasID: canvasID,
		itemID:   it.ID,
		before:   make(map[string]any, len(patch)),
		after:    make(map[string]any, len(patch)),
	}
	for k, v := range patch {
		cmd.after[k] = v
		if prev, ok := it.Config[k]; ok {
			cmd.before[k] = prev
		} else {
			cmd.absent = append(cmd.absent, k)
		}
	}
	return cmd
}

// RenameComponent changes an item's display label.
func (b *Builder) RenameComponent(itemID, name string) bool {
	if b.viewer {
		return false
	}
	canvas, it, _ := b.state.FindItem(itemID)
	if it == nil || it.Name == name {
		return false
	}
	cmd := &renameCommand{canvasID: canvas.ID, itemID: itemID, before: it.Name, after: name}
	b.state.UpdateItem(canvas.ID, itemID, func(it *Item) { it.Name = name })
	b.history.Push(cmd)
	b.bus.emit(Event{Type: EventItemUpdated, CanvasID: canvas.ID, ItemID: itemID})
	return true
}

// BringToFront restacks an item above everything on its canvas.
func (b *Builder) BringToFront(itemID string) bool {
	if b.viewer {
		return false
	}
	canvas, it, _ := b.state.FindItem(itemID)
	if it == nil {
		return false
	}
	next := canvas.nextZIndex()
	if it.ZIndex == next {
		return false
	}
	cmd := &zIndexCommand{canvasID: canvas.ID, itemID: itemID, before: it.ZIndex, after: next}
	b.state.UpdateItem(canvas.ID, itemID, func(it *Item) { it.ZIndex = next })
	b.history.Push(cmd)
	b.bus.emit(Event{Type: EventItemUpdated, CanvasID: canvas.ID, ItemID: itemID})
	return true
}

// ComponentRequest describes one item for a batch add.
type ComponentRequest struct {
	Type     string
	Position grid.Position
	Config   map[string]any
}

// AddComponents places several components in one history slot: N inserts
// cost one undo step and one visible state transition. Requests that fail
// validation are skipped. Returns the ids of the items actually added.
func (b *Builder) AddComponents(canvasID string, requests []ComponentRequest) []string {
	if b.viewer || len(requests) == 0 {
		return nil
	}
	var (
		ids      []string
		commands []Command
	)
	b.state.Batch(func() {
		for _, req := range requests {
			it, canvas, ok := b.buildItem(canvasID, req.Type, req.Position, req.Config)
			if !ok {
				continue
			}
			b.state.AddItem(canvas.ID, it)
			commands = append(commands, &addItemCommand{canvasID: canvas.ID, snapshot: it.Clone()})
			ids = append(ids, it.ID)
		}
	})
	if len(commands) == 0 {
		return nil
	}
	b.history.Push(Batch(commands...))
	b.bus.emit(Event{Type: EventBatchApplied, CanvasID: canvasID, ItemIDs: ids})
	return ids
}

// DeleteComponents removes several items in one history slot. Returns how
// many were removed.
func (b *Builder) DeleteComponents(itemIDs []string) int {
	if b.viewer || len(itemIDs) == 0 {
		return 0
	}
	var (
		removed  []string
		commands []Command
	)
	b.state.Batch(func() {
		for _, id := range itemIDs {
			canvas, it, index := b.state.FindItem(id)
			if it == nil {
				continue
			}
			commands = append(commands, &deleteItemCommand{canvasID: canvas.ID, snapshot: it.Clone(), index: index})
			b.state.RemoveItem(canvas.ID, id)
			b.state.clearSelectionOf(id)
			b.scheduler.Unobserve(id)
			removed = append(removed, id)
		}
	})
	if len(commands) == 0 {
		return 0
	}
	b.history.Push(Batch(commands...))
	b.bus.emit(Event{Type: EventBatchApplied, ItemIDs: removed})
	return len(removed)
}

// ConfigPatch pairs an item with a config merge for UpdateConfigs.
type ConfigPatch struct {
	ItemID string
	Patch  map[string]any
}

// UpdateConfigs applies several config merges in one history slot, so a
// theme-wide change costs one undo step.
func (b *Builder) UpdateConfigs(patches []ConfigPatch) int {
	if b.viewer || len(patches) == 0 {
		return 0
	}
	var (
		touched  []string
		commands []Command
	)
	b.state.Batch(func() {
		for _, p := range patches {
			if len(p.Patch) == 0 {
				continue
			}
			canvas, it, _ := b.state.FindItem(p.ItemID)
			if it == nil {
				continue
			}
			commands = append(commands, configChange(canvas.ID, it, p.Patch))
			patch := p.Patch
			b.state.UpdateItem(canvas.ID, p.ItemID, func(it *Item) {
				if it.Config == nil {
					it.Config = make(map[string]any, len(patch))
				}
				for k, v := range patch {
					it.Config[k] = v
				}
			})
			touched = append(touched, p.ItemID)
		}
	})
	if len(commands) == 0 {
		return 0
	}
	b.history.Push(Batch(commands...))
	b.bus.emit(Event{Type: EventBatchApplied, ItemIDs: touched})
	return len(touched)
}

// Undo reverts the most recent operation. No-op on an empty stack.
func (b *Builder) Undo() bool {
	if b.viewer {
		return false
	}
	return b.history.Undo()
}

// Redo re-applies the most recently undone operation.
func (b *Builder) Redo() bool {
	if b.viewer {
		return false
	}
	return b.history.Redo()
}

// CanUndo reports whether Undo would do anything.
func (b *Builder) CanUndo() bool { return b.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (b *Builder) CanRedo() bool { return b.history.CanRedo() }

// SetActiveCanvas scopes subsequent AddComponent calls that do not name a
// canvas. Viewer instances never mutate activation.
func (b *Builder) SetActiveCanvas(canvasID string) {
	if b.viewer {
		return
	}
	b.state.SetActiveCanvas(canvasID)
}

// ActiveCanvas returns the id of the canvas the user last interacted with.
func (b *Builder) ActiveCanvas() string {
	return b.state.ActiveCanvasID
}

// SetViewport switches the current viewport, invalidates the grid cache
// (the containers are about to reflow) and announces the change.
func (b *Builder) SetViewport(vp Viewport) {
	if b.state.CurrentViewport == vp {
		return
	}
	b.conv.InvalidateAll()
	b.state.SetViewport(vp)
	b.bus.emit(Event{Type: EventViewportChanged, Viewport: vp})
}

// NotifyResize is the host's resize signal: all cached cell widths are
// dropped and recalculated lazily from the live container widths.
func (b *Builder) NotifyResize() {
	b.conv.InvalidateAll()
}

// PrimeCanvasWidth seeds the grid cache from an externally supplied width
// measurement, so conversions keep working while the container briefly
// reports zero width during a reflow.
func (b *Builder) PrimeCanvasWidth(canvasID string, widthPx int) {
	b.conv.Prime(canvasID, widthPx)
}

// Converter exposes the unit<->pixel converter for render layers.
func (b *Builder) Converter() *grid.Converter {
	return b.conv
}

// EffectiveLayout resolves the layout an item occupies in a viewport:
// concrete coordinates for the primary viewport or a customized secondary,
// otherwise the auto-stacked derivation over the canvas's non-customized
// items. The result is recomputed on every call — it is a pure function of
// (items, viewport), never a stored value.
func (b *Builder) EffectiveLayout(itemID string, vp Viewport) (ItemLayout, bool) {
	canvas, it, _ := b.state.FindItem(itemID)
	if it == nil {
		return ItemLayout{}, false
	}
	primary := b.state.PrimaryViewport
	if vp == primary {
		return it.Layouts[primary], true
	}
	if l, ok := it.Layouts[vp]; ok && l.Customized {
		return l, true
	}

	// Stack the canvas's non-customized items in array order.
	heights := make([]int, 0, len(canvas.Items))
	slot := -1
	for _, other := range canvas.Items {
		if l, ok := other.Layouts[vp]; ok && l.Customized {
			continue
		}
		if other.ID == itemID {
			slot = len(heights)
		}
		heights = append(heights, other.Layouts[primary].Height)
	}
	if slot < 0 {
		return ItemLayout{}, false
	}
	p := grid.AutoStack(heights, b.cfg.CanvasWidthUnits)[slot]
	return ItemLayout{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}, true
}

// ShouldRenderImmediately reports whether a component type's content mounts
// without waiting for a visibility callback: everything except Complex
// types, or everything when virtual rendering is disabled.
func (b *Builder) ShouldRenderImmediately(componentType string) bool {
	if !b.settings.EnableVirtualRendering {
		return true
	}
	desc, ok := b.registry.Lookup(componentType)
	if !ok {
		return true
	}
	return !desc.Complex
}

// ObserveItem registers an item's placeholder with the visibility
// scheduler, or fires the callback immediately when the item's type renders
// eagerly.
func (b *Builder) ObserveItem(itemID string, bounds BoundsFunc, cb VisibilityCallback) {
	_, it, _ := b.state.FindItem(itemID)
	if it == nil || cb == nil {
		return
	}
	if b.ShouldRenderImmediately(it.Type) {
		cb(true)
		return
	}
	b.scheduler.Observe(itemID, bounds, cb)
}

// UnobserveItem cancels an item's visibility watch. Idempotent.
func (b *Builder) UnobserveItem(itemID string) {
	b.scheduler.Unobserve(itemID)
}

// UpdateScrollport feeds the current scrollport to the visibility
// scheduler. Hosts call this from their scroll/intersection machinery.
func (b *Builder) UpdateScrollport(scrollport grid.Rect) {
	b.scheduler.Update(scrollport)
}
