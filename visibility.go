package gridbuilder

import (
	"github.com/pagegrid/gridbuilder/internal/debug"
	"github.com/pagegrid/gridbuilder/internal/grid"
)

// DefaultVisibilityMargin is how far outside the scrollport, in pixels, an
// item still counts as visible. Pre-mounting just-offscreen content hides
// the mount latency from scrolling.
const DefaultVisibilityMargin = 200

// BoundsFunc reports the current pixel bounds of an observed placeholder.
// ok is false while the placeholder is not measurable (not mounted yet).
type BoundsFunc func() (bounds grid.Rect, ok bool)

// VisibilityCallback receives visibility transitions for one item.
type VisibilityCallback func(visible bool)

// visTarget is one observed placeholder.
type visTarget struct {
	bounds  BoundsFunc
	cb      VisibilityCallback
	visible bool
}

// Scheduler gates expensive content mounting on viewport visibility.
//
// One shared Scheduler instance watches every registered placeholder —
// per-item observers do not scale past a few hundred items. The host drives
// it: whenever its own scroll/intersection machinery fires, it calls Update
// with the current scrollport and the scheduler delivers callbacks for the
// items whose visibility changed. Delivery order follows observation order.
type Scheduler struct {
	margin  int
	targets map[string]*visTarget
	order   []string
}

// NewScheduler creates a scheduler with the given visibility margin in
// pixels. A negative margin selects DefaultVisibilityMargin.
func NewScheduler(marginPx int) *Scheduler {
	if marginPx < 0 {
		marginPx = DefaultVisibilityMargin
	}
	return &Scheduler{
		margin:  marginPx,
		targets: make(map[string]*visTarget),
	}
}

// Observe registers a watch for an item's placeholder. The callback fires
// with true when the bounds come within the margin of the scrollport, and
// with false when they leave it. Observing an already observed item
// replaces its watch; the item's current visibility carries over so the
// new callback still only sees transitions.
func (s *Scheduler) Observe(itemID string, bounds BoundsFunc, cb VisibilityCallback) {
	if itemID == "" || bounds == nil || cb == nil {
		return
	}
	t := &visTarget{bounds: bounds, cb: cb}
	if prev, exists := s.targets[itemID]; exists {
		t.visible = prev.visible
	} else {
		s.order = append(s.order, itemID)
	}
	s.targets[itemID] = t
}

// Unobserve cancels the watch for an item. Safe to call for ids never
// observed or already unobserved.
func (s *Scheduler) Unobserve(itemID string) {
	if _, exists := s.targets[itemID]; !exists {
		return
	}
	delete(s.targets, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Observed returns the number of active watches.
func (s *Scheduler) Observed() int {
	return len(s.targets)
}

// Update evaluates every watch against the scrollport and invokes callbacks
// for items whose visibility changed. Items start invisible: the first
// callback an item receives is the true that mounts its content.
func (s *Scheduler) Update(scrollport grid.Rect) {
	window := scrollport.Outset(s.margin)
	for _, id := range s.order {
		t := s.targets[id]
		bounds, ok := t.bounds()
		visible := ok && window.Intersects(bounds)
		if visible == t.visible {
			continue
		}
		t.visible = visible
		debug.Log("visibility: %s -> %v", id, visible)
		t.cb(visible)
	}
}
