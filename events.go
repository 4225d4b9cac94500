package gridbuilder

// EventType names a category of builder event.
type EventType string

const (
	EventItemAdded        EventType = "item:added"
	EventItemRemoved      EventType = "item:removed"
	EventItemUpdated      EventType = "item:updated"
	EventItemMoved        EventType = "item:moved"
	EventBatchApplied     EventType = "batch:applied"
	EventSelectionChanged EventType = "selection:changed"
	EventCanvasAdded      EventType = "canvas:added"
	EventCanvasRemoved    EventType = "canvas:removed"
	EventViewportChanged  EventType = "viewport:changed"

	// EventFault is the generic "observe a fault" channel: the core never
	// throws for expected edge conditions, it reports them here and lets
	// the host decide how (or whether) to surface them.
	EventFault EventType = "fault"
)

// Event carries the details of one builder event. Fields are populated as
// the type requires; unused fields are zero.
type Event struct {
	Type     EventType
	CanvasID string
	ItemID   string
	ItemIDs  []string // batch variants
	Viewport Viewport
	Err      error // EventFault only
}

// eventListener is a registered callback with an active flag so removal
// never disturbs an in-flight emit.
type eventListener struct {
	fn     func(Event)
	active bool
}

// eventBus dispatches events synchronously, immediately after the
// corresponding state mutation commits. It is the builder-level analog of a
// UI event bus: listeners keyed by type, fired in subscription order.
type eventBus struct {
	listeners map[EventType][]*eventListener
}

func newEventBus() *eventBus {
	return &eventBus{listeners: make(map[EventType][]*eventListener)}
}

// on registers fn for events of type t and returns its removal handle.
func (b *eventBus) on(t EventType, fn func(Event)) Unsubscribe {
	l := &eventListener{fn: fn, active: true}
	b.listeners[t] = append(b.listeners[t], l)
	return func() { l.active = false }
}

// emit delivers ev to every active listener of its type, compacting
// removed listeners as it goes.
func (b *eventBus) emit(ev Event) {
	registered := b.listeners[ev.Type]
	if len(registered) == 0 {
		return
	}
	active := registered[:0]
	for _, l := range registered {
		if l.active {
			active = append(active, l)
		}
	}
	b.listeners[ev.Type] = active
	for _, l := range active {
		l.fn(ev)
	}
}
