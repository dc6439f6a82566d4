// Package events delivers change notifications from the tab registry and
// the project tree to the host UI. Delivery is synchronous on the caller's
// goroutine.
package events

// Kind identifies a notification
type Kind int

const (
	// TabsChanged means the visible tab strip needs a reflow
	TabsChanged Kind = iota
	// SelectionChanged means a different tab (or none) is now selected
	SelectionChanged
	// TreeChanged means the explorer tree needs a redraw
	TreeChanged
)

func (k Kind) String() string {
	switch k {
	case TabsChanged:
		return "tabs changed"
	case SelectionChanged:
		return "selection changed"
	case TreeChanged:
		return "tree changed"
	default:
		return "unknown"
	}
}

// Event is one notification. Path names the tab or node concerned when
// there is a single one.
type Event struct {
	Kind Kind
	Path string
}

// Handler receives events
type Handler func(Event)

// Emitter is what the core uses to publish events
type Emitter interface {
	Emit(Event)
}

// Bus fans events out to subscribers in subscription order
type Bus struct {
	handlers map[Kind][]Handler
	all      []Handler
}

// NewBus creates a bus with no subscribers
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers h for one kind of event
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.handlers[kind] = append(b.handlers[kind], h)
}

// SubscribeAll registers h for every event
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

func (b *Bus) Emit(e Event) {
	for _, h := range b.handlers[e.Kind] {
		h(e)
	}
	for _, h := range b.all {
		h(e)
	}
}

// Recorder keeps every event it receives
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many events of kind were recorded
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops the recorded events
func (r *Recorder) Reset() {
	r.Events = nil
}

// Nop ignores every event
type Nop struct{}

func (Nop) Emit(Event) {}
