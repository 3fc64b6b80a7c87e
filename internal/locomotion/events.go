package locomotion

import "github.com/elliotchance/orderedmap/v2"

// Event is a transition edge of the state machine.
type Event uint8

const (
	StartMoving Event = iota
	StopMoving
	SprintStarted
	SprintEnded
	Crouched
	Uncrouched
	ProneStarted
	ProneEnded
	Jumped
	Landed
	SlideStarted
	SlideEnded
)

var eventNames = [...]string{
	StartMoving:   "start_moving",
	StopMoving:    "stop_moving",
	SprintStarted: "sprint_started",
	SprintEnded:   "sprint_ended",
	Crouched:      "crouched",
	Uncrouched:    "uncrouched",
	ProneStarted:  "prone_started",
	ProneEnded:    "prone_ended",
	Jumped:        "jumped",
	Landed:        "landed",
	SlideStarted:  "slide_started",
	SlideEnded:    "slide_ended",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// ListenerID identifies a registration so it can be removed.
type ListenerID uint64

type subscription struct {
	event Event
	any   bool
	fn    func(Event)
}

// Listeners dispatches events to registered callbacks synchronously, in
// registration order.
type Listeners struct {
	next ListenerID
	subs *orderedmap.OrderedMap[ListenerID, subscription]
}

// NewListeners returns an empty registry.
func NewListeners() *Listeners {
	return &Listeners{subs: orderedmap.NewOrderedMap[ListenerID, subscription]()}
}

// On registers fn for a single event.
func (l *Listeners) On(ev Event, fn func()) ListenerID {
	return l.add(subscription{event: ev, fn: func(Event) { fn() }})
}

// OnAny registers fn for every event.
func (l *Listeners) OnAny(fn func(Event)) ListenerID {
	return l.add(subscription{any: true, fn: fn})
}

// Off removes a registration. It reports whether id was registered.
func (l *Listeners) Off(id ListenerID) bool {
	return l.subs.Delete(id)
}

// Len returns the number of registrations.
func (l *Listeners) Len() int {
	return l.subs.Len()
}

// Emit invokes every listener registered for ev.
func (l *Listeners) Emit(ev Event) {
	for el := l.subs.Front(); el != nil; el = el.Next() {
		if el.Value.any || el.Value.event == ev {
			el.Value.fn(ev)
		}
	}
}

func (l *Listeners) add(s subscription) ListenerID {
	l.next++
	l.subs.Set(l.next, s)
	return l.next
}
