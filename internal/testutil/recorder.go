package testutil

import (
	"sync"

	"github.com/npratt/tomato/internal/events"
)

// EventRecorder is an events.Emitter that keeps everything it receives.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Emit records the event.
func (r *EventRecorder) Emit(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in emission order.
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in emission order.
func (r *EventRecorder) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

// Count returns how many events of type t were recorded.
func (r *EventRecorder) Count(t events.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}

// Last returns the most recent event, or nil.
func (r *EventRecorder) Last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// Reset discards everything recorded so far.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
