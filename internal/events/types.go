// Package events defines the event types emitted by the timer controller and
// consumed by presentation layers and sinks.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Countdown control events
	EventTimerStarted EventType = "timer.started"
	EventTimerPaused  EventType = "timer.paused"
	EventTimerReset   EventType = "timer.reset"
	EventTimerTick    EventType = "timer.tick"

	// Configuration changes made at runtime
	EventModeSwitched    EventType = "mode.switched"
	EventDurationChanged EventType = "duration.changed"

	// Emitted once per countdown reaching zero
	EventSessionComplete EventType = "session.complete"
)

// Source constants identify the origin of events.
const (
	SourceTimer = "timer"
	SourceUser  = "user"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// TimerState is a point-in-time copy of the controller state, carried by every
// timer event so consumers never need to call back into the controller.
type TimerState struct {
	Mode             string  `json:"mode"`
	RemainingSeconds int     `json:"remaining_seconds"`
	TotalSeconds     int     `json:"total_seconds"`
	Running          bool    `json:"running"`
	Progress         float64 `json:"progress"`
}

// Stateful is implemented by events that carry a TimerState.
type Stateful interface {
	Event
	TimerState() TimerState
}

// TimerEvent is emitted for start, pause, reset and tick.
type TimerEvent struct {
	BaseEvent
	State TimerState `json:"state"`
}

// TimerState returns the snapshot taken when the event was emitted.
func (e *TimerEvent) TimerState() TimerState { return e.State }

// ModeSwitchedEvent is emitted when the active mode changes.
type ModeSwitchedEvent struct {
	BaseEvent
	From  string     `json:"from"`
	To    string     `json:"to"`
	State TimerState `json:"state"`
}

// TimerState returns the snapshot taken when the event was emitted.
func (e *ModeSwitchedEvent) TimerState() TimerState { return e.State }

// DurationChangedEvent is emitted after a duration adjustment, even when the
// clamp absorbed the whole delta.
type DurationChangedEvent struct {
	BaseEvent
	Mode    string     `json:"mode"`
	Minutes int        `json:"minutes"`
	Delta   int        `json:"delta"`
	State   TimerState `json:"state"`
}

// TimerState returns the snapshot taken when the event was emitted.
func (e *DurationChangedEvent) TimerState() TimerState { return e.State }

// SessionCompleteEvent is emitted when a countdown reaches zero, before the
// auto-transition is applied. State reflects the finished countdown.
type SessionCompleteEvent struct {
	BaseEvent
	Mode      string     `json:"mode"`
	Next      string     `json:"next"`
	AutoStart bool       `json:"auto_start"`
	Completed int        `json:"completed"`
	State     TimerState `json:"state"`
}

// TimerState returns the snapshot taken when the event was emitted.
func (e *SessionCompleteEvent) TimerState() TimerState { return e.State }

// NewEvent creates a BaseEvent with the given type and source.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewTimerEvent creates a BaseEvent with the timer as the source.
func NewTimerEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceTimer)
}

// NewUserEvent creates a BaseEvent for changes triggered by a user command.
func NewUserEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceUser)
}
