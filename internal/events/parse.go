package events

import (
	"encoding/json"
	"fmt"
)

// eventEnvelope is used for initial JSON parsing to determine event type.
type eventEnvelope struct {
	Type EventType `json:"type"`
}

// ParseEvent parses a JSON line written by LogSink back into a typed Event.
// Returns nil with no error for unknown event types.
func ParseEvent(line []byte) (Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}

	var ev Event
	switch envelope.Type {
	case EventTimerStarted, EventTimerPaused, EventTimerReset, EventTimerTick:
		ev = &TimerEvent{}
	case EventModeSwitched:
		ev = &ModeSwitchedEvent{}
	case EventDurationChanged:
		ev = &DurationChangedEvent{}
	case EventSessionComplete:
		ev = &SessionCompleteEvent{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(line, ev); err != nil {
		return nil, fmt.Errorf("parse %s event: %w", envelope.Type, err)
	}
	return ev, nil
}
