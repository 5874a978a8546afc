package tui

import (
	"fmt"
	"strings"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

// textBarWidth is the number of cells in the plain-text progress bar.
const textBarWidth = 20

// Format converts an event to a human-readable string for display.
// Returns empty string for nil or unknown event types.
func Format(event events.Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *events.TimerEvent:
		return formatTimer(e)
	case *events.ModeSwitchedEvent:
		return fmt.Sprintf("mode: %s → %s (%s)",
			modeLabel(e.From), modeLabel(e.To), timer.FormatClock(e.State.RemainingSeconds))
	case *events.DurationChangedEvent:
		return fmt.Sprintf("%s duration: %d min", modeLabel(e.Mode), e.Minutes)
	case *events.SessionCompleteEvent:
		return formatSessionComplete(e)
	default:
		return ""
	}
}

func formatTimer(e *events.TimerEvent) string {
	s := e.State
	clock := timer.FormatClock(s.RemainingSeconds)

	switch e.Type() {
	case events.EventTimerStarted:
		return fmt.Sprintf("started %s at %s", modeLabel(s.Mode), clock)
	case events.EventTimerPaused:
		return fmt.Sprintf("paused %s at %s", modeLabel(s.Mode), clock)
	case events.EventTimerReset:
		return fmt.Sprintf("reset %s to %s", modeLabel(s.Mode), clock)
	case events.EventTimerTick:
		return fmt.Sprintf("%s %s %s", modeLabel(s.Mode), clock, textBar(s.Progress))
	default:
		return ""
	}
}

func formatSessionComplete(e *events.SessionCompleteEvent) string {
	text := completionBanner(e)
	if e.AutoStart {
		return fmt.Sprintf("%s (%s #%d done, %s starting)",
			text, modeLabel(e.Mode), e.Completed, modeLabel(e.Next))
	}
	return fmt.Sprintf("%s (%s #%d done, next: %s)",
		text, modeLabel(e.Mode), e.Completed, modeLabel(e.Next))
}

// modeLabel renders a mode name from an event, falling back to the raw value.
func modeLabel(s string) string {
	m, err := timer.ParseMode(s)
	if err != nil {
		return s
	}
	return m.Label()
}

// textBar renders progress in [0, 1] as a fixed-width bar with a percentage.
func textBar(progress float64) string {
	progress = max(0, min(1, progress))
	filled := int(progress * textBarWidth)
	return fmt.Sprintf("[%s%s] %3d%%",
		strings.Repeat("#", filled),
		strings.Repeat(".", textBarWidth-filled),
		int(progress*100))
}
