package timer

import (
	"fmt"
	"strings"
)

// Mode selects which interval the timer counts down.
type Mode int

// Timer modes.
const (
	// ModeWork is the focus interval.
	ModeWork Mode = iota
	// ModeShortRest is the short break taken after a work interval.
	ModeShortRest
	// ModeLongRest is the long break.
	ModeLongRest
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeWork, ModeShortRest, ModeLongRest}

// Default interval lengths in minutes.
const (
	DefaultWorkMinutes      = 25
	DefaultShortRestMinutes = 5
	DefaultLongRestMinutes  = 15
)

// Range is an inclusive bound on a mode's duration in minutes.
type Range struct {
	Min int
	Max int
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v int) int {
	return max(r.Min, min(r.Max, v))
}

var bounds = map[Mode]Range{
	ModeWork:      {Min: 1, Max: 60},
	ModeShortRest: {Min: 1, Max: 30},
	ModeLongRest:  {Min: 1, Max: 60},
}

// Bounds returns the allowed duration range for a mode.
func Bounds(m Mode) Range {
	return bounds[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	_, ok := bounds[m]
	return ok
}

// String returns the canonical name used in events and config.
func (m Mode) String() string {
	switch m {
	case ModeWork:
		return "work"
	case ModeShortRest:
		return "short_rest"
	case ModeLongRest:
		return "long_rest"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label returns the human-readable name shown in the UI.
func (m Mode) Label() string {
	switch m {
	case ModeWork:
		return "Pomodoro"
	case ModeShortRest:
		return "Short Break"
	case ModeLongRest:
		return "Long Break"
	default:
		return m.String()
	}
}

// ParseMode accepts canonical names as well as the short and hyphenated
// aliases users type on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "pomodoro", "focus":
		return ModeWork, nil
	case "short_rest", "short-rest", "short-break", "short_break", "short":
		return ModeShortRest, nil
	case "long_rest", "long-rest", "long-break", "long_break", "long":
		return ModeLongRest, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so modes log and encode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseMode.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
