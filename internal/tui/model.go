package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

// model is the bubbletea model for the TUI.
type model struct {
	// Event source
	eventChan <-chan events.Event

	// Timer state as of the last event
	mode      timer.Mode
	state     events.TimerState
	durations map[timer.Mode]int
	completed map[timer.Mode]int

	// Duration setting targeted by the +/- keys
	selected timer.Mode

	// Completion banner
	banner    string
	bannerSeq int

	// UI state
	width    int
	height   int
	keys     keyMap
	help     help.Model
	progress progress.Model

	// Presentation settings
	accents       map[timer.Mode]string
	bell          io.Writer
	bannerTimeout time.Duration

	// Callbacks
	onToggle         func()
	onReset          func()
	onSwitchMode     func(timer.Mode)
	onChangeDuration func(timer.Mode, int)
	onQuit           func()
}

// eventMsg wraps an event for the bubbletea message system.
type eventMsg events.Event

// newModel creates a model wired to t's callbacks and settings.
func newModel(t *TUI) model {
	m := model{
		eventChan:        t.eventChan,
		mode:             timer.ModeWork,
		durations:        make(map[timer.Mode]int),
		completed:        make(map[timer.Mode]int),
		keys:             defaultKeyMap(),
		help:             help.New(),
		progress:         progress.New(progress.WithSolidFill(accentColor(t.accents, timer.ModeWork)), progress.WithoutPercentage()),
		accents:          t.accents,
		bell:             t.bell,
		bannerTimeout:    t.bannerTimeout,
		onToggle:         t.onToggle,
		onReset:          t.onReset,
		onSwitchMode:     t.onSwitchMode,
		onChangeDuration: t.onChangeDuration,
		onQuit:           t.onQuit,
	}

	for _, mode := range timer.Modes {
		m.durations[mode] = defaultMinutes(mode)
	}

	if sg := t.stateGetter; sg != nil {
		snap := sg.Snapshot()
		m.mode = snap.Mode
		m.state = events.TimerState{
			Mode:             snap.Mode.String(),
			RemainingSeconds: snap.Remaining,
			TotalSeconds:     snap.Total,
			Running:          snap.Running,
			Progress:         snap.Progress,
		}
		for mode, minutes := range sg.Durations() {
			m.durations[mode] = minutes
		}
		for _, mode := range timer.Modes {
			m.completed[mode] = sg.Completed(mode)
		}
	} else {
		total := m.durations[m.mode] * 60
		m.state = events.TimerState{
			Mode:             m.mode.String(),
			RemainingSeconds: total,
			TotalSeconds:     total,
		}
	}
	m.selected = m.mode

	return m
}

func defaultMinutes(m timer.Mode) int {
	switch m {
	case timer.ModeShortRest:
		return timer.DefaultShortRestMinutes
	case timer.ModeLongRest:
		return timer.DefaultLongRestMinutes
	default:
		return timer.DefaultWorkMinutes
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return waitForEvent(m.eventChan)
}

// Update, handleKey and handleEvent are implemented in update.go
// View is implemented in view.go

// applyState records the snapshot carried by an event.
func (m *model) applyState(s events.TimerState) {
	mode, err := timer.ParseMode(s.Mode)
	if err != nil {
		return
	}
	if mode != m.mode {
		m.selected = mode
	}
	m.mode = mode
	m.state = s
}

// selectSetting moves the duration selection by step, wrapping around.
func (m *model) selectSetting(step int) {
	n := len(timer.Modes)
	idx := 0
	for i, mode := range timer.Modes {
		if mode == m.selected {
			idx = i
		}
	}
	m.selected = timer.Modes[((idx+step)%n+n)%n]
}
