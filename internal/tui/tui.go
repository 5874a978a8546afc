// Package tui provides the terminal presentation for the pomodoro timer using
// bubbletea, plus a line-oriented fallback for non-interactive terminals.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

// StateGetter provides the controller state shown before the first event
// arrives.
type StateGetter interface {
	Snapshot() timer.Snapshot
	Durations() map[timer.Mode]int
	Completed(m timer.Mode) int
}

// TUI is the terminal UI for the timer.
type TUI struct {
	eventChan <-chan events.Event

	onToggle         func()
	onStart          func()
	onPause          func()
	onReset          func()
	onSwitchMode     func(timer.Mode)
	onChangeDuration func(timer.Mode, int)
	onQuit           func()
	stateGetter      StateGetter

	accents       map[timer.Mode]string
	altScreen     bool
	bell          io.Writer
	bannerTimeout time.Duration
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a new TUI with the given event channel and options.
func New(eventChan <-chan events.Event, opts ...Option) *TUI {
	t := &TUI{
		eventChan: eventChan,
		accents:   make(map[timer.Mode]string),
		altScreen: true,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithOnToggle sets the callback invoked by the start/pause key.
func WithOnToggle(fn func()) Option {
	return func(t *TUI) {
		t.onToggle = fn
	}
}

// WithOnStart sets the callback for the "start" line command.
func WithOnStart(fn func()) Option {
	return func(t *TUI) {
		t.onStart = fn
	}
}

// WithOnPause sets the callback for the "pause" line command.
func WithOnPause(fn func()) Option {
	return func(t *TUI) {
		t.onPause = fn
	}
}

// WithOnReset sets the callback invoked when the user presses 'r'.
func WithOnReset(fn func()) Option {
	return func(t *TUI) {
		t.onReset = fn
	}
}

// WithOnSwitchMode sets the callback invoked when the user picks a mode.
func WithOnSwitchMode(fn func(timer.Mode)) Option {
	return func(t *TUI) {
		t.onSwitchMode = fn
	}
}

// WithOnChangeDuration sets the callback invoked with a mode and a minute
// delta when the user adjusts a duration.
func WithOnChangeDuration(fn func(timer.Mode, int)) Option {
	return func(t *TUI) {
		t.onChangeDuration = fn
	}
}

// WithOnQuit sets the callback invoked when the user presses 'q'.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithStateGetter sets the provider for the initial display state.
func WithStateGetter(sg StateGetter) Option {
	return func(t *TUI) {
		t.stateGetter = sg
	}
}

// WithAccent sets the progress bar and tab color for a mode. Any lipgloss
// color string is accepted.
func WithAccent(m timer.Mode, color string) Option {
	return func(t *TUI) {
		if color != "" {
			t.accents[m] = color
		}
	}
}

// WithAltScreen controls whether the TUI takes over the full screen.
func WithAltScreen(enabled bool) Option {
	return func(t *TUI) {
		t.altScreen = enabled
	}
}

// WithBell rings the terminal bell on w when a countdown completes.
// A nil writer disables the bell.
func WithBell(w io.Writer) Option {
	return func(t *TUI) {
		t.bell = w
	}
}

// WithBannerTimeout hides the completion banner after d. Zero keeps it until
// the next key press.
func WithBannerTimeout(d time.Duration) Option {
	return func(t *TUI) {
		t.bannerTimeout = d
	}
}

// Run starts the TUI and blocks until it exits. It falls back to line output
// when stdin or stdout is not a terminal, or the terminal is too small.
func (t *TUI) Run(ctx context.Context) error {
	if !isTerminal() || terminalTooSmall() {
		return t.RunPlain(ctx, os.Stdin, os.Stdout)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(t), opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
