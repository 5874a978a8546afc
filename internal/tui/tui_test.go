package tui

import (
	"io"
	"testing"
	"time"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

func TestNew(t *testing.T) {
	eventChan := make(chan events.Event)
	tui := New(eventChan)

	if tui == nil {
		t.Fatal("New returned nil")
	}
	if !tui.altScreen {
		t.Error("alt screen should be on by default")
	}
	if tui.bell != nil {
		t.Error("bell should be off by default")
	}
}

func TestOptions(t *testing.T) {
	var toggled, reset, quit bool
	var switched timer.Mode = -1
	var changed int

	tui := New(make(chan events.Event),
		WithOnToggle(func() { toggled = true }),
		WithOnReset(func() { reset = true }),
		WithOnQuit(func() { quit = true }),
		WithOnSwitchMode(func(m timer.Mode) { switched = m }),
		WithOnChangeDuration(func(_ timer.Mode, d int) { changed = d }),
		WithAccent(timer.ModeWork, "212"),
		WithAccent(timer.ModeShortRest, ""),
		WithAltScreen(false),
		WithBell(io.Discard),
		WithBannerTimeout(5*time.Second),
	)

	tui.onToggle()
	tui.onReset()
	tui.onQuit()
	tui.onSwitchMode(timer.ModeLongRest)
	tui.onChangeDuration(timer.ModeWork, -1)

	if !toggled || !reset || !quit {
		t.Error("callbacks should be wired")
	}
	if switched != timer.ModeLongRest {
		t.Errorf("switched = %v, want %v", switched, timer.ModeLongRest)
	}
	if changed != -1 {
		t.Errorf("changed = %d, want -1", changed)
	}
	if tui.accents[timer.ModeWork] != "212" {
		t.Errorf("work accent = %q, want 212", tui.accents[timer.ModeWork])
	}
	if _, ok := tui.accents[timer.ModeShortRest]; ok {
		t.Error("empty accent should keep the default")
	}
	if tui.altScreen {
		t.Error("WithAltScreen(false) should disable alt screen")
	}
	if tui.bell == nil {
		t.Error("WithBell should set the bell writer")
	}
	if tui.bannerTimeout != 5*time.Second {
		t.Errorf("bannerTimeout = %v, want 5s", tui.bannerTimeout)
	}
}

func TestNewModel_WithoutStateGetter(t *testing.T) {
	m := newModel(New(make(chan events.Event)))

	if m.mode != timer.ModeWork {
		t.Errorf("mode = %v, want work", m.mode)
	}
	if m.state.RemainingSeconds != 1500 || m.state.TotalSeconds != 1500 {
		t.Errorf("state = %+v, want 1500/1500", m.state)
	}
	if m.durations[timer.ModeShortRest] != 5 || m.durations[timer.ModeLongRest] != 15 {
		t.Errorf("durations = %v, want defaults", m.durations)
	}
}

func TestNewModel_FromController(t *testing.T) {
	ctrl := timer.New(timer.WithDurations(map[timer.Mode]int{timer.ModeShortRest: 10}))
	ctrl.SwitchMode(timer.ModeShortRest)

	m := newModel(New(make(chan events.Event), WithStateGetter(ctrl)))

	if m.mode != timer.ModeShortRest {
		t.Errorf("mode = %v, want short_rest", m.mode)
	}
	if m.state.RemainingSeconds != 600 {
		t.Errorf("RemainingSeconds = %d, want 600", m.state.RemainingSeconds)
	}
	if m.durations[timer.ModeShortRest] != 10 {
		t.Errorf("durations[short_rest] = %d, want 10", m.durations[timer.ModeShortRest])
	}
}
