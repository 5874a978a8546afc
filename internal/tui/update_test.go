package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// recorder captures the callbacks invoked by the model.
type recorder struct {
	toggles  int
	resets   int
	quits    int
	switches []timer.Mode
	changes  []durationChange
}

type durationChange struct {
	mode  timer.Mode
	delta int
}

func (r *recorder) options() []Option {
	return []Option{
		WithOnToggle(func() { r.toggles++ }),
		WithOnReset(func() { r.resets++ }),
		WithOnQuit(func() { r.quits++ }),
		WithOnSwitchMode(func(m timer.Mode) { r.switches = append(r.switches, m) }),
		WithOnChangeDuration(func(m timer.Mode, d int) {
			r.changes = append(r.changes, durationChange{m, d})
		}),
	}
}

func newTestModel(t *testing.T, opts ...Option) (model, *recorder) {
	t.Helper()
	rec := &recorder{}
	tui := New(make(chan events.Event), append(rec.options(), opts...)...)
	return newModel(tui), rec
}

func press(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	next, cmd := m.handleKey(msg)
	return next.(model), cmd
}

func TestHandleKey_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q key", runeKey("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newTestModel(t)

			_, cmd := press(m, tt.msg)

			if rec.quits != 1 {
				t.Errorf("onQuit called %d times, want 1", rec.quits)
			}
			if cmd == nil {
				t.Fatal("should return tea.Quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("command should produce tea.QuitMsg")
			}
		})
	}
}

func TestHandleKey_Toggle(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newTestModel(t)

			_, cmd := press(m, tt.msg)

			if rec.toggles != 1 {
				t.Errorf("onToggle called %d times, want 1", rec.toggles)
			}
			if cmd != nil {
				t.Error("toggle should not return a command")
			}
		})
	}
}

func TestHandleKey_Reset(t *testing.T) {
	m, rec := newTestModel(t)

	press(m, runeKey("r"))

	if rec.resets != 1 {
		t.Errorf("onReset called %d times, want 1", rec.resets)
	}
}

func TestHandleKey_SwitchMode(t *testing.T) {
	tests := []struct {
		key  string
		want timer.Mode
	}{
		{"1", timer.ModeWork},
		{"2", timer.ModeShortRest},
		{"3", timer.ModeLongRest},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, rec := newTestModel(t)

			m, _ = press(m, runeKey(tt.key))

			if len(rec.switches) != 1 || rec.switches[0] != tt.want {
				t.Errorf("switches = %v, want [%v]", rec.switches, tt.want)
			}
			if m.selected != tt.want {
				t.Errorf("selected = %v, want %v", m.selected, tt.want)
			}
		})
	}
}

func TestHandleKey_ChangeDurationTargetsSelection(t *testing.T) {
	m, rec := newTestModel(t)

	m, _ = press(m, runeKey("+"))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(m, runeKey("-"))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	_, _ = press(m, runeKey("j"))

	want := []durationChange{
		{timer.ModeWork, 1},
		{timer.ModeShortRest, -1},
		{timer.ModeLongRest, 1},
		{timer.ModeWork, -1},
	}
	if len(rec.changes) != len(want) {
		t.Fatalf("changes = %v, want %v", rec.changes, want)
	}
	for i := range want {
		if rec.changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, rec.changes[i], want[i])
		}
	}
}

func TestSelectSettingWraps(t *testing.T) {
	m, _ := newTestModel(t)

	m.selectSetting(-1)
	if m.selected != timer.ModeLongRest {
		t.Errorf("selected = %v, want %v", m.selected, timer.ModeLongRest)
	}
	m.selectSetting(1)
	if m.selected != timer.ModeWork {
		t.Errorf("selected = %v, want %v", m.selected, timer.ModeWork)
	}
}

func TestHandleKey_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runeKey("?"))
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
	m, _ = press(m, runeKey("?"))
	if m.help.ShowAll {
		t.Error("second ? should collapse help")
	}
}

func TestHandleKey_NilCallbacks(t *testing.T) {
	m := newModel(New(make(chan events.Event)))

	for _, k := range []string{" ", "r", "1", "2", "3", "+", "-", "q"} {
		// Must not panic with no callbacks configured.
		m.handleKey(runeKey(k))
	}
}

func TestHandleEvent_TimerStateUpdates(t *testing.T) {
	m, _ := newTestModel(t)

	m.handleEvent(&events.TimerEvent{
		BaseEvent: events.NewTimerEvent(events.EventTimerTick),
		State: events.TimerState{
			Mode:             "work",
			RemainingSeconds: 1499,
			TotalSeconds:     1500,
			Running:          true,
			Progress:         1.0 / 1500,
		},
	})

	if m.state.RemainingSeconds != 1499 {
		t.Errorf("RemainingSeconds = %d, want 1499", m.state.RemainingSeconds)
	}
	if !m.state.Running {
		t.Error("Running should be true")
	}
}

func TestHandleEvent_ModeSwitchMovesSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m.selected = timer.ModeLongRest

	m.handleEvent(&events.ModeSwitchedEvent{
		BaseEvent: events.NewUserEvent(events.EventModeSwitched),
		From:      "work",
		To:        "short_rest",
		State:     events.TimerState{Mode: "short_rest", RemainingSeconds: 300, TotalSeconds: 300},
	})

	if m.mode != timer.ModeShortRest {
		t.Errorf("mode = %v, want %v", m.mode, timer.ModeShortRest)
	}
	if m.selected != timer.ModeShortRest {
		t.Errorf("selected = %v, want %v", m.selected, timer.ModeShortRest)
	}
}

func TestHandleEvent_DurationChanged(t *testing.T) {
	m, _ := newTestModel(t)

	m.handleEvent(&events.DurationChangedEvent{
		BaseEvent: events.NewUserEvent(events.EventDurationChanged),
		Mode:      "long_rest",
		Minutes:   20,
		Delta:     5,
		State:     events.TimerState{Mode: "work", RemainingSeconds: 1500, TotalSeconds: 1500},
	})

	if m.durations[timer.ModeLongRest] != 20 {
		t.Errorf("durations[long_rest] = %d, want 20", m.durations[timer.ModeLongRest])
	}
}

func sessionComplete(mode, next string, completed int) *events.SessionCompleteEvent {
	return &events.SessionCompleteEvent{
		BaseEvent: events.NewTimerEvent(events.EventSessionComplete),
		Mode:      mode,
		Next:      next,
		AutoStart: mode == "work",
		Completed: completed,
		State:     events.TimerState{Mode: mode},
	}
}

func TestHandleEvent_SessionCompleteShowsBanner(t *testing.T) {
	var bell bytes.Buffer
	m, _ := newTestModel(t, WithBell(&bell))

	cmd := m.handleEvent(sessionComplete("work", "short_rest", 3))

	if m.banner != "Session complete! Time for a break." {
		t.Errorf("banner = %q", m.banner)
	}
	if m.completed[timer.ModeWork] != 3 {
		t.Errorf("completed[work] = %d, want 3", m.completed[timer.ModeWork])
	}
	if bell.String() != bellChar {
		t.Errorf("bell output = %q, want %q", bell.String(), bellChar)
	}
	if cmd != nil {
		t.Error("no expiry command expected without a banner timeout")
	}

	m, _ = press(m, runeKey("x"))
	if m.banner != "" {
		t.Error("any key should dismiss the banner")
	}
}

func TestHandleEvent_RestCompleteBanner(t *testing.T) {
	m, _ := newTestModel(t)

	m.handleEvent(sessionComplete("short_rest", "work", 1))

	if m.banner != "Break over. Ready when you are." {
		t.Errorf("banner = %q", m.banner)
	}
}

func TestBannerTimeout(t *testing.T) {
	m, _ := newTestModel(t, WithBannerTimeout(time.Millisecond))

	cmd := m.handleEvent(sessionComplete("work", "short_rest", 1))
	if cmd == nil {
		t.Fatal("expected an expiry command")
	}

	msg, ok := cmd().(bannerExpiredMsg)
	if !ok {
		t.Fatal("expiry command should produce bannerExpiredMsg")
	}

	// A newer banner is not hidden by an older expiry.
	m.handleEvent(sessionComplete("short_rest", "work", 1))
	next, _ := m.Update(msg)
	if next.(model).banner == "" {
		t.Error("stale expiry should not hide the newer banner")
	}

	next, _ = next.Update(bannerExpiredMsg{seq: m.bannerSeq})
	if next.(model).banner != "" {
		t.Error("current expiry should hide the banner")
	}
}

func TestUpdate_ChannelClosedQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(channelClosedMsg{})
	if cmd == nil {
		t.Fatal("expected tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command should produce tea.QuitMsg")
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	got := next.(model)
	if got.width != 100 || got.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", got.width, got.height)
	}
	if got.help.Width != 100 {
		t.Errorf("help.Width = %d, want 100", got.help.Width)
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan events.Event, 1)
	e := &events.TimerEvent{BaseEvent: events.NewUserEvent(events.EventTimerReset)}
	ch <- e

	msg := waitForEvent(ch)()
	if got, ok := msg.(eventMsg); !ok || events.Event(got) != e {
		t.Errorf("waitForEvent() = %v, want the queued event", msg)
	}

	close(ch)
	if _, ok := waitForEvent(ch)().(channelClosedMsg); !ok {
		t.Error("closed channel should produce channelClosedMsg")
	}
}
