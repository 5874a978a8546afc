package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

// bellChar is written to the bell writer when a countdown completes.
const bellChar = "\a"

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// bannerExpiredMsg hides the banner it was scheduled for.
type bannerExpiredMsg struct {
	seq int
}

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

// expireBanner creates a command that hides banner seq after d.
func expireBanner(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		cmd := m.handleEvent(events.Event(msg))
		return m, tea.Batch(cmd, waitForEvent(m.eventChan))

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil

	case channelClosedMsg:
		// Event channel closed - clean exit
		slog.Info("event channel closed, exiting TUI")
		return m, tea.Quit

	default:
		return m, nil
	}
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key acknowledges the completion banner.
	m.banner = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.onToggle != nil {
			m.onToggle()
		}

	case key.Matches(msg, m.keys.Reset):
		if m.onReset != nil {
			m.onReset()
		}

	case key.Matches(msg, m.keys.Work):
		m.switchMode(timer.ModeWork)

	case key.Matches(msg, m.keys.ShortRest):
		m.switchMode(timer.ModeShortRest)

	case key.Matches(msg, m.keys.LongRest):
		m.switchMode(timer.ModeLongRest)

	case key.Matches(msg, m.keys.Prev):
		m.selectSetting(-1)

	case key.Matches(msg, m.keys.Next):
		m.selectSetting(1)

	case key.Matches(msg, m.keys.Increase):
		m.changeDuration(1)

	case key.Matches(msg, m.keys.Decrease):
		m.changeDuration(-1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *model) switchMode(mode timer.Mode) {
	m.selected = mode
	if m.onSwitchMode != nil {
		m.onSwitchMode(mode)
	}
}

func (m *model) changeDuration(delta int) {
	if m.onChangeDuration != nil {
		m.onChangeDuration(m.selected, delta)
	}
}

// handleEvent processes an event and updates model state. The returned
// command, if any, should run alongside the next event wait.
func (m *model) handleEvent(event events.Event) tea.Cmd {
	var cmd tea.Cmd

	switch e := event.(type) {
	case *events.DurationChangedEvent:
		if mode, err := timer.ParseMode(e.Mode); err == nil {
			m.durations[mode] = e.Minutes
		}

	case *events.SessionCompleteEvent:
		if mode, err := timer.ParseMode(e.Mode); err == nil {
			m.completed[mode] = e.Completed
		}
		cmd = m.showBanner(completionBanner(e))
	}

	if s, ok := event.(events.Stateful); ok {
		m.applyState(s.TimerState())
	}

	return cmd
}

// showBanner displays text, rings the bell if configured, and schedules the
// banner to expire when a timeout is set.
func (m *model) showBanner(text string) tea.Cmd {
	m.banner = text
	m.bannerSeq++

	if m.bell != nil {
		_, _ = fmt.Fprint(m.bell, bellChar)
	}
	if m.bannerTimeout > 0 {
		return expireBanner(m.bannerTimeout, m.bannerSeq)
	}
	return nil
}

// completionBanner returns the message shown when a countdown finishes.
func completionBanner(e *events.SessionCompleteEvent) string {
	if mode, err := timer.ParseMode(e.Mode); err == nil && mode == timer.ModeWork {
		return "Session complete! Time for a break."
	}
	return "Break over. Ready when you are."
}
