package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/tomato/internal/timer"
)

const (
	minWidth  = 40
	minHeight = 12

	maxBarWidth = 60
)

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Handle too small terminal
	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	inner := safeWidth(m.width - 4) // Account for container border and padding

	sections := []string{
		m.renderTabs(),
		m.renderClock(inner),
		m.renderProgress(inner),
		m.renderStatus(),
		m.renderDivider(inner),
		m.renderSettings(),
	}
	if m.banner != "" {
		sections = append(sections, "", styles.Banner.Render(m.banner))
	}
	sections = append(sections, m.renderDivider(inner), m.renderFooter())

	rendered := styles.Container.
		BorderForeground(lipgloss.Color(accentColor(m.accents, m.mode))).
		Width(safeWidth(m.width - 2)).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// renderTabs renders one tab per mode with the active mode highlighted.
func (m model) renderTabs() string {
	tabs := make([]string, 0, len(timer.Modes))
	for _, mode := range timer.Modes {
		label := mode.Label()
		if mode == m.mode {
			tabs = append(tabs, styles.ActiveTab.
				Background(lipgloss.Color(accentColor(m.accents, mode))).
				Render(label))
			continue
		}
		tabs = append(tabs, styles.Tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) renderClock(w int) string {
	clock := styles.Clock.
		Foreground(lipgloss.Color(accentColor(m.accents, m.mode))).
		Render(timer.FormatClock(m.state.RemainingSeconds))
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, clock)
}

func (m model) renderProgress(w int) string {
	bar := m.progress
	bar.FullColor = accentColor(m.accents, m.mode)
	bar.Width = min(w, maxBarWidth)
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, bar.ViewAs(m.state.Progress))
}

// renderStatus renders the run state and the completed-session counters.
func (m model) renderStatus() string {
	var status string
	switch {
	case m.state.Running:
		status = styles.StatusRunning.Render("● running")
	case m.state.RemainingSeconds < m.state.TotalSeconds:
		status = styles.StatusPaused.Render("⏸ paused")
	default:
		status = styles.StatusStopped.Render("○ stopped")
	}

	counters := styles.Counter.Render(fmt.Sprintf(
		"done: %d pomodoro · %d short · %d long",
		m.completed[timer.ModeWork],
		m.completed[timer.ModeShortRest],
		m.completed[timer.ModeLongRest],
	))
	return status + "  " + counters
}

// renderSettings renders each mode's duration, marking the one the +/- keys
// adjust.
func (m model) renderSettings() string {
	parts := make([]string, 0, len(timer.Modes))
	for _, mode := range timer.Modes {
		text := fmt.Sprintf("%s %dm", mode.Label(), m.durations[mode])
		if mode == m.selected {
			parts = append(parts, styles.SettingSelected.
				Foreground(lipgloss.Color(accentColor(m.accents, mode))).
				Render("▸ "+text))
			continue
		}
		parts = append(parts, styles.Setting.Render("  "+text))
	}
	return strings.Join(parts, "  ")
}

func (m model) renderDivider(w int) string {
	return styles.Divider.Render(strings.Repeat("─", w))
}

// renderFooter renders key help with the toggle key labelled for the current
// run state.
func (m model) renderFooter() string {
	keys := m.keys
	keys.Toggle.SetHelp("space", m.toggleLabel())
	return styles.Footer.Render(m.help.View(keys))
}

// toggleLabel is the action the toggle key performs next.
func (m model) toggleLabel() string {
	if m.state.Running {
		return "pause"
	}
	return "start"
}

// renderTooSmall renders a message when the terminal is too small.
func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small\nNeed %dx%d, have %dx%d\n\n%s",
		minWidth, minHeight, m.width, m.height, timer.FormatClock(m.state.RemainingSeconds))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// safeWidth ensures width is at least 1.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}
