package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/tomato/internal/timer"
)

// defaultAccents are the per-mode colors used when none are configured.
var defaultAccents = map[timer.Mode]string{
	timer.ModeWork:      "#4A90E2",
	timer.ModeShortRest: "#87CEEB",
	timer.ModeLongRest:  "#B0E0E6",
}

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Counter   lipgloss.Style

	// Countdown
	Clock lipgloss.Style

	// Duration settings
	Setting         lipgloss.Style
	SettingSelected lipgloss.Style

	// Completion banner
	Banner lipgloss.Style

	// Status colors
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusStopped lipgloss.Style

	// Footer style
	Footer lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Tab: lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("245")),

	ActiveTab: lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(lipgloss.Color("231")),

	Counter: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Clock: lipgloss.NewStyle().
		Bold(true).
		Padding(1, 0),

	Setting: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	SettingSelected: lipgloss.NewStyle().
		Bold(true).
		Underline(true),

	Banner: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("16")).
		Background(lipgloss.Color("114")).
		Padding(0, 2),

	StatusRunning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	StatusPaused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	StatusStopped: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),
}

// accentColor returns the configured color for m, or its default.
func accentColor(accents map[timer.Mode]string, m timer.Mode) string {
	if c, ok := accents[m]; ok && c != "" {
		return c
	}
	return defaultAccents[m]
}
