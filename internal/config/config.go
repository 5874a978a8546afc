// Package config provides configuration types and defaults for tomato.
package config

import (
	"fmt"
	"time"

	"github.com/npratt/tomato/internal/timer"
)

// Config holds all configuration for tomato.
type Config struct {
	Durations   DurationsConfig   `yaml:"durations" mapstructure:"durations"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// DurationsConfig holds the starting interval lengths in minutes.
// Values outside a mode's bounds are clamped by the timer.
type DurationsConfig struct {
	Work      int `yaml:"work" mapstructure:"work"`             // 1-60
	ShortRest int `yaml:"short_rest" mapstructure:"short_rest"` // 1-30
	LongRest  int `yaml:"long_rest" mapstructure:"long_rest"`   // 1-60
}

// Minutes returns the durations keyed by timer mode.
func (d DurationsConfig) Minutes() map[timer.Mode]int {
	return map[timer.Mode]int{
		timer.ModeWork:      d.Work,
		timer.ModeShortRest: d.ShortRest,
		timer.ModeLongRest:  d.LongRest,
	}
}

// Clamped returns the durations limited to each mode's bounds, the values
// the timer actually runs with.
func (d DurationsConfig) Clamped() DurationsConfig {
	return DurationsConfig{
		Work:      timer.Bounds(timer.ModeWork).Clamp(d.Work),
		ShortRest: timer.Bounds(timer.ModeShortRest).Clamp(d.ShortRest),
		LongRest:  timer.Bounds(timer.ModeLongRest).Clamp(d.LongRest),
	}
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AltScreen     bool          `yaml:"alt_screen" mapstructure:"alt_screen"`         // Use the terminal's alternate screen
	Bell          bool          `yaml:"bell" mapstructure:"bell"`                     // Ring the terminal bell on completion
	AutoStart     bool          `yaml:"auto_start" mapstructure:"auto_start"`         // Start the first work interval at launch
	BannerTimeout time.Duration `yaml:"banner_timeout" mapstructure:"banner_timeout"` // Hide the completion banner after this long (0 = until a key press)
	Accents       AccentConfig  `yaml:"accents" mapstructure:"accents"`
}

// AccentConfig holds the per-mode accent colors used by the progress bar and
// mode tabs. Any lipgloss color string is accepted.
type AccentConfig struct {
	Work      string `yaml:"work" mapstructure:"work"`
	ShortRest string `yaml:"short_rest" mapstructure:"short_rest"`
	LongRest  string `yaml:"long_rest" mapstructure:"long_rest"`
}

// For returns the accent color for a mode.
func (a AccentConfig) For(m timer.Mode) string {
	switch m {
	case timer.ModeShortRest:
		return a.ShortRest
	case timer.ModeLongRest:
		return a.LongRest
	default:
		return a.Work
	}
}

// PathsConfig holds file locations.
type PathsConfig struct {
	LogDir    string `yaml:"log_dir" mapstructure:"log_dir"`       // Debug log directory (empty = XDG state dir)
	EventsLog string `yaml:"events_log" mapstructure:"events_log"` // JSON lines event log (empty = disabled)
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with the classic 25/5/15 pomodoro settings.
func Default() *Config {
	return &Config{
		Durations: DurationsConfig{
			Work:      timer.DefaultWorkMinutes,
			ShortRest: timer.DefaultShortRestMinutes,
			LongRest:  timer.DefaultLongRestMinutes,
		},
		UI: UIConfig{
			AltScreen: true,
			Bell:      true,
			Accents: AccentConfig{
				Work:      "#4A90E2",
				ShortRest: "#87CEEB",
				LongRest:  "#B0E0E6",
			},
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports settings that cannot be used as given.
func (c *Config) Validate() error {
	if c.UI.BannerTimeout < 0 {
		return fmt.Errorf("ui.banner_timeout must not be negative, got %s", c.UI.BannerTimeout)
	}
	if c.LogRotation.MaxSizeMB < 0 || c.LogRotation.MaxBackups < 0 || c.LogRotation.MaxAgeDays < 0 {
		return fmt.Errorf("log_rotation values must not be negative")
	}
	return nil
}
