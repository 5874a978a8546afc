package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogDir  = "log-dir"

	// Root (timer) flags
	FlagWork      = "work"
	FlagShortRest = "short-rest"
	FlagLongRest  = "long-rest"
	FlagTUI       = "tui"
	FlagAltScreen = "alt-screen"
	FlagBell      = "bell"
	FlagAutoStart = "autostart"
	FlagEventsLog = "events-log"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Init command flags
	FlagDryRun = "dry-run"
	FlagForce  = "force"
	FlagGlobal = "global"

	// Output format flags
	FlagJSON = "json"
)
