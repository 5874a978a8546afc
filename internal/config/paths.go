package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName is used for config and state directory names.
const AppName = "tomato"

// Config file locations. The global file lives under the XDG config
// directory, the project file under the working directory.
const (
	GlobalConfigDir   = AppName
	GlobalConfigFile  = "config.yaml"
	ProjectConfigDir  = ".tomato"
	ProjectConfigFile = "config.yaml"
)

// GlobalPath returns the per-user config file path,
// $XDG_CONFIG_HOME/tomato/config.yaml or ~/.config/tomato/config.yaml.
// The file may not exist.
func GlobalPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, GlobalConfigDir, GlobalConfigFile), nil
}

// ProjectPath returns the project config file path relative to the working
// directory.
func ProjectPath() string {
	return filepath.Join(ProjectConfigDir, ProjectConfigFile)
}

// ResolveLogDir returns the directory for the debug log: the configured one,
// or $XDG_STATE_HOME/tomato, falling back to ~/.local/state/tomato.
func (p PathsConfig) ResolveLogDir() (string, error) {
	if p.LogDir != "" {
		return filepath.Abs(p.LogDir)
	}

	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", AppName), nil
}
