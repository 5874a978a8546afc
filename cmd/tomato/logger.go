package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/npratt/tomato/internal/config"
)

// debugLogName is the file the TUI logs to inside the log directory.
const debugLogName = "tomato-debug.log"

// TUILoggerResult contains the results of setting up logging for TUI mode.
type TUILoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *TUILoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupTUILogger creates a logger that writes to a rotating file instead of stderr.
// This prevents log output from corrupting the TUI display.
// The log directory is created if needed.
func SetupTUILogger(logDir string, level slog.Leveler, rotationCfg config.LogRotationConfig) (*TUILoggerResult, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	debugLogPath := filepath.Join(logDir, debugLogName)

	debugLogWriter := &lumberjack.Logger{
		Filename:   debugLogPath,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &TUILoggerResult{
		Logger:   newJSONLogger(debugLogWriter, level),
		LogFile:  debugLogWriter,
		FilePath: debugLogPath,
	}, nil
}

// newJSONLogger creates the JSON slog logger used in every mode.
func newJSONLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
