package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Sink consumes events from the router.
type Sink interface {
	Start(ctx context.Context, events <-chan Event) error
	Stop() error
}

// LogSink appends events to a JSON lines file. Tick events are skipped unless
// the sink was created with WithTicks, since they add one line per second.
type LogSink struct {
	path      string
	withTicks bool
	logger    *slog.Logger

	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	done    chan struct{}
}

// LogSinkOption configures a LogSink.
type LogSinkOption func(*LogSink)

// WithTicks makes the sink record timer.tick events too.
func WithTicks() LogSinkOption {
	return func(s *LogSink) {
		s.withTicks = true
	}
}

// WithSinkLogger sets the logger used for write failures.
func WithSinkLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) {
		s.logger = logger
	}
}

// NewLogSink creates a new LogSink that writes to the specified path.
func NewLogSink(path string, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		path:   path,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the log file and begins processing events.
// It runs until the context is canceled or the events channel is closed.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := s.openFile(); err != nil {
		return err
	}

	go s.run(ctx, events)
	return nil
}

func (s *LogSink) openFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create events log directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open events log: %w", err)
	}

	s.mu.Lock()
	s.file = file
	s.encoder = json.NewEncoder(file)
	s.mu.Unlock()

	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type() == EventTimerTick && !s.withTicks {
				continue
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return
	}

	if err := s.encoder.Encode(event); err != nil {
		s.logger.Warn("events log write failed", "event_type", event.Type(), "error", err)
	}
}

// Stop waits for the run loop to exit and closes the file.
func (s *LogSink) Stop() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.encoder = nil
		return err
	}
	return nil
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}
