package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/npratt/tomato/internal/events"
	"github.com/npratt/tomato/internal/timer"
)

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTerminal reports whether the process is attached to an interactive
// terminal on both stdin and stdout.
func IsTerminal() bool {
	return isTerminal()
}

// terminalSize returns the current terminal width and height.
// Returns 0, 0 if the terminal size cannot be determined.
func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}

// terminalTooSmall returns true if the terminal is below the minimum size.
func terminalTooSmall() bool {
	width, height := terminalSize()
	return width < minWidth || height < minHeight
}

const plainHelp = "commands: toggle, start, pause, reset, mode <work|short|long>, +[mode], -[mode], quit"

// command is a parsed plain-mode input line.
type command struct {
	name  string
	mode  timer.Mode
	delta int
	// hasMode is false for +/- without a mode, which target the active mode.
	hasMode bool
}

// parseCommand parses one input line. Blank lines yield an empty name.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, nil
	}

	word := fields[0]
	switch {
	case word == "toggle" || word == "t" || word == "start" || word == "pause" ||
		word == "reset" || word == "r" || word == "help" || word == "?" ||
		word == "quit" || word == "q" || word == "exit":
		return command{name: canonicalCommand(word)}, nil

	case word == "mode" || word == "m":
		if len(fields) < 2 {
			return command{}, fmt.Errorf("mode needs an argument")
		}
		mode, err := timer.ParseMode(fields[1])
		if err != nil {
			return command{}, err
		}
		return command{name: "mode", mode: mode, hasMode: true}, nil

	case strings.HasPrefix(word, "+") || strings.HasPrefix(word, "-"):
		delta := 1
		if word[0] == '-' {
			delta = -1
		}
		cmd := command{name: "duration", delta: delta}
		arg := word[1:]
		if arg == "" && len(fields) > 1 {
			arg = fields[1]
		}
		if arg != "" {
			mode, err := timer.ParseMode(arg)
			if err != nil {
				return command{}, err
			}
			cmd.mode, cmd.hasMode = mode, true
		}
		return cmd, nil
	}

	return command{}, fmt.Errorf("unknown command %q", word)
}

func canonicalCommand(word string) string {
	switch word {
	case "t":
		return "toggle"
	case "r":
		return "reset"
	case "?":
		return "help"
	case "q", "exit":
		return "quit"
	default:
		return word
	}
}

// RunPlain provides line-by-line output for non-interactive environments.
// It prints formatted events to out and reads line commands from in.
// Exits when ctx is done, the event channel closes, or "quit" is read.
func (t *TUI) RunPlain(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		// EOF leaves the timer running; stdin may simply be /dev/null.
	}()

	current := timer.ModeWork
	if t.stateGetter != nil {
		current = t.stateGetter.Snapshot().Mode
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.eventChan:
			if !ok {
				// Channel closed, exit cleanly
				return nil
			}

			if s, ok := event.(events.Stateful); ok {
				if m, err := timer.ParseMode(s.TimerState().Mode); err == nil {
					current = m
				}
			}
			if _, ok := event.(*events.SessionCompleteEvent); ok && t.bell != nil {
				_, _ = fmt.Fprint(t.bell, bellChar)
			}

			// Format and print the event
			text := Format(event)
			if text == "" {
				continue
			}

			timestamp := event.Timestamp().Format("15:04:05")
			if event.Timestamp().IsZero() {
				timestamp = time.Now().Format("15:04:05")
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", timestamp, text)

		case line := <-lines:
			cmd, err := parseCommand(line)
			if err != nil {
				_, _ = fmt.Fprintf(out, "%v\n%s\n", err, plainHelp)
				continue
			}
			if quit := t.apply(cmd, current, out); quit {
				return nil
			}
		}
	}
}

// activeMode returns the mode a bare +/- adjusts. The controller is asked
// directly since the mode.switched event for a preceding command may still be
// queued behind the input line; fallback is the mode seen in events.
func (t *TUI) activeMode(fallback timer.Mode) timer.Mode {
	if t.stateGetter != nil {
		return t.stateGetter.Snapshot().Mode
	}
	return fallback
}

// apply runs cmd against the callbacks. It reports whether the user asked to
// quit.
func (t *TUI) apply(cmd command, current timer.Mode, out io.Writer) bool {
	call := func(fn func()) {
		if fn != nil {
			fn()
		}
	}

	switch cmd.name {
	case "toggle":
		call(t.onToggle)
	case "start":
		call(t.onStart)
	case "pause":
		call(t.onPause)
	case "reset":
		call(t.onReset)
	case "mode":
		if t.onSwitchMode != nil {
			t.onSwitchMode(cmd.mode)
		}
	case "duration":
		mode := t.activeMode(current)
		if cmd.hasMode {
			mode = cmd.mode
		}
		if t.onChangeDuration != nil {
			t.onChangeDuration(mode, cmd.delta)
		}
	case "help":
		_, _ = fmt.Fprintln(out, plainHelp)
	case "quit":
		call(t.onQuit)
		return true
	}
	return false
}
