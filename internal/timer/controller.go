// Package timer implements the pomodoro countdown state machine: mode
// selection, one-second ticks, pause and resume, duration bounds and the
// automatic transition between modes when a countdown finishes.
package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/npratt/tomato/internal/events"
)

// Period is the wall-clock interval between ticks of a running countdown.
const Period = time.Second

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Mode      Mode
	Remaining int // seconds
	Total     int // seconds
	Running   bool
	Progress  float64
}

// Clock returns the remaining time formatted as MM:SS.
func (s Snapshot) Clock() string {
	return FormatClock(s.Remaining)
}

func (s Snapshot) state() events.TimerState {
	return events.TimerState{
		Mode:             s.Mode.String(),
		RemainingSeconds: s.Remaining,
		TotalSeconds:     s.Total,
		Running:          s.Running,
		Progress:         s.Progress,
	}
}

// Controller owns the countdown state for one session.
//
// Events are emitted while the controller lock is held so that subscribers
// observe them in the order the state changed. Emitters must not call back
// into the controller.
type Controller struct {
	mu sync.Mutex

	mode      Mode
	durations map[Mode]int // minutes
	remaining int          // seconds
	running   bool
	completed map[Mode]int

	scheduler  Scheduler
	period     time.Duration
	stopTick   func()
	generation uint64

	emitter events.Emitter
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the tick source. Defaults to TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithPeriod overrides the tick period.
func WithPeriod(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithEmitter sets where state change events are published.
func WithEmitter(e events.Emitter) Option {
	return func(c *Controller) {
		c.emitter = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithDurations sets the starting length in minutes for the given modes.
// Values are clamped to each mode's bounds; unknown modes are ignored.
func WithDurations(minutes map[Mode]int) Option {
	return func(c *Controller) {
		for m, v := range minutes {
			if m.Valid() {
				c.durations[m] = Bounds(m).Clamp(v)
			}
		}
	}
}

// New creates a stopped controller in work mode with the default durations.
func New(opts ...Option) *Controller {
	c := &Controller{
		mode: ModeWork,
		durations: map[Mode]int{
			ModeWork:      DefaultWorkMinutes,
			ModeShortRest: DefaultShortRestMinutes,
			ModeLongRest:  DefaultLongRestMinutes,
		},
		completed: make(map[Mode]int),
		scheduler: TickerScheduler{},
		period:    Period,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.remaining = c.totalLocked()
	return c
}

// Start begins the countdown. It is a no-op while running or when nothing
// remains.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(events.SourceUser)
}

// Pause stops the countdown and keeps the remaining time.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.cancelLocked()
	c.running = false
	c.logger.Debug("timer paused", "mode", c.mode, "remaining", c.remaining)
	c.emitTimerLocked(events.EventTimerPaused, events.SourceUser)
}

// Toggle pauses a running countdown or starts a stopped one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()

	// Start and Pause are both guarded, so a change between the check and the
	// call only turns the call into a no-op.
	if running {
		c.Pause()
		return
	}
	c.Start()
}

// Reset stops the countdown and refills it from the active mode's duration.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.logger.Debug("timer reset", "mode", c.mode, "remaining", c.remaining)
	c.emitTimerLocked(events.EventTimerReset, events.SourceUser)
}

// SwitchMode activates m and resets the countdown to its full length.
func (c *Controller) SwitchMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !m.Valid() {
		c.logger.Debug("ignoring switch to unknown mode", "mode", int(m))
		return
	}
	c.switchModeLocked(m, events.SourceUser)
}

// ChangeDuration adds delta minutes to m's duration, clamped to its bounds,
// and returns the resulting length. Changing the active mode resets the
// countdown.
func (c *Controller) ChangeDuration(m Mode, delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !m.Valid() {
		c.logger.Debug("ignoring duration change for unknown mode", "mode", int(m))
		return 0
	}

	c.durations[m] = Bounds(m).Clamp(c.durations[m] + delta)
	if m == c.mode {
		c.resetLocked()
	}

	c.logger.Debug("duration changed", "mode", m, "delta", delta, "minutes", c.durations[m])
	c.emitLocked(&events.DurationChangedEvent{
		BaseEvent: events.NewUserEvent(events.EventDurationChanged),
		Mode:      m.String(),
		Minutes:   c.durations[m],
		Delta:     delta,
		State:     c.snapshotLocked().state(),
	})
	return c.durations[m]
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Remaining returns the seconds left in the current countdown.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// IsRunning reports whether a countdown is in progress.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Duration returns m's configured length in minutes.
func (c *Controller) Duration(m Mode) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.durations[m]
}

// Durations returns a copy of every mode's length in minutes.
func (c *Controller) Durations() map[Mode]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[Mode]int, len(c.durations))
	for m, v := range c.durations {
		out[m] = v
	}
	return out
}

// Progress returns the elapsed fraction of the current countdown.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progressFraction(c.totalLocked(), c.remaining)
}

// Completed returns how many countdowns of mode m ran to zero this session.
func (c *Controller) Completed(m Mode) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed[m]
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// tick is the body of the periodic task scheduled with generation gen.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A tick can race a cancel; only the live task may touch the countdown.
	if gen != c.generation || !c.running {
		return
	}

	if c.remaining > 0 {
		c.remaining--
	}
	c.emitTimerLocked(events.EventTimerTick, events.SourceTimer)

	if c.remaining == 0 {
		c.completeLocked()
	}
}

// completeLocked stops the finished countdown, signals completion and applies
// the auto-transition: work is followed by a running short rest, any rest by
// a stopped work interval.
func (c *Controller) completeLocked() {
	finished := c.mode
	c.cancelLocked()
	c.running = false
	c.completed[finished]++

	next, autoStart := ModeWork, false
	if finished == ModeWork {
		next, autoStart = ModeShortRest, true
	}

	c.logger.Info("session complete",
		"mode", finished,
		"completed", c.completed[finished],
		"next", next,
		"auto_start", autoStart,
	)
	c.emitLocked(&events.SessionCompleteEvent{
		BaseEvent: events.NewTimerEvent(events.EventSessionComplete),
		Mode:      finished.String(),
		Next:      next.String(),
		AutoStart: autoStart,
		Completed: c.completed[finished],
		State:     c.snapshotLocked().state(),
	})

	c.switchModeLocked(next, events.SourceTimer)
	if autoStart {
		c.startLocked(events.SourceTimer)
	}
}

func (c *Controller) startLocked(source string) {
	if c.running || c.remaining <= 0 {
		return
	}

	c.cancelLocked()
	gen := c.generation
	c.stopTick = c.scheduler.Every(c.period, func() { c.tick(gen) })
	c.running = true

	c.logger.Debug("timer started", "mode", c.mode, "remaining", c.remaining, "source", source)
	c.emitTimerLocked(events.EventTimerStarted, source)
}

func (c *Controller) switchModeLocked(m Mode, source string) {
	from := c.mode
	c.mode = m
	c.resetLocked()

	c.logger.Debug("mode switched", "from", from, "to", m, "source", source)
	c.emitLocked(&events.ModeSwitchedEvent{
		BaseEvent: events.NewEvent(events.EventModeSwitched, source),
		From:      from.String(),
		To:        m.String(),
		State:     c.snapshotLocked().state(),
	})
}

func (c *Controller) resetLocked() {
	c.cancelLocked()
	c.running = false
	c.remaining = c.totalLocked()
}

// cancelLocked stops the live tick source, if any, and invalidates ticks
// already in flight.
func (c *Controller) cancelLocked() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	c.generation++
}

func (c *Controller) totalLocked() int {
	return c.durations[c.mode] * 60
}

func (c *Controller) snapshotLocked() Snapshot {
	total := c.totalLocked()
	return Snapshot{
		Mode:      c.mode,
		Remaining: c.remaining,
		Total:     total,
		Running:   c.running,
		Progress:  progressFraction(total, c.remaining),
	}
}

func (c *Controller) emitTimerLocked(t events.EventType, source string) {
	c.emitLocked(&events.TimerEvent{
		BaseEvent: events.NewEvent(t, source),
		State:     c.snapshotLocked().state(),
	})
}

func (c *Controller) emitLocked(e events.Event) {
	if c.emitter != nil {
		c.emitter.Emit(e)
	}
}
