package timer

import (
	"sync"
	"time"
)

// Scheduler runs a function periodically until the returned stop func is called.
// Stop must be safe to call more than once and must not block waiting for an
// in-flight call of fn to finish.
type Scheduler interface {
	Every(period time.Duration, fn func()) (stop func())
}

// TickerScheduler schedules tasks against the wall clock using time.Ticker.
// Each task runs on its own goroutine.
type TickerScheduler struct{}

// Every starts a goroutine that calls fn once per period.
func (TickerScheduler) Every(period time.Duration, fn func()) func() {
	ticker := time.NewTicker(period)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A stop may race with a fired tick; prefer stopping.
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
