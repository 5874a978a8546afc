// Package testutil provides deterministic fakes and helpers shared by tests.
package testutil

import (
	"sync"
	"time"
)

type task struct {
	id     int
	period time.Duration
	fn     func()
}

// ManualScheduler is a tick source that only fires when told to.
// It satisfies timer.Scheduler.
type ManualScheduler struct {
	mu        sync.Mutex
	nextID    int
	tasks     []*task
	scheduled int
	maxLive   int
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn as a live task until the returned stop func is called.
func (s *ManualScheduler) Every(period time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &task{id: s.nextID, period: period, fn: fn}
	s.tasks = append(s.tasks, t)
	s.scheduled++
	s.maxLive = max(s.maxLive, len(s.tasks))

	return func() { s.remove(t.id) }
}

func (s *ManualScheduler) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Fire runs every task that is live at the time of the call once. Tasks
// scheduled by a fired task wait for the next Fire, the same way a new wall
// clock ticker waits a full period. Returns the number of tasks run.
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	live := make([]*task, len(s.tasks))
	copy(live, s.tasks)
	s.mu.Unlock()

	fired := 0
	for _, t := range live {
		if !s.isLive(t.id) {
			continue
		}
		t.fn()
		fired++
	}
	return fired
}

// FireN calls Fire n times.
func (s *ManualScheduler) FireN(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

func (s *ManualScheduler) isLive(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.id == id {
			return true
		}
	}
	return false
}

// Live returns the number of tasks that have not been stopped.
func (s *ManualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// MaxLive returns the highest number of simultaneously live tasks seen.
func (s *ManualScheduler) MaxLive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxLive
}

// Scheduled returns how many tasks were ever registered.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Period returns the period of the most recently registered live task, or 0.
func (s *ManualScheduler) Period() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return 0
	}
	return s.tasks[len(s.tasks)-1].period
}
