package testutil

import (
	"testing"
	"time"
)

func TestManualScheduler_FireRunsLiveTasks(t *testing.T) {
	s := NewManualScheduler()
	calls := 0
	stop := s.Every(time.Second, func() { calls++ })

	if got := s.Fire(); got != 1 {
		t.Errorf("Fire() = %d, want 1", got)
	}
	s.FireN(3)
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if s.Period() != time.Second {
		t.Errorf("Period() = %v, want %v", s.Period(), time.Second)
	}

	stop()
	stop()
	if s.Live() != 0 {
		t.Errorf("Live() = %d, want 0 after stop", s.Live())
	}
	if got := s.Fire(); got != 0 {
		t.Errorf("Fire() after stop = %d, want 0", got)
	}
}

func TestManualScheduler_TaskScheduledDuringFireWaits(t *testing.T) {
	s := NewManualScheduler()
	var second int
	var stopFirst func()
	stopFirst = s.Every(time.Second, func() {
		stopFirst()
		s.Every(time.Second, func() { second++ })
	})

	s.Fire()
	if second != 0 {
		t.Errorf("replacement task fired in the same round: %d", second)
	}
	s.Fire()
	if second != 1 {
		t.Errorf("replacement task calls = %d, want 1", second)
	}
	if s.Scheduled() != 2 {
		t.Errorf("Scheduled() = %d, want 2", s.Scheduled())
	}
	if s.MaxLive() != 1 {
		t.Errorf("MaxLive() = %d, want 1", s.MaxLive())
	}
}

func TestManualScheduler_StoppedDuringFireIsSkipped(t *testing.T) {
	s := NewManualScheduler()
	var stopB func()
	var bCalls int
	s.Every(time.Second, func() { stopB() })
	stopB = s.Every(time.Second, func() { bCalls++ })

	if got := s.Fire(); got != 1 {
		t.Errorf("Fire() = %d, want 1", got)
	}
	if bCalls != 0 {
		t.Error("task stopped earlier in the same round should not run")
	}
	if s.MaxLive() != 2 {
		t.Errorf("MaxLive() = %d, want 2", s.MaxLive())
	}
}
