package mission

import (
	"sort"
	"time"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop disarms the timer. A stopped timer never fires again.
	Stop() bool
}

// Scheduler arms the cruise ticker and the decision timer. Callbacks must be
// delivered on the goroutine that owns the Machine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// ManualScheduler is a virtual clock that fires callbacks only from Advance.
// It drives machines synchronously in tests and headless runs.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	seq     int
	due     time.Duration
	every   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules f once, d after the current virtual time.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return s.add(d, 0, f)
}

// Every schedules f periodically with period d.
func (s *ManualScheduler) Every(d time.Duration, f func()) Timer {
	return s.add(d, d, f)
}

func (s *ManualScheduler) add(d, every time.Duration, f func()) Timer {
	s.seq++
	t := &manualTimer{seq: s.seq, due: s.now + d, every: every, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Now is the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration { return s.now }

// Pending counts armed timers.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing due timers in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		s.compact()
		if len(s.timers) == 0 || s.timers[0].due > target {
			break
		}
		t := s.timers[0]
		s.now = t.due
		if t.every > 0 {
			t.due += t.every
		} else {
			t.stopped = true
		}
		t.f()
	}
	s.now = target
}

// NextDue reports the virtual time until the next armed timer fires.
func (s *ManualScheduler) NextDue() (time.Duration, bool) {
	s.compact()
	if len(s.timers) == 0 {
		return 0, false
	}
	return s.timers[0].due - s.now, true
}

func (s *ManualScheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].seq < s.timers[j].seq
	})
}
