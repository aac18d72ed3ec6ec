package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"missionops-sim/internal/mission"
)

// LoopScheduler is a wall-clock mission.Scheduler. Timers fire on runtime
// goroutines but their callbacks are handed to the runner loop through C, so
// the machine only ever runs on one goroutine.
type LoopScheduler struct {
	fire chan func()
	done chan struct{}
	once sync.Once
}

// NewLoopScheduler creates a scheduler whose callbacks are read from C.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{fire: make(chan func(), 16), done: make(chan struct{})}
}

// C delivers due callbacks.
func (s *LoopScheduler) C() <-chan func() { return s.fire }

// Close releases timers blocked on delivery.
func (s *LoopScheduler) Close() { s.once.Do(func() { close(s.done) }) }

// AfterFunc schedules f once.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) mission.Timer {
	return s.arm(d, 0, f)
}

// Every schedules f with period d until stopped.
func (s *LoopScheduler) Every(d time.Duration, f func()) mission.Timer {
	return s.arm(d, d, f)
}

func (s *LoopScheduler) arm(d, every time.Duration, f func()) *loopTimer {
	lt := &loopTimer{s: s, every: every, f: f}
	lt.mu.Lock()
	lt.t = time.AfterFunc(d, lt.post)
	lt.mu.Unlock()
	return lt
}

type loopTimer struct {
	s       *LoopScheduler
	every   time.Duration
	f       func()
	mu      sync.Mutex
	t       *time.Timer
	stopped atomic.Bool
}

func (lt *loopTimer) post() {
	select {
	case lt.s.fire <- lt.run:
	case <-lt.s.done:
	}
}

// run executes on the loop goroutine. A timer stopped after its callback
// was queued must not fire.
func (lt *loopTimer) run() {
	if lt.stopped.Load() {
		return
	}
	if lt.every > 0 {
		lt.mu.Lock()
		lt.t = time.AfterFunc(lt.every, lt.post)
		lt.mu.Unlock()
	} else {
		lt.stopped.Store(true)
	}
	lt.f()
}

func (lt *loopTimer) Stop() bool {
	was := !lt.stopped.Swap(true)
	lt.mu.Lock()
	lt.t.Stop()
	lt.mu.Unlock()
	return was
}
