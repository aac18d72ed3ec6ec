package sim

import (
	"context"
	"errors"
	"sync"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/mission"
)

// ErrRunnerStopped is returned by commands issued after Run has returned.
var ErrRunnerStopped = errors.New("runner stopped")

// View is a read-only snapshot of the machine, refreshed after every
// command and timer callback.
type View struct {
	Theme      string                    `json:"theme"`
	Settings   config.DifficultySettings `json:"settings"`
	State      mission.RunState          `json:"state"`
	Active     *mission.ActiveScenario   `json:"active,omitempty"`
	Checklist  mission.Checklist         `json:"checklist"`
	Advisories []mission.Advisory        `json:"advisories,omitempty"`
	PlayCount  int                       `json:"play_count"`
}

type command struct {
	fn   func(*mission.Machine)
	done chan struct{}
}

// Runner owns a Machine and serialises every input to it on one goroutine.
type Runner struct {
	m       *mission.Machine
	sched   *LoopScheduler
	cmds    chan command
	stopped chan struct{}

	mu   sync.RWMutex
	view View
}

// NewRunner wraps m. sched must be the scheduler m was built with.
func NewRunner(m *mission.Machine, sched *LoopScheduler) *Runner {
	r := &Runner{
		m:       m,
		sched:   sched,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
	}
	r.refresh()
	return r
}

// Run processes commands and timer callbacks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting mission runner",
		"theme", r.m.Theme().ID,
		"difficulty", r.m.State().Difficulty,
		"run_id", r.m.State().RunID)
	defer close(r.stopped)
	defer r.sched.Close()

	for {
		select {
		case c := <-r.cmds:
			c.fn(r.m)
			r.refresh()
			close(c.done)
		case f := <-r.sched.C():
			f()
			r.refresh()
		case <-ctx.Done():
			log.Info("stopping mission runner", "phase", r.m.State().Phase)
			return nil
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (r *Runner) Do(ctx context.Context, fn func(*mission.Machine)) error {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case r.cmds <- c:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the latest view.
func (r *Runner) Snapshot() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// Choose submits a choice for the active scenario.
func (r *Runner) Choose(ctx context.Context, choiceID string) (mission.Result, error) {
	var (
		res mission.Result
		err error
	)
	if derr := r.Do(ctx, func(m *mission.Machine) {
		res, err = m.SubmitChoice(choiceID)
	}); derr != nil {
		return mission.Result{}, derr
	}
	return res, err
}

// Reset finishes the current run and opens a new one in planning.
func (r *Runner) Reset(ctx context.Context) error {
	return r.Do(ctx, func(m *mission.Machine) { m.ResetRun() })
}

// Plan submits a flight or dive plan.
func (r *Runner) Plan(ctx context.Context, p mission.Plan) (bool, error) {
	var ok bool
	err := r.Do(ctx, func(m *mission.Machine) { ok = m.SubmitPlan(p) })
	return ok, err
}

// Launch leaves readiness when the checklist is complete.
func (r *Runner) Launch(ctx context.Context) (bool, error) {
	var ok bool
	err := r.Do(ctx, func(m *mission.Machine) { ok = m.BeginCruise() })
	return ok, err
}

// refresh runs on the loop goroutine only.
func (r *Runner) refresh() {
	v := ViewOf(r.m)
	r.mu.Lock()
	r.view = v
	r.mu.Unlock()
}

// ViewOf snapshots m. It must be called from the goroutine that owns m.
func ViewOf(m *mission.Machine) View {
	v := View{
		Theme:      m.Theme().ID,
		Settings:   m.Settings(),
		State:      m.State(),
		Checklist:  m.Checklist(),
		Advisories: m.RecentAdvisories(),
		PlayCount:  m.PlayCount(),
	}
	if act, ok := m.Active(); ok {
		v.Active = &act
	}
	return v
}
