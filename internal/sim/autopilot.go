package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"missionops-sim/internal/mission"
	"missionops-sim/internal/theme"
)

// Policy decides how the autopilot answers emergencies.
type Policy string

const (
	PolicyCorrect Policy = "correct"
	PolicyWrong   Policy = "wrong"
	PolicyRandom  Policy = "random"
	PolicyTimeout Policy = "timeout"
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policies lists the supported policies.
func Policies() []Policy {
	return []Policy{PolicyCorrect, PolicyWrong, PolicyRandom, PolicyTimeout}
}

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// maxSteps bounds a single flight so a broken catalog cannot spin forever.
const maxSteps = 10000

// Autopilot flies a machine headlessly on a virtual clock.
type Autopilot struct {
	Policy Policy
	Route  string
	Tick   time.Duration
	rng    *rand.Rand
	log    *slog.Logger
}

// NewAutopilot creates an autopilot. An empty route picks the theme's first.
func NewAutopilot(p Policy, route string, tick time.Duration, rng *rand.Rand, log *slog.Logger) *Autopilot {
	if log == nil {
		log = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &Autopilot{Policy: p, Route: route, Tick: tick, rng: rng, log: log}
}

// Fly plans, checks and cruises m until the run reaches an absorbing phase.
// sched must be the scheduler m was built with.
func (a *Autopilot) Fly(ctx context.Context, m *mission.Machine, sched *mission.ManualScheduler) (mission.RunState, error) {
	route := a.Route
	if route == "" && len(m.Theme().Routes) > 0 {
		route = m.Theme().Routes[0].Code()
	}
	if !m.SubmitPlan(mission.CompletePlan(route)) {
		return m.State(), fmt.Errorf("plan for route %q rejected", route)
	}
	for _, k := range theme.ChecklistKeys() {
		if !m.Checklist().Done(k) {
			m.ToggleReadinessItem(k)
		}
	}
	if !m.BeginCruise() {
		return m.State(), errors.New("readiness checklist incomplete")
	}
	a.log.Debug("autopilot engaged", "run_id", m.State().RunID, "route", route, "policy", a.Policy)

	for step := 0; !m.State().Phase.Absorbing(); step++ {
		if err := ctx.Err(); err != nil {
			return m.State(), err
		}
		if step >= maxSteps {
			return m.State(), fmt.Errorf("run did not finish after %d steps", maxSteps)
		}
		act, ok := m.Active()
		if !ok {
			sched.Advance(a.Tick)
			continue
		}
		if err := a.answer(m, sched, act); err != nil {
			return m.State(), err
		}
	}
	return m.State(), nil
}

func (a *Autopilot) answer(m *mission.Machine, sched *mission.ManualScheduler, act mission.ActiveScenario) error {
	choices := act.Definition.Choices
	var pick string
	switch a.Policy {
	case PolicyTimeout:
		sched.Advance(act.Window)
		return nil
	case PolicyRandom:
		pick = choices[a.rng.IntN(len(choices))].ID
	case PolicyCorrect, PolicyWrong:
		want := a.Policy == PolicyCorrect
		for _, c := range choices {
			if c.Correct == want {
				pick = c.ID
				break
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, a.Policy)
	}
	if pick == "" {
		sched.Advance(act.Window)
		return nil
	}
	_, err := m.SubmitChoice(pick)
	return err
}
