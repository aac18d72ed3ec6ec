package telemetry

import (
	"math/rand/v2"

	"missionops-sim/internal/mission"
	"missionops-sim/internal/theme"
)

// Generator turns machine events into telemetry rows. The vertical and speed
// gauges are cosmetic and derived from progress.
type Generator struct {
	Theme theme.Theme
	rng   *rand.Rand
}

// NewGenerator creates a generator for th. A nil rng disables gauge jitter.
func NewGenerator(th theme.Theme, rng *rand.Rand) *Generator {
	return &Generator{Theme: th, rng: rng}
}

// StateRow snapshots the state carried by ev.
func (g *Generator) StateRow(ev mission.Event) StateRow {
	s := ev.State
	vertical, speed := g.gauges(s)
	return StateRow{
		RunID:        s.RunID,
		Theme:        s.Theme,
		Difficulty:   string(s.Difficulty),
		Phase:        s.Phase.String(),
		Route:        s.Route,
		Progress:     s.Progress,
		Resource:     s.Resource,
		Safety:       s.SafetyScore,
		Accuracy:     s.DecisionAccuracy,
		WrongAnswers: s.WrongAnswerCount,
		Resolved:     s.EmergenciesResolved,
		Risk:         string(s.Risk),
		Vertical:     vertical,
		Speed:        speed,
		Timestamp:    ev.At.UTC(),
	}
}

// EventRow flattens ev.
func (g *Generator) EventRow(ev mission.Event) EventRow {
	row := EventRow{
		RunID:       ev.State.RunID,
		Theme:       ev.State.Theme,
		EventType:   string(ev.Type),
		Phase:       ev.Phase.String(),
		ScenarioID:  ev.ScenarioID,
		ChoiceID:    ev.ChoiceID,
		Correct:     ev.Correct,
		TimedOut:    ev.TimedOut,
		Consequence: ev.Consequence,
		Timestamp:   ev.At.UTC(),
	}
	if ev.From != ev.Phase {
		row.From = ev.From.String()
	}
	if o := ev.State.Outcome; o != nil && ev.Type == mission.EventOutcome {
		row.Outcome = string(o.Cause)
	}
	if a := ev.Advisory; a != nil {
		row.Advisory = a.ID
		row.Level = string(a.Level)
		row.Message = a.Message
	}
	return row
}

// gauges ramps the vehicle to cruise level over the first 35% of the route,
// holds it through the cruise sub-phase and brings it back down for arrival.
func (g *Generator) gauges(s mission.RunState) (vertical, speed float64) {
	p := s.Progress
	switch s.Phase {
	case mission.Planning, mission.Readiness, mission.Resolution:
		return 0, 0
	}
	var f float64
	switch {
	case p < 35:
		f = p / 35
	case p < 75:
		f = 1
	default:
		f = max(0, (100-p)/25)
	}
	vertical = f * g.Theme.Gauge.Cruise
	speed = g.Theme.Gauge.MaxSpeed * (3 + 7*f) / 10
	if s.Phase.IsEmergency() {
		speed *= 0.6
	}
	if g.rng != nil && vertical > 0 {
		vertical += (g.rng.Float64()*2 - 1) * g.Theme.Gauge.Cruise * 0.01
		vertical = max(0, vertical)
	}
	return vertical, speed
}
