package sim

import (
	"testing"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

func TestRecorderWritesEventAndState(t *testing.T) {
	cw := &collectWriter{}
	rec := NewRecorder(telemetry.NewGenerator(theme.Submarine, nil), cw, quietLogger())
	var seen []mission.EventType
	obs := Observers{rec, mission.ObserverFunc(func(ev mission.Event) { seen = append(seen, ev.Type) }), nil}

	m := newMachine(t, mission.NewManualScheduler(), config.Normal, testTick, obs)
	if !m.SubmitPlan(mission.CompletePlan("SD-PH")) {
		t.Fatal("plan rejected")
	}
	if len(cw.events) != 1 || len(cw.states) != 1 || len(seen) != 1 {
		t.Fatalf("events=%d states=%d seen=%d", len(cw.events), len(cw.states), len(seen))
	}
	if cw.events[0].EventType != "phase_changed" || cw.events[0].From != "planning" || cw.states[0].Phase != "readiness" {
		t.Fatalf("rows = %+v %+v", cw.events[0], cw.states[0])
	}
	if cw.states[0].Route != "SD-PH" {
		t.Fatalf("route = %q", cw.states[0].Route)
	}
}
