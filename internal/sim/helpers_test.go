package sim

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

type collectWriter struct {
	states []telemetry.StateRow
	events []telemetry.EventRow
}

func (c *collectWriter) WriteState(r telemetry.StateRow) error {
	c.states = append(c.states, r)
	return nil
}

func (c *collectWriter) WriteEvent(r telemetry.EventRow) error {
	c.events = append(c.events, r)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMachine(t *testing.T, sched mission.Scheduler, d config.Difficulty, tick time.Duration, obs mission.Observer) *mission.Machine {
	t.Helper()
	cat, err := scenario.BuiltIn("submarine")
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	m, err := mission.NewMachine(mission.Options{
		Theme:        theme.Submarine,
		Difficulty:   d,
		Selector:     scenario.NewSelector(cat, scenario.NewRand(3)),
		Scheduler:    sched,
		TickInterval: tick,
		Observer:     obs,
		Logger:       quietLogger(),
	})
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	return m
}
