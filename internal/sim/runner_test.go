package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/theme"
)

func waitFor(t *testing.T, r *Runner, what string, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if v := r.Snapshot(); cond(v) {
			return v
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; last phase %s", what, r.Snapshot().State.Phase)
	return View{}
}

func TestRunnerDrivesMachine(t *testing.T) {
	sched := NewLoopScheduler()
	m := newMachine(t, sched, config.Normal, time.Millisecond, nil)
	r := NewRunner(m, sched)

	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), quietLogger()))
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	if v := r.Snapshot(); v.State.Phase != mission.Planning || v.Theme != "submarine" {
		t.Fatalf("initial view: %+v", v)
	}
	if ok, err := r.Plan(ctx, mission.CompletePlan("NF-PL")); err != nil || !ok {
		t.Fatalf("plan: %v %v", ok, err)
	}
	if ok, _ := r.Launch(ctx); ok {
		t.Fatal("launched with incomplete checklist")
	}
	if err := r.Do(ctx, func(m *mission.Machine) {
		for _, k := range theme.ChecklistKeys() {
			m.ToggleReadinessItem(k)
		}
	}); err != nil {
		t.Fatalf("checklist: %v", err)
	}
	if ok, err := r.Launch(ctx); err != nil || !ok {
		t.Fatalf("launch: %v %v", ok, err)
	}

	v := waitFor(t, r, "first emergency", func(v View) bool { return v.Active != nil })
	if v.State.Phase != mission.Emergency1 {
		t.Fatalf("phase = %s", v.State.Phase)
	}
	if _, err := r.Choose(ctx, "no-such-choice"); !errors.Is(err, mission.ErrUnknownChoice) {
		t.Fatalf("err = %v", err)
	}
	var correct string
	for _, c := range v.Active.Definition.Choices {
		if c.Correct {
			correct = c.ID
		}
	}
	res, err := r.Choose(ctx, correct)
	if err != nil || !res.Accepted || !res.Correct {
		t.Fatalf("choose: %+v %v", res, err)
	}
	waitFor(t, r, "second emergency", func(v View) bool { return v.State.Phase == mission.Emergency2 })

	if err := r.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v := r.Snapshot(); v.State.Phase != mission.Planning || v.PlayCount != 1 || v.Active != nil {
		t.Fatalf("after reset: %+v", v)
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := r.Do(context.Background(), func(*mission.Machine) {}); !errors.Is(err, ErrRunnerStopped) {
		t.Fatalf("err after stop = %v", err)
	}
}

func TestLoopSchedulerDeliversToLoop(t *testing.T) {
	s := NewLoopScheduler()
	defer s.Close()

	fired := 0
	s.AfterFunc(time.Millisecond, func() { fired++ })
	stopped := s.AfterFunc(time.Millisecond, func() { t.Error("stopped timer fired") })
	stopped.Stop()

	for fired == 0 {
		select {
		case f := <-s.C():
			f()
		case <-time.After(time.Second):
			t.Fatal("callback not delivered")
		}
	}

	ticks := 0
	tk := s.Every(time.Millisecond, func() { ticks++ })
	for ticks < 3 {
		select {
		case f := <-s.C():
			f()
		case <-time.After(time.Second):
			t.Fatalf("tick %d not delivered", ticks)
		}
	}
	if !tk.Stop() {
		t.Fatal("stop should report true")
	}
}
