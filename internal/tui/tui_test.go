package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

type fakeController struct {
	m      *mission.Machine
	sched  *mission.ManualScheduler
	chosen []string
	resets int
}

func (f *fakeController) Snapshot() sim.View { return sim.ViewOf(f.m) }

func (f *fakeController) Do(_ context.Context, fn func(*mission.Machine)) error {
	fn(f.m)
	return nil
}

func (f *fakeController) Choose(_ context.Context, id string) (mission.Result, error) {
	f.chosen = append(f.chosen, id)
	return f.m.SubmitChoice(id)
}

func (f *fakeController) Reset(context.Context) error {
	f.resets++
	f.m.ResetRun()
	return nil
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	cat, err := scenario.BuiltIn("submarine")
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	sched := mission.NewManualScheduler()
	m, err := mission.NewMachine(mission.Options{
		Theme:        theme.Submarine,
		Difficulty:   config.Normal,
		Selector:     scenario.NewSelector(cat, scenario.NewRand(1)),
		Scheduler:    sched,
		TickInterval: 300 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return &fakeController{m: m, sched: sched}
}

func press(t *testing.T, m tuiModel, key string) (tuiModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	mi, cmd := m.Update(msg)
	return mi.(tuiModel), cmd
}

// run executes an action command and feeds its notice back to the model.
func run(t *testing.T, m tuiModel, cmd tea.Cmd) tuiModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	mi, _ := m.Update(cmd())
	return mi.(tuiModel)
}

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	ts := time.Unix(0, 0).UTC()

	if err := w.WriteEvent(telemetry.EventRow{EventType: "tick", Timestamp: ts}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(p.msgs) != 0 {
		t.Fatalf("tick should not reach the log: %v", p.msgs)
	}
	w.WriteEvent(telemetry.EventRow{EventType: "choice_resolved", Correct: true, Consequence: "Great decision!", Timestamp: ts})
	lm, ok := p.msgs[0].(logMsg)
	if !ok || !strings.Contains(lm.line, "CORRECT") || !strings.Contains(lm.line, "Great decision!") {
		t.Fatalf("expected logMsg, got %#v", p.msgs[0])
	}
	w.WriteState(telemetry.StateRow{Phase: "cruise_0", Vertical: 120})
	if _, ok := p.msgs[1].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[1])
	}
	w.SetAdminStatus("127.0.0.1:8080")
	if am, ok := p.msgs[2].(adminMsg); !ok || am.addr != "127.0.0.1:8080" {
		t.Fatalf("expected adminMsg, got %#v", p.msgs[2])
	}
	w.WriteEvent(telemetry.EventRow{EventType: "advisory", Level: "warning", Message: "Activate the sign", Timestamp: ts})
	if lm, ok := p.msgs[3].(logMsg); !ok || !strings.Contains(lm.line, "CO-PILOT") || !strings.Contains(lm.line, colorYellow) {
		t.Fatalf("expected advisory logMsg, got %#v", p.msgs[3])
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel(newFakeController(t), theme.Submarine)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 80})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "one two three four five six"})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap")
	}
	m, _ = press(t, m, "w")
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(newFakeController(t), theme.Submarine)
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	m, _ = press(t, m, "s")
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	m, _ = press(t, m, "up")
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	m, _ = press(t, m, "s")
	if !m.autoscroll || m.vp.YOffset != len(m.logs)-m.vp.Height {
		t.Fatalf("autoscroll=%v offset=%d", m.autoscroll, m.vp.YOffset)
	}
}

func TestPlanningAndReadinessKeys(t *testing.T) {
	ctl := newFakeController(t)
	m := newTUIModel(ctl, theme.Submarine)

	m, _ = press(t, m, "right")
	if m.routeIdx != 1 {
		t.Fatalf("routeIdx = %d", m.routeIdx)
	}
	m, cmd := press(t, m, "d")
	m = run(t, m, cmd)
	if ctl.m.State().Difficulty != config.Hard || !strings.Contains(m.notice, "Captain") {
		t.Fatalf("difficulty = %s notice %q", ctl.m.State().Difficulty, m.notice)
	}
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	if st := ctl.m.State(); st.Phase != mission.Readiness || st.Route != theme.Submarine.Routes[1].Code() {
		t.Fatalf("after plan: %s %q", st.Phase, st.Route)
	}
	if !strings.Contains(m.View(), theme.Submarine.Checklist[theme.ItemReactor]) {
		t.Fatal("checklist not rendered")
	}

	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	if m.notice != "checklist incomplete" {
		t.Fatalf("notice = %q", m.notice)
	}
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "8"} {
		m, cmd = press(t, m, k)
		m = run(t, m, cmd)
		if k == "1" && !strings.Contains(m.View(), theme.Submarine.Advisories.PowerOnline) {
			t.Fatal("power advisory not shown")
		}
	}
	m, cmd = press(t, m, "+")
	m = run(t, m, cmd)
	m, cmd = press(t, m, "+")
	m = run(t, m, cmd)
	if ctl.m.Checklist().ControlSurfaceDeg != 10 || !ctl.m.Checklist().Complete() {
		t.Fatalf("checklist = %+v", ctl.m.Checklist())
	}
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	if ctl.m.State().Phase != mission.Cruise0 {
		t.Fatalf("phase = %s", ctl.m.State().Phase)
	}
}

func TestEmergencyChoiceKeys(t *testing.T) {
	ctl := newFakeController(t)
	ctl.m.SubmitPlan(mission.CompletePlan("SD-PH"))
	for _, k := range theme.ChecklistKeys() {
		ctl.m.ToggleReadinessItem(k)
	}
	ctl.m.BeginCruise()

	m := newTUIModel(ctl, theme.Submarine)
	if _, cmd := press(t, m, "1"); cmd != nil {
		t.Fatal("choice key accepted while cruising")
	}
	for !ctl.m.State().Phase.IsEmergency() {
		ctl.sched.Advance(300 * time.Millisecond)
	}
	mi, _ := m.Update(refreshMsg(time.Now()))
	m = mi.(tuiModel)
	m.now = func() time.Time { return m.view.Active.PresentedAt.Add(5 * time.Second) }
	if m.view.Active == nil {
		t.Fatal("no active scenario after refresh")
	}
	out := m.View()
	if !strings.Contains(out, m.view.Active.Definition.Title) || !strings.Contains(out, "15s") {
		t.Fatalf("scenario panel missing:\n%s", out)
	}
	if _, cmd := press(t, m, "9"); cmd != nil {
		t.Fatal("out of range choice accepted")
	}
	m, cmd := press(t, m, "1")
	m = run(t, m, cmd)
	if len(ctl.chosen) != 1 || len(ctl.m.State().History) != 1 {
		t.Fatalf("chosen=%v history=%d", ctl.chosen, len(ctl.m.State().History))
	}
	if m.notice == "" {
		t.Fatal("consequence not shown")
	}

	m, cmd = press(t, m, "r")
	m = run(t, m, cmd)
	if ctl.resets != 1 || m.view.State.Phase != mission.Planning || m.view.PlayCount != 1 {
		t.Fatalf("resets=%d phase=%s", ctl.resets, m.view.State.Phase)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTUIModel(newFakeController(t), theme.Aircraft)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected QuitMsg")
	}
}
