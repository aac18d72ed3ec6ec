package debrief

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/theme"
)

func TestRating(t *testing.T) {
	cases := []struct {
		safety, accuracy float64
		want             string
	}{
		{100, 100, "Excellent"},
		{90, 90, "Excellent"},
		{100, 79, "Good"},
		{70, 70, "Good"},
		{60, 40, "Fair"},
		{50, 49, "Needs Improvement"},
		{0, 0, "Needs Improvement"},
	}
	for _, c := range cases {
		if got := Rating(c.safety, c.accuracy); got != c.want {
			t.Fatalf("Rating(%v, %v) = %q, want %q", c.safety, c.accuracy, got, c.want)
		}
	}
}

func finishedState() mission.RunState {
	st := mission.NewRunState("run-1", "submarine", config.Normal)
	st.Route = "SD-PH"
	st.Phase = mission.Terminal
	st.Progress = 45
	st.Resource = 61.5
	st.SafetyScore = 70
	st.DecisionAccuracy = 60
	st.WrongAnswerCount = 2
	st.EmergenciesResolved = 2
	st.History = []mission.Decision{
		{ScenarioID: "hullbreach", Title: "Hull Breach", ChoiceID: "a", Correct: false, Consequence: "Water spreads."},
		{ScenarioID: "hullbreach-critical", Title: "Critical Hull Breach", Escalated: true, TimedOut: true, Consequence: "Too slow."},
	}
	st.Outcome = &mission.Outcome{Cause: mission.CauseMultipleErrors, Reason: theme.Submarine.Failure.MultipleErrors}
	return st
}

func TestBuildAndMarkdown(t *testing.T) {
	r := Build(finishedState(), theme.Submarine, config.DifficultySettings{Name: "Junior Pilot"})
	if r.Success || r.Cause != mission.CauseMultipleErrors || r.Rating != "Fair" {
		t.Fatalf("unexpected report %+v", r)
	}
	md, err := Markdown(r)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{
		"# Dive debrief: MISSION INCOMPLETE",
		theme.Submarine.Failure.MultipleErrors,
		"| Submarine route | SD-PH |",
		"| Energy remaining | 61.5% |",
		"**Performance rating: Fair**",
		"1. **Hull Breach**: wrong. Water spreads.",
		"2. **Critical Hull Breach** _(escalated)_: timed out. Too slow.",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

func TestMarkdownConcurrent(t *testing.T) {
	r := Build(finishedState(), theme.Submarine, config.DifficultySettings{Name: "Junior Pilot"})
	want, err := Markdown(r)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Markdown(r)
			if err != nil {
				errs <- err.Error()
				return
			}
			if got != want {
				errs <- "concurrent render differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestBuildUnfinished(t *testing.T) {
	st := mission.NewRunState("run-2", "aircraft", config.Easy)
	r := Build(st, theme.Aircraft, config.DifficultySettings{Name: "Trainee"})
	if r.Success || r.Rating != "Excellent" || !strings.Contains(r.Reason, "abandoned before the flight") {
		t.Fatalf("unexpected report %+v", r)
	}
	md, err := Markdown(r)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(md, "none filed") || strings.Contains(md, "## Decisions") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestRender(t *testing.T) {
	md, err := Markdown(Build(finishedState(), theme.Submarine, config.DifficultySettings{Name: "Junior Pilot"}))
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	out, err := Render(md, "notty", 80)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "MISSION INCOMPLETE") || !strings.Contains(out, "Hull Breach") {
		t.Fatalf("render output:\n%s", out)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debriefs")
	path, err := Save(dir, Build(finishedState(), theme.Submarine, config.DifficultySettings{Name: "Junior Pilot"}))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "debrief-run-1.md" {
		t.Fatalf("path = %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Dive debrief") {
		t.Fatalf("content:\n%s", b)
	}
}

func TestSummarize(t *testing.T) {
	reports := []Report{
		{Success: true, Cause: mission.CauseCompleted, Safety: 100, Accuracy: 100},
		{Cause: mission.CauseMultipleErrors, Safety: 70, Accuracy: 60},
		{Cause: mission.CauseMultipleErrors, Safety: 40, Accuracy: 20},
		{Cause: mission.CauseResourceExhausted, Safety: 90, Accuracy: 80},
	}
	s := Summarize("random", reports)
	if s.Runs != 4 || s.Successes != 1 || s.SuccessRate != 25 || s.MeanSafety != 75 || s.MeanAccuracy != 65 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if len(s.Causes) != 3 || s.Causes[0].Cause != mission.CauseMultipleErrors || s.Causes[0].Count != 2 || s.Causes[1].Cause != mission.CauseCompleted {
		t.Fatalf("causes = %+v", s.Causes)
	}
	md, err := SummaryMarkdown(s)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{"# Autopilot summary: random", "| 4 | 1 | 25.0% | 75.0 | 65.0 |", "- multiple_errors: 2"} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
	if empty := Summarize("correct", nil); empty.Runs != 0 || empty.Causes != nil {
		t.Fatalf("empty summary %+v", empty)
	}
}
