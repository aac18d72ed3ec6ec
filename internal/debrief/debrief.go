// Package debrief renders end-of-run reports as markdown for the terminal or
// for files.
package debrief

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/theme"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("debrief").Funcs(renderFuncs()).ParseFS(templateFS, "templates/*.md.tmpl"))

// renderFuncs returns fresh template helpers. A cases.Caser is stateful, so
// every render gets its own.
func renderFuncs() template.FuncMap {
	caser := cases.Title(language.English)
	printer := message.NewPrinter(language.English)
	return template.FuncMap{
		"title": caser.String,
		"num":   func(v float64) string { return printer.Sprintf("%.1f", v) },
		"inc":   func(i int) int { return i + 1 },
		"verdict": func(d mission.Decision) string {
			switch {
			case d.TimedOut:
				return "timed out"
			case d.Correct:
				return "correct"
			default:
				return "wrong"
			}
		},
	}
}

// Rating grades a run by the mean of safety and accuracy.
func Rating(safety, accuracy float64) string {
	avg := (safety + accuracy) / 2
	switch {
	case avg >= 90:
		return "Excellent"
	case avg >= 70:
		return "Good"
	case avg >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// Report is everything shown after a run ends.
type Report struct {
	RunID        string
	Vehicle      string
	Mission      string
	ResourceName string
	Difficulty   string
	Route        string
	Success      bool
	Cause        mission.Cause
	Reason       string
	Safety       float64
	Accuracy     float64
	Resource     float64
	Progress     float64
	Resolved     int
	Wrong        int
	Rating       string
	History      []mission.Decision
}

// Build assembles a report from a run state. Runs that have not ended are
// reported as incomplete.
func Build(st mission.RunState, th theme.Theme, s config.DifficultySettings) Report {
	r := Report{
		RunID:        st.RunID,
		Vehicle:      th.Vehicle,
		Mission:      th.Mission,
		ResourceName: th.ResourceName,
		Difficulty:   s.Name,
		Route:        st.Route,
		Reason:       "The run was abandoned before the " + th.Mission + " ended.",
		Safety:       st.SafetyScore,
		Accuracy:     st.DecisionAccuracy,
		Resource:     st.Resource,
		Progress:     st.Progress,
		Resolved:     st.EmergenciesResolved,
		Wrong:        st.WrongAnswerCount,
		Rating:       Rating(st.SafetyScore, st.DecisionAccuracy),
		History:      st.History,
	}
	if st.Outcome != nil {
		r.Success = st.Outcome.Success
		r.Cause = st.Outcome.Cause
		r.Reason = st.Outcome.Reason
	}
	return r
}

// Markdown renders r with the debrief template.
func Markdown(r Report) (string, error) {
	return execute("debrief.md.tmpl", r)
}

// Render formats markdown for a terminal. An empty style picks one from the
// terminal background; width 0 disables wrapping.
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// Save writes the markdown debrief of r to dir/debrief-<run id>.md.
func Save(dir string, r Report) (string, error) {
	md, err := Markdown(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("debrief-%s.md", r.RunID))
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// CauseCount is one row of the outcome breakdown.
type CauseCount struct {
	Cause mission.Cause
	Count int
}

// Summary aggregates several autopilot runs.
type Summary struct {
	Policy       string
	Runs         int
	Successes    int
	SuccessRate  float64
	MeanSafety   float64
	MeanAccuracy float64
	Causes       []CauseCount
}

// Summarize folds reports into a Summary. Causes are sorted by count, then name.
func Summarize(policy string, reports []Report) Summary {
	s := Summary{Policy: policy, Runs: len(reports)}
	if len(reports) == 0 {
		return s
	}
	counts := map[mission.Cause]int{}
	for _, r := range reports {
		if r.Success {
			s.Successes++
		}
		s.MeanSafety += r.Safety
		s.MeanAccuracy += r.Accuracy
		if r.Cause != "" {
			counts[r.Cause]++
		}
	}
	n := float64(len(reports))
	s.SuccessRate = float64(s.Successes) / n * 100
	s.MeanSafety /= n
	s.MeanAccuracy /= n
	for c, k := range counts {
		s.Causes = append(s.Causes, CauseCount{Cause: c, Count: k})
	}
	sort.Slice(s.Causes, func(i, j int) bool {
		if s.Causes[i].Count != s.Causes[j].Count {
			return s.Causes[i].Count > s.Causes[j].Count
		}
		return s.Causes[i].Cause < s.Causes[j].Cause
	})
	return s
}

// SummaryMarkdown renders s with the summary template.
func SummaryMarkdown(s Summary) (string, error) {
	return execute("summary.md.tmpl", s)
}

func execute(name string, data any) (string, error) {
	t, err := templates.Clone()
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Funcs(renderFuncs()).ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
