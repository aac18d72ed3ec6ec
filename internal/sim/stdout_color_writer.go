// ColorStdoutWriter prints human-friendly, colorized mission events to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints events using ANSI colors. State rows are folded
// into a compact gauge line on phase changes only.
type ColorStdoutWriter struct {
	theme      theme.Theme
	difficulty config.DifficultySettings
	out        io.Writer
	once       sync.Once
	lastPhase  string
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(th theme.Theme, d config.DifficultySettings) *ColorStdoutWriter {
	return &ColorStdoutWriter{theme: th, difficulty: d, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	fmt.Fprintf(w.out, "%s mission, %s (%s)\n", w.theme.Vehicle, w.difficulty.Name, w.difficulty.Description)
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Decision Window:\t%s\n", w.difficulty.DecisionWindow())
	fmt.Fprintf(tw, "Scenarios:\t%d\n", w.difficulty.ScenarioCount)
	fmt.Fprintf(tw, "%s Burn Rate:\t%.1f\n", w.theme.ResourceName, w.difficulty.ResourceBurnRate)
	fmt.Fprintf(tw, "Penalty Multiplier:\t%.1fx\n", w.difficulty.PenaltyMultiplier)
	tw.Flush()

	fmt.Fprintln(w.out, "\nRoutes:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Code\tFrom\tTo\tDistance\n")
	for _, r := range w.theme.Routes {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%.0f nm\n", colorCyan, r.Code(), colorReset, r.Departure.Name, r.Destination.Name, r.DistanceNM)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func riskColor(risk string) string {
	switch mission.RiskLevel(risk) {
	case mission.RiskRed:
		return colorRed
	case mission.RiskYellow:
		return colorYellow
	}
	return colorGreen
}

// WriteState prints a gauge line whenever the phase changes.
func (w *ColorStdoutWriter) WriteState(row telemetry.StateRow) error {
	w.once.Do(w.printOverview)
	if row.Phase == w.lastPhase {
		return nil
	}
	w.lastPhase = row.Phase
	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sphase=%s%s ", colorBlue, row.Phase, colorReset)
	fmt.Fprintf(w.out, "progress=%.0f%% ", row.Progress)
	fmt.Fprintf(w.out, "%s%s=%.1f%s ", riskColor(row.Risk), w.theme.ResourceName, row.Resource, colorReset)
	fmt.Fprintf(w.out, "safety=%.1f accuracy=%.1f ", row.Safety, row.Accuracy)
	fmt.Fprintf(w.out, "%s%s=%.0f%s%s", colorMagenta, w.theme.Gauge.Name, row.Vertical, w.theme.Gauge.Unit, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteEvent prints scenario, decision and outcome events. Ticks and phase
// changes are covered by WriteState.
func (w *ColorStdoutWriter) WriteEvent(e telemetry.EventRow) error {
	w.once.Do(w.printOverview)
	ts := fmt.Sprintf("%s[%s]%s", colorGray, e.Timestamp.Format(time.RFC3339), colorReset)
	switch mission.EventType(e.EventType) {
	case mission.EventScenarioPresented:
		fmt.Fprintf(w.out, "%s %sEMERGENCY%s scenario=%s\n", ts, colorRed, colorReset, e.ScenarioID)
	case mission.EventChoiceResolved:
		verdict, col := "WRONG", colorRed
		switch {
		case e.TimedOut:
			verdict, col = "TIMEOUT", colorYellow
		case e.Correct:
			verdict, col = "CORRECT", colorGreen
		}
		fmt.Fprintf(w.out, "%s %s%s%s scenario=%s choice=%s %s%s%s\n",
			ts, col, verdict, colorReset, e.ScenarioID, e.ChoiceID, colorGray, e.Consequence, colorReset)
	case mission.EventOutcome:
		col := colorRed
		if e.Outcome == string(mission.CauseCompleted) {
			col = colorGreen
		}
		fmt.Fprintf(w.out, "%s %sOUTCOME%s %s\n", ts, col, colorReset, e.Outcome)
	case mission.EventRunReset:
		fmt.Fprintf(w.out, "%s %sRESET%s run=%s\n", ts, colorCyan, colorReset, e.RunID)
	case mission.EventAdvisory:
		col := colorCyan
		if e.Level == string(mission.AdvisoryWarning) {
			col = colorYellow
		}
		fmt.Fprintf(w.out, "%s %sCO-PILOT%s %s\n", ts, col, colorReset, e.Message)
	}
	return nil
}

// WriteEvents prints multiple events.
func (w *ColorStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}
