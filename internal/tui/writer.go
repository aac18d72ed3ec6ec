package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"missionops-sim/internal/mission"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// stateMsg carries the latest state row.
type stateMsg struct{ telemetry.StateRow }

// adminMsg reports admin UI status.
type adminMsg struct{ addr string }

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// TUIWriter renders mission rows in a bubbletea TUI and forwards key input
// to a Controller.
type TUIWriter struct {
	program teaProgram
	run     func() (tea.Model, error)
	ctx     context.Context
}

// NewTUIWriter prepares the bubbletea program. It starts on Run.
func NewTUIWriter(ctx context.Context, ctl Controller, th theme.Theme) *TUIWriter {
	m := newTUIModel(ctl, th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	return &TUIWriter{program: p, run: p.Run, ctx: ctx}
}

// Run blocks until the user quits or ctx is cancelled.
func (w *TUIWriter) Run() error {
	_, err := w.run()
	if errors.Is(err, tea.ErrProgramKilled) && w.ctx.Err() != nil {
		return nil
	}
	return err
}

// WriteEvent implements sim.EventWriter. Ticks are left to the gauges.
func (w *TUIWriter) WriteEvent(e telemetry.EventRow) error {
	if e.EventType == string(mission.EventTick) {
		return nil
	}
	ts := fmt.Sprintf("%s[%s]%s", colorGray, e.Timestamp.Local().Format(time.TimeOnly), colorReset)
	var line string
	switch mission.EventType(e.EventType) {
	case mission.EventPhaseChanged:
		line = fmt.Sprintf("%s %sPHASE%s %s -> %s", ts, colorCyan, colorReset, e.From, e.Phase)
	case mission.EventScenarioPresented:
		line = fmt.Sprintf("%s %sEMERGENCY%s %s", ts, colorRed, colorReset, e.ScenarioID)
	case mission.EventChoiceResolved:
		verdict, col := "WRONG", colorRed
		switch {
		case e.TimedOut:
			verdict, col = "TIMEOUT", colorYellow
		case e.Correct:
			verdict, col = "CORRECT", colorGreen
		}
		line = fmt.Sprintf("%s %s%s%s %s", ts, col, verdict, colorReset, e.Consequence)
	case mission.EventOutcome:
		line = fmt.Sprintf("%s %sOUTCOME%s %s", ts, colorCyan, colorReset, e.Outcome)
	case mission.EventRunReset:
		line = fmt.Sprintf("%s %sRESET%s new run %s", ts, colorCyan, colorReset, e.RunID)
	case mission.EventAdvisory:
		line = fmt.Sprintf("%s %sCO-PILOT%s %s", ts, advisoryColor(e.Level), colorReset, e.Message)
	default:
		line = fmt.Sprintf("%s %s", ts, e.EventType)
	}
	w.program.Send(logMsg{line: line})
	return nil
}

func advisoryColor(level string) string {
	switch mission.AdvisoryLevel(level) {
	case mission.AdvisoryWarning:
		return colorYellow
	case mission.AdvisorySuccess:
		return colorGreen
	}
	return colorCyan
}

// WriteState implements sim.StateWriter.
func (w *TUIWriter) WriteState(row telemetry.StateRow) error {
	w.program.Send(stateMsg{StateRow: row})
	return nil
}

// SetAdminStatus shows the admin listen address in the footer. An empty
// address hides it.
func (w *TUIWriter) SetAdminStatus(addr string) {
	w.program.Send(adminMsg{addr: addr})
}
