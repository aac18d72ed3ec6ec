package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

// Controller is the subset of sim.Runner the TUI drives.
type Controller interface {
	Snapshot() sim.View
	Do(ctx context.Context, fn func(*mission.Machine)) error
	Choose(ctx context.Context, choiceID string) (mission.Result, error)
	Reset(ctx context.Context) error
}

// refreshMsg polls the controller for a fresh view.
type refreshMsg time.Time

// noticeMsg reports the result of a player action.
type noticeMsg struct {
	text string
	err  bool
}

const (
	refreshInterval = 100 * time.Millisecond
	maxLogLines     = 500
	planesStep      = 5.0
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	alertStyle  = panelStyle.BorderForeground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	selectStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
)

type tuiModel struct {
	ctl        Controller
	theme      theme.Theme
	view       sim.View
	state      telemetry.StateRow
	table      table.Model
	bar        progress.Model
	vp         viewport.Model
	logs       []string
	wrap       bool
	autoscroll bool
	help       bool
	width      int
	height     int
	routeIdx   int
	notice     string
	noticeErr  bool
	admin      string
	now        func() time.Time
}

func newTUIModel(ctl Controller, th theme.Theme) tuiModel {
	cols := []table.Column{
		{Title: "Gauge", Width: 12},
		{Title: "Value", Width: 12},
		{Title: "Gauge", Width: 12},
		{Title: "Value", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(5))
	m := tuiModel{
		ctl:        ctl,
		theme:      th,
		table:      t,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		vp:         viewport.New(0, 0),
		autoscroll: true,
		now:        time.Now,
	}
	if ctl != nil {
		m.view = ctl.Snapshot()
	}
	m.table.SetRows(m.gaugeRows())
	return m
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m tuiModel) Init() tea.Cmd { return refresh() }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		m.updateViewportHeight()
		m.refreshViewport()
	case refreshMsg:
		if m.ctl != nil {
			m.view = m.ctl.Snapshot()
			m.table.SetRows(m.gaugeRows())
		}
		m.updateViewportHeight()
		return m, refresh()
	case stateMsg:
		m.state = msg.StateRow
		m.table.SetRows(m.gaugeRows())
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case noticeMsg:
		m.notice = msg.text
		m.noticeErr = msg.err
		if m.ctl != nil {
			m.view = m.ctl.Snapshot()
			m.table.SetRows(m.gaugeRows())
		}
	case adminMsg:
		m.admin = msg.addr
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.help {
		switch key {
		case "?", "esc":
			m.help = false
		}
		return m, nil
	}
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.help = true
		return m, nil
	case "w":
		m.wrap = !m.wrap
		m.refreshViewport()
		return m, nil
	case "s":
		m.autoscroll = !m.autoscroll
		if m.autoscroll {
			m.vp.GotoBottom()
		}
		return m, nil
	case "r":
		return m, m.reset()
	}

	switch phase := m.view.State.Phase; {
	case phase == mission.Planning:
		if cmd, ok := m.planningKey(key); ok {
			return m, cmd
		}
		switch key {
		case "left":
			m.routeIdx = (m.routeIdx + len(m.theme.Routes) - 1) % len(m.theme.Routes)
			return m, nil
		case "right", "tab":
			m.routeIdx = (m.routeIdx + 1) % len(m.theme.Routes)
			return m, nil
		}
	case phase == mission.Readiness:
		if cmd := m.readinessKey(key); cmd != nil {
			return m, cmd
		}
	case phase.IsEmergency():
		if cmd := m.choiceKey(key); cmd != nil {
			return m, cmd
		}
	}

	if !m.autoscroll {
		switch key {
		case "j", "down":
			m.vp.LineDown(1)
		case "k", "up":
			m.vp.LineUp(1)
		case "pgdown":
			m.vp.LineDown(10)
		case "pgup":
			m.vp.LineUp(10)
		}
	}
	return m, nil
}

func (m tuiModel) planningKey(key string) (tea.Cmd, bool) {
	switch key {
	case "d":
		next := nextDifficulty(m.view.State.Difficulty)
		return m.act(func(mm *mission.Machine) string {
			if mm.SetDifficulty(next) {
				return "difficulty set to " + mm.Settings().Name
			}
			return ""
		}), true
	case "enter":
		if len(m.theme.Routes) == 0 {
			return nil, false
		}
		route := m.theme.Routes[m.routeIdx].Code()
		return m.act(func(mm *mission.Machine) string {
			if mm.SubmitPlan(mission.CompletePlan(route)) {
				return "plan filed for " + route
			}
			return "plan rejected"
		}), true
	}
	return nil, false
}

func (m tuiModel) readinessKey(key string) tea.Cmd {
	keys := theme.ChecklistKeys()
	if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(keys) {
		item := keys[key[0]-'1']
		return m.act(func(mm *mission.Machine) string {
			mm.ToggleReadinessItem(item)
			return ""
		})
	}
	switch key {
	case "+", "=":
		return m.act(func(mm *mission.Machine) string {
			mm.SetControlSurface(mm.Checklist().ControlSurfaceDeg + planesStep)
			return ""
		})
	case "-":
		return m.act(func(mm *mission.Machine) string {
			mm.SetControlSurface(mm.Checklist().ControlSurfaceDeg - planesStep)
			return ""
		})
	case "enter", "l":
		return m.act(func(mm *mission.Machine) string {
			if mm.BeginCruise() {
				return "launched"
			}
			return "checklist incomplete"
		})
	}
	return nil
}

func (m tuiModel) choiceKey(key string) tea.Cmd {
	act := m.view.Active
	if act == nil || len(key) != 1 || key[0] < '1' {
		return nil
	}
	idx := int(key[0] - '1')
	if idx >= len(act.Definition.Choices) {
		return nil
	}
	id := act.Definition.Choices[idx].ID
	ctl := m.ctl
	return func() tea.Msg {
		res, err := ctl.Choose(context.Background(), id)
		if err != nil {
			return noticeMsg{text: err.Error(), err: true}
		}
		if !res.Accepted {
			return noticeMsg{text: "too late, the decision was already made"}
		}
		return noticeMsg{text: res.Consequence, err: !res.Correct}
	}
}

func (m tuiModel) reset() tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		if err := ctl.Reset(context.Background()); err != nil {
			return noticeMsg{text: err.Error(), err: true}
		}
		return noticeMsg{text: "new run started"}
	}
}

func (m tuiModel) act(fn func(*mission.Machine) string) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		var note string
		if err := ctl.Do(context.Background(), func(mm *mission.Machine) { note = fn(mm) }); err != nil {
			return noticeMsg{text: err.Error(), err: true}
		}
		return noticeMsg{text: note}
	}
}

func nextDifficulty(d config.Difficulty) config.Difficulty {
	levels := config.Levels()
	for i, l := range levels {
		if l == d {
			return levels[(i+1)%len(levels)]
		}
	}
	return config.Normal
}

func (m *tuiModel) updateViewportHeight() {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderPanel()) + lipgloss.Height(m.renderBottom()) + 4
	m.vp.Height = max(m.height-used, 0)
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) gaugeRows() []table.Row {
	s := m.view.State
	return []table.Row{
		{m.theme.ResourceName, fmt.Sprintf("%.1f%%", s.Resource), "safety", fmt.Sprintf("%.1f", s.SafetyScore)},
		{"accuracy", fmt.Sprintf("%.1f", s.DecisionAccuracy), "risk", string(s.Risk)},
		{m.theme.Gauge.Name, fmt.Sprintf("%.0f %s", m.state.Vertical, m.theme.Gauge.Unit), "speed", fmt.Sprintf("%.0f kn", m.state.Speed)},
		{"phase", s.Phase.String(), "resolved", fmt.Sprintf("%d/%d", s.EmergenciesResolved, mission.Emergencies)},
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", max(m.width, 10))
	return strings.Join([]string{
		m.renderHeader(),
		m.table.View(),
		"Progress " + m.bar.ViewAs(m.view.State.Progress/100),
		m.renderPanel(),
		divider,
		m.vp.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}

func (m tuiModel) renderHeader() string {
	s := m.view.State
	route := s.Route
	if route == "" {
		route = "-"
	}
	return titleStyle.Render(fmt.Sprintf("MISSIONOPS  %s %s", m.theme.Vehicle, m.theme.Mission)) +
		dimStyle.Render(fmt.Sprintf("  %s | route %s | play #%d", m.view.Settings.Name, route, m.view.PlayCount+1))
}

func (m tuiModel) renderPanel() string {
	s := m.view.State
	switch {
	case s.Phase == mission.Planning:
		return panelStyle.Render(m.renderPlanning())
	case s.Phase == mission.Readiness:
		return panelStyle.Render(m.renderChecklist())
	case s.Phase.IsEmergency() && m.view.Active != nil:
		return alertStyle.Render(m.renderScenario(*m.view.Active))
	case s.Phase.Absorbing() && s.Outcome != nil:
		style := okStyle
		if !s.Outcome.Success {
			style = errorStyle
		}
		return panelStyle.Render(style.Render(s.Outcome.Reason) + "\n" + dimStyle.Render("press r to fly again"))
	}
	return panelStyle.Render(fmt.Sprintf("Cruising, next checkpoint at %d%%", nextCheckpoint(s.Progress)))
}

func nextCheckpoint(progress float64) int {
	for n := 1; n <= mission.Emergencies; n++ {
		if float64(20*n) > progress {
			return 20 * n
		}
	}
	return 100
}

func (m tuiModel) renderPlanning() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan your %s (%s)\n", m.theme.Mission, m.view.Settings.Description)
	for i, r := range m.theme.Routes {
		line := fmt.Sprintf("  %s  %s -> %s  %.0f nm, %d min", r.Code(), r.Departure.Name, r.Destination.Name, r.DistanceNM, r.EstimatedMinutes)
		if i == m.routeIdx {
			line = selectStyle.Render(">" + line[1:])
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(dimStyle.Render("←/→ route  d difficulty  enter file plan"))
	return b.String()
}

func (m tuiModel) renderChecklist() string {
	var b strings.Builder
	c := m.view.Checklist
	for i, k := range theme.ChecklistKeys() {
		mark := " "
		if c.Done(k) {
			mark = "x"
		}
		label := m.theme.Checklist[k]
		if k == theme.ItemControlSurface {
			label = fmt.Sprintf("%s (%.0f°)", label, c.ControlSurfaceDeg)
		}
		fmt.Fprintf(&b, "%d [%s] %s\n", i+1, mark, label)
	}
	for _, a := range m.view.Advisories {
		style := dimStyle
		if a.Level == mission.AdvisoryWarning {
			style = selectStyle
		}
		b.WriteString(style.Render("co-pilot: "+a.Message) + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("1-8 toggle  +/- %s  enter launch", m.theme.ControlSurface)))
	return b.String()
}

func (m tuiModel) renderScenario(act mission.ActiveScenario) string {
	d := act.Definition
	width := max(m.width-6, 30)
	remaining := max(act.Deadline().Sub(m.now()), 0)
	var b strings.Builder
	title := d.Title
	if d.Urgency == scenario.UrgencyHigh {
		title = "!! " + title
	}
	fmt.Fprintf(&b, "%s  %s\n", errorStyle.Render(title), selectStyle.Render(fmt.Sprintf("%2.0fs", remaining.Seconds())))
	b.WriteString(wordwrap.String(d.Description, width) + "\n")
	for i, c := range d.Choices {
		fmt.Fprintf(&b, "%d. %s", i+1, c.Label)
		if c.Description != "" {
			b.WriteString(dimStyle.Render("  " + c.Description))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderBottom() string {
	hint := "q quit  ? help  r reset  w wrap  s scroll"
	if m.admin != "" {
		hint += "  " + okStyle.Render("admin "+m.admin)
	}
	if m.notice == "" {
		return dimStyle.Render(hint)
	}
	style := okStyle
	if m.noticeErr {
		style = errorStyle
	}
	return style.Render(m.notice) + "\n" + dimStyle.Render(hint)
}

func (m tuiModel) renderHelp() string {
	rows := []string{
		"Planning:   ←/→ choose route, d cycle difficulty, enter file plan",
		"Readiness:  1-8 toggle checklist items, +/- " + m.theme.ControlSurface + ", enter launch",
		"Emergency:  1-3 pick a response before the timer runs out",
		"Anytime:    r reset run, w wrap log, s toggle autoscroll, j/k scroll, q quit",
		"",
		"Press ? or esc to close.",
	}
	return panelStyle.Render(titleStyle.Render("Help") + "\n" + strings.Join(rows, "\n"))
}
