// Package console is a line-oriented front end for terminals where the
// full-screen TUI is unavailable.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/muesli/reflow/wordwrap"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/theme"
)

const wrapWidth = 72

// ErrQuit is returned by Execute when the player asks to leave.
var ErrQuit = errors.New("quit")

// Controller is the subset of sim.Runner the console drives.
type Controller interface {
	Snapshot() sim.View
	Do(ctx context.Context, fn func(*mission.Machine)) error
	Choose(ctx context.Context, choiceID string) (mission.Result, error)
	Reset(ctx context.Context) error
}

type handler func(ctx context.Context, args []string) (string, error)

type command struct {
	usage string
	run   handler
}

// Console reads commands from a readline prompt and prints machine events
// above it.
type Console struct {
	ctl      Controller
	theme    theme.Theme
	catalog  *scenario.Catalog
	commands map[string]command
	matcher  *Matcher
	now      func() time.Time

	mu  sync.Mutex
	out io.Writer
}

// New creates a Console writing to out until Run attaches a prompt.
func New(ctl Controller, th theme.Theme, cat *scenario.Catalog, out io.Writer) *Console {
	c := &Console{ctl: ctl, theme: th, catalog: cat, out: out, now: time.Now}
	c.commands = map[string]command{
		"help":       {"help", c.help},
		"status":     {"status", c.status},
		"routes":     {"routes", c.routes},
		"plan":       {"plan <route>", c.plan},
		"difficulty": {"difficulty <easy|normal|hard>", c.difficulty},
		"toggle":     {"toggle <1-8|item>", c.toggle},
		"launch":     {"launch", c.launch},
		"choose":     {"choose <1-3|choice id>", c.choose},
		"reset":      {"reset", c.reset},
		"quit":       {"quit", c.quit},
	}
	surface := th.ControlSurfaceCommand()
	c.commands[surface] = command{surface + " <degrees>", c.controlSurface}
	names := make([]string, 0, len(c.commands))
	for n := range c.commands {
		names = append(names, n)
	}
	c.matcher = NewMatcher(names...)
	return c
}

// Execute runs one input line and returns the text to show.
func (c *Console) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	name, err := c.matcher.Resolve(fields[0])
	if err != nil {
		return "", err
	}
	return c.commands[name].run(ctx, fields[1:])
}

// Run prompts until the player quits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	items := make([]readline.PrefixCompleterInterface, 0, len(c.commands))
	for _, n := range c.matcher.names {
		items = append(items, readline.PcItem(n))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mission> ",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("open prompt: %w", err)
	}
	defer rl.Close()

	c.mu.Lock()
	c.out = rl
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	log.Info("starting console", "theme", c.theme.ID)
	c.println(c.banner())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		out, err := c.Execute(ctx, line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			c.println("error: " + err.Error())
		case out != "":
			c.println(out)
		}
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *Console) banner() string {
	return fmt.Sprintf("%s %s simulator. Type help for commands.", strings.ToUpper(c.theme.Vehicle[:1])+c.theme.Vehicle[1:], c.theme.Mission)
}

func (c *Console) help(context.Context, []string) (string, error) {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, n := range c.matcher.names {
		fmt.Fprintf(&b, "  %s\n", c.commands[n].usage)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (c *Console) status(context.Context, []string) (string, error) {
	v := c.ctl.Snapshot()
	s := v.State
	var b strings.Builder
	route := s.Route
	if route == "" {
		route = "-"
	}
	fmt.Fprintf(&b, "phase %s | route %s | %s | progress %.0f%%\n", s.Phase, route, v.Settings.Name, s.Progress)
	fmt.Fprintf(&b, "%s %.1f%% | safety %.1f | accuracy %.1f | risk %s | resolved %d/%d",
		c.theme.ResourceName, s.Resource, s.SafetyScore, s.DecisionAccuracy, s.Risk, s.EmergenciesResolved, mission.Emergencies)
	switch {
	case s.Phase == mission.Readiness:
		b.WriteString("\n" + c.renderChecklist(v.Checklist))
	case s.Phase.IsEmergency() && v.Active != nil:
		remaining := max(v.Active.Deadline().Sub(c.now()), 0)
		b.WriteString("\n" + renderScenario(v.Active.Definition, remaining))
	case s.Outcome != nil:
		b.WriteString("\n" + s.Outcome.Reason)
	}
	return b.String(), nil
}

func (c *Console) renderChecklist(cl mission.Checklist) string {
	var b strings.Builder
	for i, k := range theme.ChecklistKeys() {
		mark := " "
		if cl.Done(k) {
			mark = "x"
		}
		label := c.theme.Checklist[k]
		if k == theme.ItemControlSurface {
			label = fmt.Sprintf("%s (%.0f°)", label, cl.ControlSurfaceDeg)
		}
		fmt.Fprintf(&b, "%d [%s] %s\n", i+1, mark, label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderScenario(d scenario.Definition, remaining time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EMERGENCY %s (%.0fs left)\n%s", d.Title, remaining.Seconds(), wordwrap.String(d.Description, wrapWidth))
	for i, ch := range d.Choices {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, ch.Label)
	}
	return b.String()
}

func (c *Console) routes(context.Context, []string) (string, error) {
	var b strings.Builder
	for _, r := range c.theme.Routes {
		fmt.Fprintf(&b, "%-8s %s -> %s, %.0f nm, %d min, needs %.0f%% %s\n",
			r.Code(), r.Departure.Name, r.Destination.Name, r.DistanceNM, r.EstimatedMinutes, r.ResourceRequired, c.theme.ResourceName)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (c *Console) plan(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: plan <route>")
	}
	p := mission.CompletePlan(strings.ToUpper(args[0]))
	if err := p.Check(c.theme); err != nil {
		return "", err
	}
	var ok bool
	if err := c.ctl.Do(ctx, func(m *mission.Machine) { ok = m.SubmitPlan(p) }); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("plans can only be filed during planning")
	}
	return "plan filed for " + p.RouteCode + ", complete the readiness checklist", nil
}

func (c *Console) difficulty(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: difficulty <easy|normal|hard>")
	}
	d, err := config.ParseDifficulty(args[0])
	if err != nil {
		return "", err
	}
	var (
		ok   bool
		name string
	)
	if err := c.ctl.Do(ctx, func(m *mission.Machine) {
		ok = m.SetDifficulty(d)
		name = m.Settings().Name
	}); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("difficulty can only change during planning")
	}
	return "difficulty set to " + name, nil
}

func (c *Console) toggle(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: toggle <1-8|item>")
	}
	key, err := parseItem(args[0])
	if err != nil {
		return "", err
	}
	var (
		ok bool
		cl mission.Checklist
	)
	if err := c.ctl.Do(ctx, func(m *mission.Machine) {
		ok = m.ToggleReadinessItem(key)
		cl = m.Checklist()
	}); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("the checklist is only open during readiness")
	}
	return c.renderChecklist(cl), nil
}

func parseItem(s string) (theme.ChecklistKey, error) {
	keys := theme.ChecklistKeys()
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(keys) {
			return "", fmt.Errorf("item %d out of range", n)
		}
		return keys[n-1], nil
	}
	for _, k := range keys {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown checklist item %q", s)
}

func (c *Console) controlSurface(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s <degrees>", c.theme.ControlSurfaceCommand())
	}
	deg, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "°"), 64)
	if err != nil {
		return "", fmt.Errorf("bad angle %q", args[0])
	}
	var (
		ok bool
		cl mission.Checklist
	)
	if err := c.ctl.Do(ctx, func(m *mission.Machine) {
		ok = m.SetControlSurface(deg)
		cl = m.Checklist()
	}); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("the checklist is only open during readiness")
	}
	return fmt.Sprintf("%s set to %.0f°", c.theme.ControlSurface, cl.ControlSurfaceDeg), nil
}

func (c *Console) launch(ctx context.Context, _ []string) (string, error) {
	var ok bool
	if err := c.ctl.Do(ctx, func(m *mission.Machine) { ok = m.BeginCruise() }); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("checklist incomplete")
	}
	return "launched, good luck", nil
}

func (c *Console) choose(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: choose <1-3|choice id>")
	}
	act := c.ctl.Snapshot().Active
	if act == nil {
		return "", errors.New("no emergency in progress")
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		if n < 1 || n > len(act.Definition.Choices) {
			return "", fmt.Errorf("choice %d out of range", n)
		}
		id = act.Definition.Choices[n-1].ID
	}
	res, err := c.ctl.Choose(ctx, id)
	if err != nil {
		return "", err
	}
	if !res.Accepted {
		return "too late, the decision was already made", nil
	}
	verdict := "WRONG"
	if res.Correct {
		verdict = "CORRECT"
	}
	return verdict + ": " + res.Consequence, nil
}

func (c *Console) reset(ctx context.Context, _ []string) (string, error) {
	if err := c.ctl.Reset(ctx); err != nil {
		return "", err
	}
	return "new run started, file a plan", nil
}

func (c *Console) quit(context.Context, []string) (string, error) {
	return "", ErrQuit
}

// WriteEvent implements sim.EventWriter. It runs on the runner goroutine and
// must not call back into the controller.
func (c *Console) WriteEvent(e telemetry.EventRow) error {
	switch mission.EventType(e.EventType) {
	case mission.EventPhaseChanged:
		c.println(fmt.Sprintf("-- %s -> %s", e.From, e.Phase))
	case mission.EventScenarioPresented:
		if d, ok := c.catalog.Lookup(e.ScenarioID); ok {
			c.println(renderScenario(d, time.Duration(c.ctl.Snapshot().Settings.TimerSeconds)*time.Second))
		} else {
			c.println("EMERGENCY " + e.ScenarioID)
		}
	case mission.EventChoiceResolved:
		if e.TimedOut {
			c.println("TIMEOUT: " + e.Consequence)
		}
	case mission.EventOutcome:
		c.println("== " + e.Outcome + ". Type reset to fly again.")
	case mission.EventAdvisory:
		c.println(fmt.Sprintf("co-pilot (%s): %s", e.Level, e.Message))
	}
	return nil
}

// WriteState implements sim.StateWriter. Gauges are shown on demand by status.
func (c *Console) WriteState(telemetry.StateRow) error { return nil }
