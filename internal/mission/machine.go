package mission

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"missionops-sim/internal/config"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/theme"
)

// ErrUnknownChoice is returned when a choice id is not part of the active scenario.
var ErrUnknownChoice = errors.New("unknown choice")

// Result describes how an emergency was resolved. A nil Outcome on an
// accepted resolution is the signal to continue cruising.
type Result struct {
	Accepted    bool     `json:"accepted"`
	ScenarioID  string   `json:"scenario_id,omitempty"`
	ChoiceID    string   `json:"choice_id,omitempty"`
	Correct     bool     `json:"correct"`
	TimedOut    bool     `json:"timed_out"`
	Consequence string   `json:"consequence,omitempty"`
	Outcome     *Outcome `json:"outcome,omitempty"`
}

// Continue reports whether the run carries on after this resolution.
func (r Result) Continue() bool { return r.Accepted && r.Outcome == nil }

// ActiveScenario is the scenario presented in the current emergency phase.
type ActiveScenario struct {
	Definition  scenario.Definition `json:"definition"`
	Instance    uint64              `json:"instance"`
	PresentedAt time.Time           `json:"presented_at"`
	Window      time.Duration       `json:"window"`
}

// Deadline is when the decision timer expires.
func (a ActiveScenario) Deadline() time.Time { return a.PresentedAt.Add(a.Window) }

// Options configures a Machine.
type Options struct {
	Theme        theme.Theme
	Difficulty   config.Difficulty
	Selector     *scenario.Selector
	Scheduler    Scheduler
	TickInterval time.Duration
	PlayCount    int
	Observer     Observer
	Logger       *slog.Logger
	Now          func() time.Time
	NewRunID     func() string
}

// Machine is the mission state machine. It is not safe for concurrent use:
// one goroutine owns it and the Scheduler delivers callbacks to that goroutine.
type Machine struct {
	theme     theme.Theme
	settings  config.DifficultySettings
	sel       *scenario.Selector
	sched     Scheduler
	tick      time.Duration
	observer  Observer
	log       *slog.Logger
	now       func() time.Time
	newRunID  func() string
	playCount int

	state      RunState
	checklist  Checklist
	active     *ActiveScenario
	instance   uint64
	ticker     Timer
	decision   Timer
	advised    map[string]bool
	advisories []Advisory
}

// NewMachine creates a machine in the Planning phase.
func NewMachine(opts Options) (*Machine, error) {
	settings, err := config.Settings(opts.Difficulty)
	if err != nil {
		return nil, err
	}
	if opts.Selector == nil {
		return nil, errors.New("mission: selector required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("mission: scheduler required")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = config.DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	m := &Machine{
		theme:     opts.Theme,
		settings:  settings,
		sel:       opts.Selector,
		sched:     opts.Scheduler,
		tick:      opts.TickInterval,
		observer:  opts.Observer,
		log:       opts.Logger,
		now:       opts.Now,
		newRunID:  opts.NewRunID,
		playCount: opts.PlayCount,
	}
	m.state = NewRunState(m.newRunID(), m.theme.ID, opts.Difficulty)
	m.checklist = NewChecklist()
	m.advised = map[string]bool{}
	return m, nil
}

// State returns a snapshot of the run state.
func (m *Machine) State() RunState { return m.state.Clone() }

// Checklist returns the readiness checklist.
func (m *Machine) Checklist() Checklist { return m.checklist }

// RecentAdvisories returns the latest co-pilot advisories of the run, oldest
// first.
func (m *Machine) RecentAdvisories() []Advisory { return slices.Clone(m.advisories) }

// Active returns the scenario awaiting a decision, if any.
func (m *Machine) Active() (ActiveScenario, bool) {
	if m.active == nil {
		return ActiveScenario{}, false
	}
	return *m.active, true
}

// Settings returns the difficulty constants of the current run.
func (m *Machine) Settings() config.DifficultySettings { return m.settings }

// Theme returns the vehicle theme.
func (m *Machine) Theme() theme.Theme { return m.theme }

// PlayCount is the number of completed resets this session.
func (m *Machine) PlayCount() int { return m.playCount }

// SetObserver replaces the event observer.
func (m *Machine) SetObserver(o Observer) { m.observer = o }

// SetDifficulty changes the difficulty while still planning.
func (m *Machine) SetDifficulty(d config.Difficulty) bool {
	if m.state.Phase != Planning {
		return false
	}
	s, err := config.Settings(d)
	if err != nil {
		return false
	}
	m.settings = s
	m.state.Difficulty = d
	return true
}

// StartPlanning discards the current run and opens a fresh one in Planning.
func (m *Machine) StartPlanning() {
	from := m.state.Phase
	m.stopTimers()
	m.active = nil
	m.state = NewRunState(m.newRunID(), m.theme.ID, m.state.Difficulty)
	m.checklist = NewChecklist()
	m.advised = map[string]bool{}
	m.advisories = nil
	m.log.Debug("planning started", "run_id", m.state.RunID, "play_count", m.playCount)
	m.emit(Event{Type: EventPhaseChanged, From: from})
}

// SubmitPlan moves Planning to Readiness when the plan is valid.
func (m *Machine) SubmitPlan(p Plan) bool {
	if m.state.Phase != Planning {
		return false
	}
	if err := p.Check(m.theme); err != nil {
		m.log.Debug("plan rejected", "run_id", m.state.RunID, "err", err)
		return false
	}
	m.state.Route = p.RouteCode
	m.transition(Readiness)
	return true
}

// ToggleReadinessItem flips one checklist item during Readiness.
func (m *Machine) ToggleReadinessItem(key theme.ChecklistKey) bool {
	if m.state.Phase != Readiness {
		return false
	}
	prev := m.checklist
	if !m.checklist.Toggle(key) {
		return false
	}
	m.advise(prev)
	return true
}

// SetControlSurface sets the diving planes or flaps angle during Readiness.
func (m *Machine) SetControlSurface(deg float64) bool {
	if m.state.Phase != Readiness {
		return false
	}
	prev := m.checklist
	m.checklist.ControlSurfaceDeg = min(max(deg, 0), 40)
	m.advise(prev)
	return true
}

// advise raises each advisory at most once per run.
func (m *Machine) advise(prev Checklist) {
	for _, a := range Advisories(prev, m.checklist, m.theme) {
		if m.advised[a.ID] {
			continue
		}
		m.advised[a.ID] = true
		m.advisories = append(m.advisories, a)
		if n := len(m.advisories); n > MaxAdvisories {
			m.advisories = m.advisories[n-MaxAdvisories:]
		}
		m.log.Debug("advisory", "run_id", m.state.RunID, "advisory", a.ID, "level", a.Level)
		m.emit(Event{Type: EventAdvisory, From: m.state.Phase, Advisory: &a})
	}
}

// BeginCruise leaves Readiness once the checklist is complete.
func (m *Machine) BeginCruise() bool {
	if m.state.Phase != Readiness || !m.checklist.Complete() {
		return false
	}
	m.transition(Cruise0)
	return true
}

// Tick applies one cruise step. It is armed as the cruise ticker and ignored
// outside cruise phases.
func (m *Machine) Tick() {
	if !m.state.Phase.IsCruise() {
		return
	}
	n := m.state.Phase.Segment()
	m.state = BurnResource(m.state, m.settings)
	m.emit(Event{Type: EventTick})

	if out := EvaluateTermination(m.state, false, m.theme.Failure); out != nil {
		m.finish(out)
		return
	}
	if n < Emergencies && m.state.Progress >= checkpoint(n+1) {
		m.enterEmergency(n + 1)
	}
}

// SubmitChoice resolves the active emergency with the given choice.
func (m *Machine) SubmitChoice(choiceID string) (Result, error) {
	if m.active == nil || !m.state.Phase.IsEmergency() {
		return Result{}, nil
	}
	ch, ok := m.active.Definition.Choice(choiceID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownChoice, choiceID)
	}
	return m.resolve(ch.ID, ch.Correct, false, ch.Consequence), nil
}

// OnTimerExpiry resolves the active emergency through the timeout path.
func (m *Machine) OnTimerExpiry() Result {
	if m.active == nil || !m.state.Phase.IsEmergency() {
		return Result{}
	}
	return m.resolve("", false, true, m.theme.Failure.TimeoutMessage)
}

// ResetRun counts the finished play and starts a new run in Planning.
func (m *Machine) ResetRun() {
	m.playCount++
	prev := m.state.RunID
	m.StartPlanning()
	m.log.Info("run reset", "previous_run_id", prev, "run_id", m.state.RunID, "play_count", m.playCount)
	m.emit(Event{Type: EventRunReset, From: Planning})
}

func (m *Machine) expire(instance uint64) {
	if m.active == nil || m.active.Instance != instance {
		return
	}
	m.OnTimerExpiry()
}

func (m *Machine) enterEmergency(n int) {
	def := m.nextScenario()
	if def == nil {
		m.log.Warn("no scenario available, skipping checkpoint", "run_id", m.state.RunID, "checkpoint", n)
		m.state.EmergenciesResolved++
		m.transition(cruisePhase(n))
		return
	}
	m.state.UsedScenarioIDs = append(m.state.UsedScenarioIDs, def.ID)
	m.transition(emergencyPhase(n))

	m.instance++
	inst := m.instance
	m.active = &ActiveScenario{
		Definition:  *def,
		Instance:    inst,
		PresentedAt: m.now(),
		Window:      m.settings.DecisionWindow(),
	}
	m.decision = m.sched.AfterFunc(m.active.Window, func() { m.expire(inst) })
	m.log.Debug("scenario presented", "run_id", m.state.RunID, "scenario_id", def.ID, "escalated", def.Escalated())
	m.emit(Event{Type: EventScenarioPresented, From: m.state.Phase, ScenarioID: def.ID})
}

// nextScenario tries an escalation for the last failure before a normal
// pick. A failure stays the escalation target across correct answers but
// earns a single escalation.
func (m *Machine) nextScenario() *scenario.Definition {
	s := m.state
	if s.LastFailedScenarioID != "" && !s.EscalationPending && s.EscalatedFor != s.LastFailedScenarioID {
		if d := m.sel.SelectEscalation(s.LastFailedScenarioID, s.UsedScenarioIDs); d != nil {
			m.state.EscalationPending = true
			m.state.EscalatedFor = s.LastFailedScenarioID
			return d
		}
	}
	sub := scenario.PhaseForProgress(s.Progress, m.theme.SubPhases)
	return m.sel.Select(sub, s.UsedScenarioIDs, m.playCount > 0)
}

func (m *Machine) resolve(choiceID string, correct, timedOut bool, consequence string) Result {
	if m.decision != nil {
		m.decision.Stop()
		m.decision = nil
	}
	act := *m.active
	m.active = nil
	n := m.state.Phase.Segment()

	s := m.state
	if timedOut {
		s = ApplyTimeout(s, m.settings)
	} else {
		s = ApplyChoiceOutcome(s, correct, m.settings)
	}
	if !correct {
		s.LastFailedScenarioID = act.Definition.ID
	}
	s.EscalationPending = false
	s.EmergenciesResolved++
	s.Progress = clamp(s.Progress + resolutionAdvance)
	s.History = append(s.History, Decision{
		ScenarioID:  act.Definition.ID,
		Title:       act.Definition.Title,
		ChoiceID:    choiceID,
		Correct:     correct,
		TimedOut:    timedOut,
		Escalated:   act.Definition.Escalated(),
		Consequence: consequence,
	})
	m.state = s

	res := Result{
		Accepted:    true,
		ScenarioID:  act.Definition.ID,
		ChoiceID:    choiceID,
		Correct:     correct,
		TimedOut:    timedOut,
		Consequence: consequence,
	}
	m.log.Debug("scenario resolved", "run_id", s.RunID, "scenario_id", act.Definition.ID,
		"choice_id", choiceID, "correct", correct, "timed_out", timedOut)
	m.emit(Event{
		Type:        EventChoiceResolved,
		From:        s.Phase,
		ScenarioID:  act.Definition.ID,
		ChoiceID:    choiceID,
		Correct:     correct,
		TimedOut:    timedOut,
		Consequence: consequence,
	})

	if out := EvaluateTermination(m.state, !correct, m.theme.Failure); out != nil {
		m.finish(out)
		res.Outcome = out
		return res
	}
	m.transition(cruisePhase(n))
	return res
}

func (m *Machine) finish(out *Outcome) {
	m.state.Outcome = out
	to := Terminal
	if out.Success {
		to = Resolution
	}
	m.transition(to)
	m.log.Info("run finished", "run_id", m.state.RunID, "success", out.Success, "cause", out.Cause)
	m.emit(Event{Type: EventOutcome, From: to})
}

// transition stops every timer of the phase being left before arming the
// ticker of the next one.
func (m *Machine) transition(to Phase) {
	from := m.state.Phase
	m.stopTimers()
	m.state.Phase = to
	if to.IsCruise() {
		m.ticker = m.sched.Every(m.tick, m.Tick)
	}
	m.log.Debug("phase changed", "run_id", m.state.RunID, "from", from, "to", to)
	m.emit(Event{Type: EventPhaseChanged, From: from})
}

func (m *Machine) stopTimers() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	if m.decision != nil {
		m.decision.Stop()
		m.decision = nil
	}
}

func (m *Machine) emit(ev Event) {
	if m.observer == nil {
		return
	}
	ev.At = m.now()
	ev.Phase = m.state.Phase
	ev.State = m.state.Clone()
	m.observer.OnEvent(ev)
}
