package mission

import "time"

// EventType names what a machine event reports.
type EventType string

const (
	EventPhaseChanged      EventType = "phase_changed"
	EventScenarioPresented EventType = "scenario_presented"
	EventChoiceResolved    EventType = "choice_resolved"
	EventTick              EventType = "tick"
	EventRunReset          EventType = "run_reset"
	EventOutcome           EventType = "outcome"
	EventAdvisory          EventType = "advisory"
)

// Event is emitted by the Machine after every state change.
type Event struct {
	Type        EventType `json:"type"`
	At          time.Time `json:"at"`
	From        Phase     `json:"from"`
	Phase       Phase     `json:"phase"`
	ScenarioID  string    `json:"scenario_id,omitempty"`
	ChoiceID    string    `json:"choice_id,omitempty"`
	Correct     bool      `json:"correct,omitempty"`
	TimedOut    bool      `json:"timed_out,omitempty"`
	Consequence string    `json:"consequence,omitempty"`
	Advisory    *Advisory `json:"advisory,omitempty"`
	State       RunState  `json:"state"`
}

// Observer receives machine events synchronously on the owning goroutine.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent calls f(ev).
func (f ObserverFunc) OnEvent(ev Event) { f(ev) }
