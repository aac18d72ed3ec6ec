package mission

import (
	"slices"

	"missionops-sim/internal/config"
)

// RiskLevel is the colour band shown next to the resource gauge.
type RiskLevel string

const (
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskRed    RiskLevel = "red"
)

// Cause classifies how a run ended.
type Cause string

const (
	CauseCompleted         Cause = "completed"
	CauseMultipleErrors    Cause = "multiple_errors"
	CauseResourceExhausted Cause = "resource_exhausted"
	CauseCriticalSafety    Cause = "critical_safety"
)

// Outcome is set exactly once when a run reaches Resolution or Terminal.
type Outcome struct {
	Success bool   `json:"success"`
	Cause   Cause  `json:"cause"`
	Reason  string `json:"reason"`
}

// Decision records how one presented scenario was resolved.
type Decision struct {
	ScenarioID  string `json:"scenario_id"`
	Title       string `json:"title"`
	ChoiceID    string `json:"choice_id,omitempty"`
	Correct     bool   `json:"correct"`
	TimedOut    bool   `json:"timed_out"`
	Escalated   bool   `json:"escalated"`
	Consequence string `json:"consequence"`
}

// RunState is the single mutable aggregate of a run.
type RunState struct {
	RunID                string            `json:"run_id"`
	Theme                string            `json:"theme"`
	Difficulty           config.Difficulty `json:"difficulty"`
	Phase                Phase             `json:"phase"`
	Route                string            `json:"route,omitempty"`
	Progress             float64           `json:"progress"`
	Resource             float64           `json:"resource"`
	SafetyScore          float64           `json:"safety_score"`
	DecisionAccuracy     float64           `json:"decision_accuracy"`
	WrongAnswerCount     int               `json:"wrong_answer_count"`
	EmergenciesResolved  int               `json:"emergencies_resolved"`
	UsedScenarioIDs      []string          `json:"used_scenario_ids"`
	LastFailedScenarioID string            `json:"last_failed_scenario_id,omitempty"`
	EscalationPending    bool              `json:"escalation_pending"`
	EscalatedFor         string            `json:"escalated_for,omitempty"`
	Risk                 RiskLevel         `json:"risk"`
	History              []Decision        `json:"history,omitempty"`
	Outcome              *Outcome          `json:"outcome,omitempty"`
}

// NewRunState returns the initial state of a run.
func NewRunState(runID, themeID string, d config.Difficulty) RunState {
	return RunState{
		RunID:            runID,
		Theme:            themeID,
		Difficulty:       d,
		Phase:            Planning,
		Resource:         100,
		SafetyScore:      100,
		DecisionAccuracy: 100,
		Risk:             RiskGreen,
	}
}

// Used reports whether scenario id was already presented this run.
func (s RunState) Used(id string) bool {
	return slices.Contains(s.UsedScenarioIDs, id)
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s RunState) Clone() RunState {
	c := s
	c.UsedScenarioIDs = slices.Clone(s.UsedScenarioIDs)
	c.History = slices.Clone(s.History)
	if s.Outcome != nil {
		o := *s.Outcome
		c.Outcome = &o
	}
	return c
}
