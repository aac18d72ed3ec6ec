// Telemetry rows with greptime tags
package telemetry

import (
	"os"
	"time"
)

// StateRow is one snapshot of a run, written on every machine event.
type StateRow struct {
	RunID        string    `json:"run_id"`     // TAG
	Theme        string    `json:"theme"`      // TAG
	Difficulty   string    `json:"difficulty"` // TAG
	Phase        string    `json:"phase"`      // FIELD
	Route        string    `json:"route"`      // FIELD
	Progress     float64   `json:"progress"`
	Resource     float64   `json:"resource"`
	Safety       float64   `json:"safety"`
	Accuracy     float64   `json:"accuracy"`
	WrongAnswers int       `json:"wrong_answers"`
	Resolved     int       `json:"resolved"`
	Risk         string    `json:"risk"`
	Vertical     float64   `json:"vertical"` // depth in m or altitude in ft
	Speed        float64   `json:"speed"`
	Timestamp    time.Time `json:"ts"` // TIME INDEX
}

// EventRow is one discrete machine event.
type EventRow struct {
	RunID       string    `json:"run_id"`     // TAG
	Theme       string    `json:"theme"`      // TAG
	EventType   string    `json:"event_type"` // TAG
	Phase       string    `json:"phase"`
	From        string    `json:"from,omitempty"`
	ScenarioID  string    `json:"scenario_id,omitempty"`
	ChoiceID    string    `json:"choice_id,omitempty"`
	Correct     bool      `json:"correct"`
	TimedOut    bool      `json:"timed_out"`
	Consequence string    `json:"consequence,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Advisory    string    `json:"advisory,omitempty"`
	Level       string    `json:"level,omitempty"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"ts"`
}

// StateTableName defaults to "mission_state" and can be overridden via
// MISSIONOPS_STATE_TABLE.
var StateTableName = tableName("MISSIONOPS_STATE_TABLE", "mission_state")

// EventTableName defaults to "mission_events" and can be overridden via
// MISSIONOPS_EVENT_TABLE.
var EventTableName = tableName("MISSIONOPS_EVENT_TABLE", "mission_events")

func tableName(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func (StateRow) TableName() string { return StateTableName }

func (EventRow) TableName() string { return EventTableName }
