package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"missionops-sim/internal/telemetry"
)

// JSONStdoutWriter prints state and event rows as JSON lines.
type JSONStdoutWriter struct {
	out    io.Writer
	states bool
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
// State rows are only printed when states is true.
func NewJSONStdoutWriter(states bool) *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout, states: states}
}

// WriteState outputs a state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.StateRow) error {
	if !w.states {
		return nil
	}
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEvent outputs an event row in JSON format.
func (w *JSONStdoutWriter) WriteEvent(row telemetry.EventRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEvents outputs multiple event rows in JSON format.
func (w *JSONStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}
