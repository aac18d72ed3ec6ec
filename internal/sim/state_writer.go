package sim

import "missionops-sim/internal/telemetry"

// StateWriter handles run state snapshots.
type StateWriter interface {
	WriteState(telemetry.StateRow) error
}

// EventWriter handles discrete machine events.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: event writers may support batch mode. Replay hands them the
// rows of one machine step at a time.
type batchEventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// writeEvents uses the batch method of w when it has one.
func writeEvents(w EventWriter, rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchEventWriter); ok {
		return bw.WriteEvents(rows)
	}
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// Writer is a sink for both row kinds.
type Writer interface {
	StateWriter
	EventWriter
}
