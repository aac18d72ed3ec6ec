package sim

import "missionops-sim/internal/telemetry"

// MultiWriter fan-outs state and event rows to multiple writers.
type MultiWriter struct {
	stateWriters []StateWriter
	eventWriters []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []StateWriter, ews []EventWriter) *MultiWriter {
	return &MultiWriter{stateWriters: sws, eventWriters: ews}
}

// NewMultiWriterOf registers each writer for both row kinds.
func NewMultiWriterOf(ws ...Writer) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		mw.stateWriters = append(mw.stateWriters, w)
		mw.eventWriters = append(mw.eventWriters, w)
	}
	return mw
}

// WriteState sends a state row to all state writers.
func (mw *MultiWriter) WriteState(row telemetry.StateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent sends an event row to all event writers.
func (mw *MultiWriter) WriteEvent(row telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple event rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if err := writeEvents(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer that implements io.Closer.
func (mw *MultiWriter) Close() error {
	var err error
	seen := map[any]bool{}
	for _, w := range mw.stateWriters {
		seen[w] = true
		if c, ok := w.(interface{ Close() error }); ok {
			if e := c.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	for _, w := range mw.eventWriters {
		if seen[w] {
			continue
		}
		if c, ok := w.(interface{ Close() error }); ok {
			if e := c.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	return err
}
