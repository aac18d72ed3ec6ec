package sim

import (
	"errors"
	"testing"

	"missionops-sim/internal/telemetry"
)

type batchCollect struct {
	collectWriter
	batches int
	closed  bool
}

func (b *batchCollect) WriteEvents(rows []telemetry.EventRow) error {
	b.batches++
	b.events = append(b.events, rows...)
	return nil
}

func (b *batchCollect) Close() error {
	b.closed = true
	return nil
}

type failWriter struct{ collectWriter }

func (failWriter) WriteEvent(telemetry.EventRow) error { return errors.New("boom") }

func TestMultiWriterFansOut(t *testing.T) {
	a := &collectWriter{}
	b := &batchCollect{}
	mw := NewMultiWriterOf(a, b)

	if err := mw.WriteState(telemetry.StateRow{RunID: "r"}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if err := mw.WriteEvents([]telemetry.EventRow{{RunID: "1"}, {RunID: "2"}}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if len(a.states) != 1 || len(b.states) != 1 {
		t.Fatalf("states not fanned out: %d %d", len(a.states), len(b.states))
	}
	if len(a.events) != 2 || len(b.events) != 2 || b.batches != 1 {
		t.Fatalf("events: a=%d b=%d batches=%d", len(a.events), len(b.events), b.batches)
	}
	if err := mw.Close(); err != nil || !b.closed {
		t.Fatalf("close: %v closed=%v", err, b.closed)
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	after := &collectWriter{}
	mw := NewMultiWriter(nil, []EventWriter{&failWriter{}, after})
	if err := mw.WriteEvent(telemetry.EventRow{}); err == nil {
		t.Fatal("expected error")
	}
	if len(after.events) != 0 {
		t.Fatal("writer after failure should not be called")
	}
}
