package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"missionops-sim/internal/telemetry"
)

func TestReplayLog(t *testing.T) {
	rows := []telemetry.EventRow{
		{RunID: "r1", EventType: "scenario_presented", ScenarioID: "storm", Timestamp: time.Unix(0, 0)},
		{RunID: "r1", EventType: "choice_resolved", ScenarioID: "storm", Timestamp: time.Unix(1, 0)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	cw := &collectWriter{}
	if err := ReplayLog(context.Background(), &buf, cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.events) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.events))
	}
	for i, r := range rows {
		if cw.events[i].EventType != r.EventType {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.events[i], r)
		}
	}
}

func TestReplayLogHonoursCancel(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.Encode(telemetry.EventRow{Timestamp: time.Unix(0, 0)})
	enc.Encode(telemetry.EventRow{Timestamp: time.Unix(3600, 0)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cw := &collectWriter{}
	if err := ReplayLog(ctx, &buf, cw, 1); err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(cw.events) != 1 {
		t.Fatalf("expected first row only, got %d", len(cw.events))
	}
}

func TestReplayLogBatchesSteps(t *testing.T) {
	step := time.Unix(10, 0)
	rows := []telemetry.EventRow{
		{RunID: "r1", EventType: "choice_resolved", Timestamp: step},
		{RunID: "r1", EventType: "phase_changed", Timestamp: step},
		{RunID: "r1", EventType: "tick", Timestamp: step.Add(300 * time.Millisecond)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	bw := &batchCollect{}
	if err := ReplayLog(context.Background(), &buf, NewMultiWriterOf(bw), 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if bw.batches != 2 || len(bw.events) != 3 {
		t.Fatalf("batches=%d events=%d", bw.batches, len(bw.events))
	}
	if bw.events[1].EventType != "phase_changed" || bw.events[2].EventType != "tick" {
		t.Fatalf("order: %+v", bw.events)
	}
}

func TestReplayLogFileMissing(t *testing.T) {
	if err := ReplayLogFile(context.Background(), "does-not-exist.jsonl", &collectWriter{}, 0); err == nil {
		t.Fatal("expected error")
	}
}
