package sim

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"missionops-sim/internal/telemetry"
)

// ReplayLog replays event rows from r to writer. Consecutive rows with the
// same timestamp come from one machine step and are written as one batch.
// A speed >0 accelerates playback. If speed <= 0, no artificial delay is
// inserted.
func ReplayLog(ctx context.Context, r io.Reader, writer EventWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var step []telemetry.EventRow
	for {
		var row telemetry.EventRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return writeEvents(writer, step)
			}
			return err
		}
		if len(step) > 0 && row.Timestamp.Equal(step[0].Timestamp) {
			step = append(step, row)
			continue
		}
		if len(step) > 0 {
			if err := writeEvents(writer, step); err != nil {
				return err
			}
			if err := wait(ctx, row.Timestamp.Sub(step[0].Timestamp), speed); err != nil {
				return err
			}
		}
		step = []telemetry.EventRow{row}
	}
}

func wait(ctx context.Context, diff time.Duration, speed float64) error {
	if speed <= 0 {
		return nil
	}
	if speed != 1 {
		diff = time.Duration(float64(diff) / speed)
	}
	if diff <= 0 {
		return nil
	}
	select {
	case <-time.After(diff):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReplayLogFile opens a file and replays its event rows.
func ReplayLogFile(ctx context.Context, path string, writer EventWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
