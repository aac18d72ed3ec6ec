package sim

import (
	"log/slog"

	"missionops-sim/internal/mission"
	"missionops-sim/internal/telemetry"
)

// Recorder is a mission.Observer that turns machine events into telemetry
// rows for a Writer.
type Recorder struct {
	gen *telemetry.Generator
	w   Writer
	log *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(gen *telemetry.Generator, w Writer, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{gen: gen, w: w, log: log}
}

// OnEvent writes the event row followed by the state snapshot. Write
// failures are logged and never stop the run.
func (r *Recorder) OnEvent(ev mission.Event) {
	if err := r.w.WriteEvent(r.gen.EventRow(ev)); err != nil {
		r.log.Warn("write event", "type", ev.Type, "err", err)
	}
	if err := r.w.WriteState(r.gen.StateRow(ev)); err != nil {
		r.log.Warn("write state", "phase", ev.Phase, "err", err)
	}
}

// Observers fans one event out to several observers in order.
type Observers []mission.Observer

// OnEvent implements mission.Observer.
func (obs Observers) OnEvent(ev mission.Event) {
	for _, o := range obs {
		if o != nil {
			o.OnEvent(ev)
		}
	}
}
