package sim

import (
	"context"
	"log/slog"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"missionops-sim/internal/telemetry"
)

// greptimeClient is the subset of the ingester client the writer needs.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes mission rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client     greptimeClient
	stateTable string
	eventTable string
	log        *slog.Logger
}

// NewGreptimeDBWriter connects to the gRPC endpoint of a GreptimeDB instance.
// Tables are created on first write.
func NewGreptimeDBWriter(host string, port int, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{
		client:     client,
		stateTable: telemetry.StateTableName,
		eventTable: telemetry.EventTableName,
		log:        log,
	}, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log == nil {
		return slog.Default()
	}
	return w.log
}

// WriteState inserts a single state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.StateRow) error {
	return w.WriteStates([]telemetry.StateRow{row})
}

// WriteStates inserts multiple state rows.
func (w *GreptimeDBWriter) WriteStates(rows []telemetry.StateRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	for _, tag := range []string{"run_id", "theme", "difficulty"} {
		if err := tbl.AddTagColumn(tag, types.STRING); err != nil {
			return err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"phase", types.STRING},
		{"route", types.STRING},
		{"progress", types.FLOAT64},
		{"resource", types.FLOAT64},
		{"safety", types.FLOAT64},
		{"accuracy", types.FLOAT64},
		{"wrong_answers", types.INT64},
		{"resolved", types.INT64},
		{"risk", types.STRING},
		{"vertical", types.FLOAT64},
		{"speed", types.FLOAT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(
			r.RunID, r.Theme, r.Difficulty,
			r.Phase, r.Route, r.Progress, r.Resource, r.Safety, r.Accuracy,
			int64(r.WrongAnswers), int64(r.Resolved), r.Risk, r.Vertical, r.Speed,
			r.Timestamp,
		); err != nil {
			return err
		}
	}
	return w.write(tbl, w.stateTable, len(rows))
}

// WriteEvent inserts a single event row.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.EventRow) error {
	return w.WriteEvents([]telemetry.EventRow{row})
}

// WriteEvents inserts multiple event rows.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	for _, tag := range []string{"run_id", "theme", "event_type"} {
		if err := tbl.AddTagColumn(tag, types.STRING); err != nil {
			return err
		}
	}
	for _, f := range []string{"phase", "from_phase", "scenario_id", "choice_id"} {
		if err := tbl.AddFieldColumn(f, types.STRING); err != nil {
			return err
		}
	}
	for _, f := range []string{"correct", "timed_out"} {
		if err := tbl.AddFieldColumn(f, types.BOOLEAN); err != nil {
			return err
		}
	}
	for _, f := range []string{"consequence", "outcome", "advisory", "level", "message"} {
		if err := tbl.AddFieldColumn(f, types.STRING); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(
			r.RunID, r.Theme, r.EventType,
			r.Phase, r.From, r.ScenarioID, r.ChoiceID,
			r.Correct, r.TimedOut, r.Consequence, r.Outcome,
			r.Advisory, r.Level, r.Message,
			r.Timestamp,
		); err != nil {
			return err
		}
	}
	return w.write(tbl, w.eventTable, len(rows))
}

func (w *GreptimeDBWriter) write(tbl *table.Table, name string, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.logger().Error("greptime write failed", "table", name, "err", err)
		return err
	}
	w.logger().Debug("greptime write", "table", name, "rows", n)
	return nil
}
