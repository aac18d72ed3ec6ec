package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"missionops-sim/internal/sim"
)

const defaultGreptimePort = 4001

// newWriters sets up the telemetry sink from flags and env vars. ui is the
// front end writer; when nil, rows go to STDOUT as JSON. GreptimeDB is added
// when GREPTIMEDB_ENDPOINT is set and a JSONL copy when logFile is not empty.
// It returns the writer and a cleanup function to close any resources.
func newWriters(ui sim.Writer, printOnly bool, logFile string, log *slog.Logger) (sim.Writer, func(), error) {
	cleanup := func() {}
	base := ui
	if base == nil {
		base = sim.NewJSONStdoutWriter(false)
	}
	ws := []sim.Writer{base}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" && !printOnly {
		host, port, err := splitEndpoint(endpoint)
		if err != nil {
			return nil, nil, err
		}
		db := os.Getenv("GREPTIMEDB_DATABASE")
		if db == "" {
			db = "public"
		}
		gw, err := sim.NewGreptimeDBWriter(host, port, db, log)
		if err != nil {
			return nil, nil, fmt.Errorf("init GreptimeDB writer: %w", err)
		}
		log.Info("writing telemetry to GreptimeDB", "host", host, "port", port, "database", db)
		ws = append(ws, gw)
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, logFile+".state")
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { fw.Close() }
		ws = append(ws, fw)
	}

	if len(ws) == 1 {
		return ws[0], cleanup, nil
	}
	return sim.NewMultiWriterOf(ws...), cleanup, nil
}

// splitEndpoint parses "host[:port]".
func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid GREPTIMEDB_ENDPOINT port %q", portStr)
	}
	return host, port, nil
}
