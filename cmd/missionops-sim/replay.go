package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/theme"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayColor     bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a mission event log",
	Long:  "replay feeds event rows from a JSONL log back into GreptimeDB or STDOUT, preserving their spacing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replaySpeed <= 0 {
			return fmt.Errorf("--speed must be positive")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		var ui sim.Writer
		if replayColor {
			th, err := theme.Lookup(cfg.Theme)
			if err != nil {
				return err
			}
			settings, err := config.Settings(cfg.Difficulty)
			if err != nil {
				return err
			}
			ui = sim.NewColorStdoutWriter(th, settings)
		}
		w, cleanup, err := newWriters(ui, replayPrintOnly, "", log)
		if err != nil {
			return err
		}
		defer cleanup()
		log.Info("starting replay", "input", replayInput, "speed", replaySpeed)
		return sim.ReplayLogFile(ctx, replayInput, w, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to event log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	replayCmd.Flags().BoolVar(&replayColor, "color", false, "Print a coloured event log instead of JSON")
	replayCmd.MarkFlagRequired("input")
}
