package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"missionops-sim/internal/config"
	"missionops-sim/internal/debrief"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/telemetry"
)

var (
	runPolicy     string
	runRoute      string
	runRuns       int
	runTheme      string
	runPrintOnly  bool
	runQuiet      bool
	runColor      bool
	runDebriefDir string
	runStyle      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fly missions headlessly with an autopilot",
	Long: "run plays one or more missions on a virtual clock, answering emergencies with a fixed policy. " +
		"Events are printed as JSON lines and sent to GreptimeDB when GREPTIMEDB_ENDPOINT is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := sim.ParsePolicy(runPolicy)
		if err != nil {
			return err
		}
		if runRuns < 1 {
			return fmt.Errorf("--runs must be at least 1")
		}
		if runTheme != "" {
			cfg.Theme = runTheme
		}
		th, cat, err := loadContent(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		var ui sim.Writer
		switch {
		case runQuiet:
			ui = sim.NewMultiWriter(nil, nil)
		case runColor:
			settings, err := config.Settings(cfg.Difficulty)
			if err != nil {
				return err
			}
			ui = sim.NewColorStdoutWriter(th, settings)
		}
		w, cleanup, err := newWriters(ui, runPrintOnly, cfg.TelemetryLog, log)
		if err != nil {
			return err
		}
		defer cleanup()

		seed := seedFor(cfg)
		sched := mission.NewManualScheduler()
		m, err := newMachine(cfg, th, cat, scenario.NewRand(seed), sched, log)
		if err != nil {
			return err
		}
		m.SetObserver(sim.NewRecorder(telemetry.NewGenerator(th, scenario.NewRand(seed+1)), w, log))
		pilot := sim.NewAutopilot(policy, runRoute, cfg.TickInterval, scenario.NewRand(seed+2), log)

		log.Info("starting autopilot", "theme", th.ID, "policy", policy, "runs", runRuns, "seed", seed)
		reports := make([]debrief.Report, 0, runRuns)
		for i := 0; i < runRuns; i++ {
			if i > 0 {
				m.ResetRun()
			}
			st, err := pilot.Fly(ctx, m, sched)
			if err != nil {
				return err
			}
			r := debrief.Build(st, th, m.Settings())
			reports = append(reports, r)
			log.Info("run finished", "run_id", st.RunID, "success", r.Success, "rating", r.Rating)
			if runDebriefDir != "" {
				path, err := debrief.Save(runDebriefDir, r)
				if err != nil {
					return err
				}
				log.Debug("debrief saved", "path", path)
			}
		}

		if runRuns == 1 {
			return printDebrief(reports[0], runStyle)
		}
		md, err := debrief.SummaryMarkdown(debrief.Summarize(string(policy), reports))
		if err != nil {
			return err
		}
		fmt.Print(md)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runPolicy, "policy", string(sim.PolicyCorrect), "Autopilot policy: correct, wrong, random or timeout")
	runCmd.Flags().StringVar(&runRoute, "route", "", "Route code (defaults to the theme's first route)")
	runCmd.Flags().IntVar(&runRuns, "runs", 1, "Number of consecutive runs")
	runCmd.Flags().StringVar(&runTheme, "theme", "", "Vehicle theme: submarine or aircraft")
	runCmd.Flags().BoolVar(&runPrintOnly, "print-only", false, "Print rows to STDOUT even when GREPTIMEDB_ENDPOINT is set")
	runCmd.Flags().BoolVar(&runQuiet, "quiet", false, "Do not print event rows")
	runCmd.Flags().BoolVar(&runColor, "color", false, "Print a coloured event log instead of JSON")
	runCmd.Flags().StringVar(&runDebriefDir, "debrief-dir", "", "Write a markdown debrief per run into this directory")
	runCmd.Flags().StringVar(&runStyle, "style", "", "Debrief style for terminals (dark, light, notty); auto when empty")
}
