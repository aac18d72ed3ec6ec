package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"missionops-sim/internal/admin"
	"missionops-sim/internal/console"
	"missionops-sim/internal/debrief"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/sim"
	"missionops-sim/internal/telemetry"
	"missionops-sim/internal/tui"
)

var (
	playPlain bool
	playAdmin string
	playTheme string
)

func tuiLogFile() (*os.File, error) {
	path, err := defaultLogPath()
	if err != nil {
		return nil, err
	}
	return openLogFile(path)
}

// frontEnd is a player interface that also receives telemetry.
type frontEnd interface {
	sim.Writer
	Run(ctx context.Context) error
}

type tuiFrontEnd struct{ *tui.TUIWriter }

func (t tuiFrontEnd) Run(context.Context) error { return t.TUIWriter.Run() }

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a mission interactively",
	Long:  "play starts the interactive simulator in a full-screen terminal UI, or a line console with --plain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if playTheme != "" {
			cfg.Theme = playTheme
		}
		if playAdmin != "" {
			cfg.AdminAddr = playAdmin
		}
		th, cat, err := loadContent(cfg)
		if err != nil {
			return err
		}

		plain := playPlain || !term.IsTerminal(int(os.Stdout.Fd()))
		if !plain && cfg.LogFile == "" {
			// slog output would tear the alternate screen.
			f, err := tuiLogFile()
			if err != nil {
				fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
				logOut = io.Discard
			} else {
				logFile = f
				logOut = f
			}
		}
		log := logging.New(logOut, logging.ParseLevel(cfg.LogLevel))
		ctx := logging.NewContext(cmd.Context(), log)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		seed := seedFor(cfg)
		sched := sim.NewLoopScheduler()
		m, err := newMachine(cfg, th, cat, scenario.NewRand(seed), sched, log)
		if err != nil {
			return err
		}
		runner := sim.NewRunner(m, sched)

		g, gctx := errgroup.WithContext(ctx)
		var (
			ui  frontEnd
			tw  *tui.TUIWriter
			con *console.Console
		)
		if plain {
			con = console.New(runner, th, cat, os.Stdout)
			ui = con
		} else {
			tw = tui.NewTUIWriter(gctx, runner, th)
			ui = tuiFrontEnd{tw}
		}

		w, cleanup, err := newWriters(ui, false, cfg.TelemetryLog, log)
		if err != nil {
			return err
		}
		defer cleanup()
		m.SetObserver(sim.NewRecorder(telemetry.NewGenerator(th, scenario.NewRand(seed+1)), w, log))
		log.Info("session ready", "theme", th.ID, "difficulty", cfg.Difficulty, "seed", seed, "plain", plain)

		g.Go(func() error { return runner.Run(gctx) })
		if cfg.AdminAddr != "" {
			srv := admin.NewServer(runner)
			g.Go(func() error {
				return srv.Start(gctx, cfg.AdminAddr, func(addr string) {
					if tw != nil {
						tw.SetAdminStatus(addr)
					} else {
						fmt.Fprintf(os.Stdout, "admin UI on http://%s\n", addr)
					}
				})
			})
		}
		g.Go(func() error {
			defer cancel()
			return ui.Run(gctx)
		})
		if err := g.Wait(); err != nil {
			return err
		}

		v := runner.Snapshot()
		if len(v.State.History) == 0 && v.State.Outcome == nil {
			return nil
		}
		return printDebrief(debrief.Build(v.State, th, v.Settings), "")
	},
}

// printDebrief renders a report to STDOUT, as plain markdown when STDOUT is
// not a terminal.
func printDebrief(r debrief.Report, style string) error {
	md, err := debrief.Markdown(r)
	if err != nil {
		return err
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(md)
		return nil
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 80
	}
	out, err := debrief.Render(md, style, min(width, 100))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func init() {
	playCmd.Flags().BoolVar(&playPlain, "plain", false, "Use the line console instead of the full-screen UI")
	playCmd.Flags().StringVar(&playAdmin, "admin", "", "Serve the admin HTTP UI on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&playTheme, "theme", "", "Vehicle theme: submarine or aircraft")
}
