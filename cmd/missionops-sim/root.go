package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
)

var (
	configPath string
	schemaPath string
	envFile    string

	cfg     *config.RunConfig
	logOut  io.Writer = os.Stderr
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "missionops-sim",
	Short: "Branching-narrative vehicle mission simulator",
	Long: "MissionOps-Sim runs submarine dives and airline flights as a mission state machine " +
		"with timed emergencies, scoring and telemetry.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		c, err := config.Load(configPath, schemaPath)
		if err != nil {
			return err
		}
		cfg = c
		if cfg.LogFile != "" {
			f, err := openLogFile(cfg.LogFile)
			if err != nil {
				return err
			}
			logFile = f
			logOut = f
		}
		log := logging.New(logOut, logging.ParseLevel(cfg.LogLevel))
		slog.SetDefault(log)
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// defaultLogPath is where the TUI logs when no log_file is configured.
func defaultLogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "missionops-sim", "missionops-sim.log"), nil
}

// loadEnvFile reads KEY=value pairs into the environment. A missing default
// .env file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == ".env" {
		return nil
	}
	return err
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to run configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Path to CUE schema file (defaults to the built-in schema)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(catalogCmd)
}
