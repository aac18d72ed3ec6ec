// YAML run config loader with CUE validation and environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// RunConfig is the root configuration for one mission session.
type RunConfig struct {
	Theme        string        `yaml:"theme" env:"MISSIONOPS_THEME"`
	Difficulty   Difficulty    `yaml:"difficulty" env:"MISSIONOPS_DIFFICULTY"`
	Seed         uint64        `yaml:"seed" env:"MISSIONOPS_SEED"`
	TickInterval time.Duration `yaml:"tick_interval" env:"MISSIONOPS_TICK_INTERVAL"`
	PlayCount    int           `yaml:"play_count" env:"MISSIONOPS_PLAY_COUNT"`
	AdminAddr    string        `yaml:"admin_addr" env:"MISSIONOPS_ADMIN_ADDR"`
	TelemetryLog string        `yaml:"telemetry_log" env:"MISSIONOPS_TELEMETRY_LOG"`
	CatalogFile  string        `yaml:"catalog_file" env:"MISSIONOPS_CATALOG_FILE"`
	LogLevel     string        `yaml:"log_level" env:"MISSIONOPS_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" env:"MISSIONOPS_LOG_FILE"`
}

// DefaultTickInterval matches the cruise ticker of the interactive game.
const DefaultTickInterval = 300 * time.Millisecond

// Default returns the configuration used when no file is given.
func Default() RunConfig {
	return RunConfig{
		Theme:        "submarine",
		Difficulty:   Normal,
		TickInterval: DefaultTickInterval,
		LogLevel:     "info",
	}
}

// Load reads an optional YAML config, validates it against a CUE schema and
// applies MISSIONOPS_* environment overrides. An empty configPath skips the
// file and starts from Default.
func Load(configPath, cueSchemaPath string) (*RunConfig, error) {
	cfg := Default()
	if configPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read YAML config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("cannot unmarshal YAML config: %w", err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overwrites fields whose MISSIONOPS_* variable is set.
func ApplyEnv(cfg *RunConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the invariants CUE cannot see after env overrides.
func (c RunConfig) Validate() error {
	if _, err := Settings(c.Difficulty); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if c.PlayCount < 0 {
		return errors.New("play count must not be negative")
	}
	return nil
}
