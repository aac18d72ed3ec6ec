package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"missionops-sim/internal/config"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/theme"
)

// loadContent resolves the theme and its scenario catalog. A catalog file
// from the config replaces the built-in one.
func loadContent(c *config.RunConfig) (theme.Theme, *scenario.Catalog, error) {
	th, err := theme.Lookup(c.Theme)
	if err != nil {
		return theme.Theme{}, nil, err
	}
	var cat *scenario.Catalog
	if c.CatalogFile != "" {
		cat, err = scenario.Load(c.CatalogFile)
	} else {
		cat, err = scenario.BuiltIn(th.ID)
	}
	if err != nil {
		return theme.Theme{}, nil, err
	}
	if err := cat.Validate(th.SubPhases); err != nil {
		return theme.Theme{}, nil, fmt.Errorf("catalog for %s: %w", th.ID, err)
	}
	return th, cat, nil
}

// seedFor returns the configured seed, or a fresh one when it is zero.
func seedFor(c *config.RunConfig) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

// newMachine wires a machine for one session.
func newMachine(c *config.RunConfig, th theme.Theme, cat *scenario.Catalog, rng *rand.Rand, sched mission.Scheduler, log *slog.Logger) (*mission.Machine, error) {
	return mission.NewMachine(mission.Options{
		Theme:        th,
		Difficulty:   c.Difficulty,
		Selector:     scenario.NewSelector(cat, rng),
		Scheduler:    sched,
		TickInterval: c.TickInterval,
		PlayCount:    c.PlayCount,
		Logger:       log,
	})
}
