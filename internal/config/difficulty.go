package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty selects one row of the fixed difficulty table.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ErrUnknownDifficulty is returned for names outside the difficulty table.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// DifficultySettings holds the per-difficulty constants used by the
// scoring engine and the decision timer.
type DifficultySettings struct {
	Name              string  `json:"name"`
	TimerSeconds      int     `json:"timer_seconds"`
	ScenarioCount     int     `json:"scenario_count"`
	ResourceBurnRate  float64 `json:"resource_burn_rate"`
	PenaltyMultiplier float64 `json:"penalty_multiplier"`
	Description       string  `json:"description"`
}

// DecisionWindow is the emergency countdown as a duration.
func (s DifficultySettings) DecisionWindow() time.Duration {
	return time.Duration(s.TimerSeconds) * time.Second
}

var difficulties = map[Difficulty]DifficultySettings{
	Easy: {
		Name:              "Trainee",
		TimerSeconds:      40,
		ScenarioCount:     3,
		ResourceBurnRate:  0.2,
		PenaltyMultiplier: 0.5,
		Description:       "40s decisions, 3 issues, forgiving scoring",
	},
	Normal: {
		Name:              "Junior Pilot",
		TimerSeconds:      20,
		ScenarioCount:     4,
		ResourceBurnRate:  0.3,
		PenaltyMultiplier: 1,
		Description:       "20s decisions, 4 issues, standard scoring",
	},
	Hard: {
		Name:              "Captain",
		TimerSeconds:      10,
		ScenarioCount:     5,
		ResourceBurnRate:  0.5,
		PenaltyMultiplier: 1.5,
		Description:       "10s decisions, 5 issues, strict scoring",
	},
}

// Levels lists the difficulties from easiest to hardest.
func Levels() []Difficulty {
	return []Difficulty{Easy, Normal, Hard}
}

// Settings looks up the constants for d.
func Settings(d Difficulty) (DifficultySettings, error) {
	s, ok := difficulties[d]
	if !ok {
		return DifficultySettings{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return s, nil
}

// ParseDifficulty normalises s and checks it against the table.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Settings(d); err != nil {
		return "", err
	}
	return d, nil
}

// UnmarshalText lets YAML and environment decoding reject unknown names.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
