package scenario

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog wraps every catalog consistency failure.
var ErrInvalidCatalog = errors.New("invalid scenario catalog")

// Urgency ranks how pressing a scenario is.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Choice is one answer offered by a scenario.
type Choice struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Correct     bool   `yaml:"correct" json:"correct"`
	Consequence string `yaml:"consequence" json:"consequence"`
}

// Definition is an immutable emergency scenario.
type Definition struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Icon        string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Urgency     Urgency  `yaml:"urgency" json:"urgency"`
	Phases      []string `yaml:"phases" json:"phases"`
	Parent      string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	Choices     []Choice `yaml:"choices" json:"choices"`
}

// Escalated reports whether d is the harder follow-up of another scenario.
func (d Definition) Escalated() bool { return d.Parent != "" }

// ValidIn reports whether d may be presented during sub-phase sub.
func (d Definition) ValidIn(sub string) bool {
	return slices.Contains(d.Phases, sub)
}

// Choice looks up one of d's choices by id.
func (d Definition) Choice(id string) (Choice, bool) {
	for _, c := range d.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Catalog groups the three scenario tables of one theme.
type Catalog struct {
	Theme     string       `yaml:"theme"`
	Base      []Definition `yaml:"base"`
	Extended  []Definition `yaml:"extended"`
	Escalated []Definition `yaml:"escalated"`
}

// Load reads a YAML scenario catalog from disk.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML scenario catalog.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse scenario catalog: %w", err)
	}
	return &c, nil
}

// Pool returns the base table, plus the extended table when unlocked.
func (c *Catalog) Pool(unlockExtended bool) []Definition {
	if !unlockExtended {
		return c.Base
	}
	pool := make([]Definition, 0, len(c.Base)+len(c.Extended))
	pool = append(pool, c.Base...)
	return append(pool, c.Extended...)
}

// Lookup finds a scenario by id across all three tables.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	for _, table := range [][]Definition{c.Base, c.Extended, c.Escalated} {
		for _, d := range table {
			if d.ID == id {
				return d, true
			}
		}
	}
	return Definition{}, false
}

// Validate checks the catalog against the sub-phase names of its theme.
func (c *Catalog) Validate(subPhases [5]string) error {
	seen := make(map[string]bool)
	check := func(table string, d Definition, escalated bool) error {
		if d.ID == "" {
			return fmt.Errorf("%w: %s entry without id", ErrInvalidCatalog, table)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, d.ID)
		}
		seen[d.ID] = true
		switch d.Urgency {
		case UrgencyLow, UrgencyMedium, UrgencyHigh:
		default:
			return fmt.Errorf("%w: %q has urgency %q", ErrInvalidCatalog, d.ID, d.Urgency)
		}
		if len(d.Phases) == 0 {
			return fmt.Errorf("%w: %q has no valid phases", ErrInvalidCatalog, d.ID)
		}
		for _, p := range d.Phases {
			if !slices.Contains(subPhases[:], p) {
				return fmt.Errorf("%w: %q uses unknown phase %q", ErrInvalidCatalog, d.ID, p)
			}
		}
		if escalated != d.Escalated() {
			return fmt.Errorf("%w: %q parent %q does not match table %s", ErrInvalidCatalog, d.ID, d.Parent, table)
		}
		if n := len(d.Choices); n < 2 || n > 3 {
			return fmt.Errorf("%w: %q has %d choices, want 2-3", ErrInvalidCatalog, d.ID, n)
		}
		var right, wrong int
		choiceIDs := make(map[string]bool)
		for _, ch := range d.Choices {
			if ch.ID == "" || choiceIDs[ch.ID] {
				return fmt.Errorf("%w: %q has a missing or duplicate choice id", ErrInvalidCatalog, d.ID)
			}
			choiceIDs[ch.ID] = true
			if ch.Correct {
				right++
			} else {
				wrong++
			}
		}
		if right == 0 || wrong == 0 {
			return fmt.Errorf("%w: %q needs at least one correct and one incorrect choice", ErrInvalidCatalog, d.ID)
		}
		return nil
	}
	for _, d := range c.Base {
		if err := check("base", d, false); err != nil {
			return err
		}
	}
	for _, d := range c.Extended {
		if err := check("extended", d, false); err != nil {
			return err
		}
	}
	parents := make(map[string]bool)
	for _, d := range c.Escalated {
		if err := check("escalated", d, true); err != nil {
			return err
		}
		if parents[d.Parent] {
			return fmt.Errorf("%w: more than one escalation for %q", ErrInvalidCatalog, d.Parent)
		}
		parents[d.Parent] = true
	}
	for p := range parents {
		if _, ok := c.Lookup(p); !ok {
			return fmt.Errorf("%w: escalation parent %q not in catalog", ErrInvalidCatalog, p)
		}
	}
	return nil
}
