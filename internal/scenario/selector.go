package scenario

import (
	"math/rand/v2"
	"slices"
)

// PhaseForProgress maps a mission progress percentage to one of the five
// sub-phase names of a theme.
func PhaseForProgress(progress float64, subPhases [5]string) string {
	switch {
	case progress < 15:
		return subPhases[0]
	case progress < 35:
		return subPhases[1]
	case progress < 75:
		return subPhases[2]
	case progress < 95:
		return subPhases[3]
	default:
		return subPhases[4]
	}
}

// Selector picks scenarios from a catalog. Its random choices come from an
// injected source so sequences are reproducible under a fixed seed.
type Selector struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewSelector creates a Selector. A nil rng is replaced by NewRand(0).
func NewSelector(c *Catalog, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Selector{catalog: c, rng: rng}
}

// Catalog returns the catalog the selector draws from.
func (s *Selector) Catalog() *Catalog { return s.catalog }

// Select returns a random unused scenario valid for sub. When every
// phase-valid scenario is used it falls back to any unused one; nil means the
// pool is exhausted.
func (s *Selector) Select(sub string, used []string, unlockExtended bool) *Definition {
	pool := s.catalog.Pool(unlockExtended)
	var valid, unused []Definition
	for _, d := range pool {
		if slices.Contains(used, d.ID) {
			continue
		}
		unused = append(unused, d)
		if d.ValidIn(sub) {
			valid = append(valid, d)
		}
	}
	if len(valid) > 0 {
		return s.pick(valid)
	}
	if len(unused) > 0 {
		return s.pick(unused)
	}
	return nil
}

// SelectEscalation returns the escalation whose parent is parentID, or nil
// when that escalation is already in used. Without a direct match it picks a
// random unused high-urgency escalation, or nil if none is left.
func (s *Selector) SelectEscalation(parentID string, used []string) *Definition {
	var high []Definition
	for _, d := range s.catalog.Escalated {
		if d.Parent == parentID {
			if slices.Contains(used, d.ID) {
				return nil
			}
			return &d
		}
		if d.Urgency == UrgencyHigh && !slices.Contains(used, d.ID) {
			high = append(high, d)
		}
	}
	if len(high) == 0 {
		return nil
	}
	return s.pick(high)
}

// Playlist returns up to count shuffled scenarios for a mission briefing.
func (s *Selector) Playlist(count int, unlockExtended bool) []Definition {
	pool := slices.Clone(s.catalog.Pool(unlockExtended))
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count < len(pool) {
		pool = pool[:max(count, 0)]
	}
	return pool
}

func (s *Selector) pick(ds []Definition) *Definition {
	d := ds[s.rng.IntN(len(ds))]
	return &d
}
