package scenario

import (
	"slices"
	"testing"
)

func TestPhaseForProgress(t *testing.T) {
	cases := map[float64]string{
		0: "launch", 14.9: "launch",
		15: "descent", 34: "descent",
		35: "cruise", 74.9: "cruise",
		75: "ascent", 94: "ascent",
		95: "docking", 100: "docking",
	}
	for p, want := range cases {
		if got := PhaseForProgress(p, subPhases); got != want {
			t.Fatalf("PhaseForProgress(%v) = %s, want %s", p, got, want)
		}
	}
}

func builtinSelector(t *testing.T, seed uint64) *Selector {
	t.Helper()
	c, err := BuiltIn("submarine")
	if err != nil {
		t.Fatalf("BuiltIn: %v", err)
	}
	return NewSelector(c, NewRand(seed))
}

func TestSelectRespectsPhaseAndUsed(t *testing.T) {
	s := builtinSelector(t, 1)
	for i := 0; i < 50; i++ {
		d := s.Select("launch", nil, false)
		if d == nil || d.ID != "ballast" {
			t.Fatalf("only ballast is valid at launch in the base table, got %+v", d)
		}
	}
	for i := 0; i < 50; i++ {
		d := s.Select("cruise", []string{"storm"}, false)
		if d == nil || !d.ValidIn("cruise") || d.ID == "storm" {
			t.Fatalf("unexpected cruise pick %+v", d)
		}
	}
}

func TestSelectUnlockExtended(t *testing.T) {
	s := builtinSelector(t, 2)
	seenExtended := false
	for i := 0; i < 200; i++ {
		d := s.Select("descent", nil, true)
		if d == nil {
			t.Fatalf("expected a scenario")
		}
		if _, ok := lookupTable(s.Catalog().Extended, d.ID); ok {
			seenExtended = true
		}
	}
	if !seenExtended {
		t.Fatalf("extended scenarios never selected when unlocked")
	}
	for i := 0; i < 50; i++ {
		d := s.Select("descent", nil, false)
		if _, ok := lookupTable(s.Catalog().Extended, d.ID); ok {
			t.Fatalf("extended scenario %s selected while locked", d.ID)
		}
	}
}

func TestSelectExhaustionFallback(t *testing.T) {
	s := builtinSelector(t, 3)
	d := s.Select("launch", []string{"ballast"}, false)
	if d == nil || d.ID == "ballast" {
		t.Fatalf("expected fallback to another unused scenario, got %+v", d)
	}
	all := []string{"storm", "hullbreach", "ballast", "medical-crew", "energy-crisis"}
	if d := s.Select("cruise", all, false); d != nil {
		t.Fatalf("expected nil when pool exhausted, got %s", d.ID)
	}
}

func TestSelectEscalationDeterministic(t *testing.T) {
	s := builtinSelector(t, 4)
	for i := 0; i < 20; i++ {
		d := s.SelectEscalation("storm", nil)
		if d == nil || d.ID != "storm-escalated" {
			t.Fatalf("expected storm-escalated, got %+v", d)
		}
	}
}

func TestSelectEscalationFallback(t *testing.T) {
	s := builtinSelector(t, 5)
	d := s.SelectEscalation("medical-crew", nil)
	if d == nil || d.Urgency != UrgencyHigh || !d.Escalated() {
		t.Fatalf("expected random high urgency escalation, got %+v", d)
	}
	empty := NewSelector(&Catalog{}, NewRand(1))
	if empty.SelectEscalation("storm", nil) != nil {
		t.Fatalf("expected nil without escalations")
	}
}

func TestSelectEscalationSkipsUsed(t *testing.T) {
	s := builtinSelector(t, 8)
	if d := s.SelectEscalation("storm", []string{"storm-escalated"}); d != nil {
		t.Fatalf("used direct escalation returned again: %s", d.ID)
	}

	var high []string
	for _, d := range s.Catalog().Escalated {
		if d.Urgency == UrgencyHigh {
			high = append(high, d.ID)
		}
	}
	if len(high) < 2 {
		t.Fatalf("builtin catalog needs two high urgency escalations, has %v", high)
	}
	keep := high[len(high)-1]
	used := high[:len(high)-1]
	for i := 0; i < 20; i++ {
		d := s.SelectEscalation("medical-crew", used)
		if d == nil || d.ID != keep {
			t.Fatalf("expected the only unused escalation %s, got %+v", keep, d)
		}
	}
	if d := s.SelectEscalation("medical-crew", high); d != nil {
		t.Fatalf("expected nil once every escalation is used, got %s", d.ID)
	}
}

func TestSelectorSeedReproducible(t *testing.T) {
	a := builtinSelector(t, 99)
	b := builtinSelector(t, 99)
	for i := 0; i < 10; i++ {
		da := a.Select("cruise", nil, true)
		db := b.Select("cruise", nil, true)
		if da.ID != db.ID {
			t.Fatalf("step %d: %s != %s", i, da.ID, db.ID)
		}
	}
}

func TestPlaylist(t *testing.T) {
	s := builtinSelector(t, 6)
	got := s.Playlist(4, false)
	if len(got) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(got))
	}
	if got := s.Playlist(50, true); len(got) != 13 {
		t.Fatalf("expected full pool of 13, got %d", len(got))
	}
	ids := make([]string, 0)
	for _, d := range s.Playlist(5, false) {
		if slices.Contains(ids, d.ID) {
			t.Fatalf("duplicate %s in playlist", d.ID)
		}
		ids = append(ids, d.ID)
	}
}

func lookupTable(ds []Definition, id string) (Definition, bool) {
	for _, d := range ds {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
