package theme

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, id := range IDs() {
		th, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", id, err)
		}
		if th.ID != id {
			t.Fatalf("Lookup(%s) returned %s", id, th.ID)
		}
		for _, k := range ChecklistKeys() {
			if th.Checklist[k] == "" {
				t.Fatalf("%s missing checklist label for %s", id, k)
			}
		}
		for _, c := range SafetyChecks() {
			if th.SafetyLabels[c] == "" {
				t.Fatalf("%s missing safety label for %s", id, c)
			}
		}
		if len(th.Routes) == 0 {
			t.Fatalf("%s has no routes", id)
		}
	}
	if _, err := Lookup("rowboat"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestRouteLookup(t *testing.T) {
	r, ok := Submarine.Route("SD-PH")
	if !ok || r.DistanceNM != 2272 || r.Alternate.Code != "GU" {
		t.Fatalf("unexpected route %+v ok=%v", r, ok)
	}
	if _, ok := Aircraft.Route("SD-PH"); ok {
		t.Fatalf("aircraft should not know submarine routes")
	}
}

func TestControlSurfaceCommand(t *testing.T) {
	if got := Submarine.ControlSurfaceCommand(); got != "planes" {
		t.Fatalf("submarine verb = %q", got)
	}
	if got := Aircraft.ControlSurfaceCommand(); got != "flaps" {
		t.Fatalf("aircraft verb = %q", got)
	}
	if got := (Theme{}).ControlSurfaceCommand(); got != "surface" {
		t.Fatalf("empty verb = %q", got)
	}
}
