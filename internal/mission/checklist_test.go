package mission

import (
	"testing"

	"missionops-sim/internal/theme"
)

func TestChecklistStartsIncomplete(t *testing.T) {
	c := NewChecklist()
	if !c.BrakeEngaged {
		t.Fatal("brake should start engaged")
	}
	if c.Complete() {
		t.Fatal("fresh checklist reported complete")
	}
}

func TestChecklistCompleteRequiresEveryItem(t *testing.T) {
	keys := theme.ChecklistKeys()
	if len(keys) != 8 {
		t.Fatalf("checklist has %d items", len(keys))
	}
	for skip := range keys {
		c := NewChecklist()
		for i, k := range keys {
			if i == skip {
				continue
			}
			if !c.Toggle(k) {
				t.Fatalf("toggle %s rejected", k)
			}
		}
		if c.Complete() {
			t.Fatalf("complete without %s", keys[skip])
		}
		c.Toggle(keys[skip])
		if !c.Complete() {
			t.Fatalf("incomplete after toggling %s", keys[skip])
		}
	}
}

func TestControlSurfaceDetent(t *testing.T) {
	c := NewChecklist()
	c.Toggle(theme.ItemControlSurface)
	if c.ControlSurfaceDeg != DetentAngle {
		t.Fatalf("deg = %v", c.ControlSurfaceDeg)
	}
	c.ControlSurfaceDeg = 25
	if !c.Done(theme.ItemControlSurface) {
		t.Fatal("25 degrees should satisfy the item")
	}
	c.Toggle(theme.ItemControlSurface)
	if c.ControlSurfaceDeg != 0 || c.Done(theme.ItemControlSurface) {
		t.Fatalf("toggle did not reset: %v", c.ControlSurfaceDeg)
	}
}

func TestChecklistUnknownKey(t *testing.T) {
	c := NewChecklist()
	if c.Toggle("rudder") {
		t.Fatal("unknown key accepted")
	}
}
