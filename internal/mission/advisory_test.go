package mission

import (
	"testing"

	"missionops-sim/internal/config"
	"missionops-sim/internal/theme"
)

func TestAdvisoriesOnRisingEdge(t *testing.T) {
	prev := NewChecklist()
	next := prev
	next.Power = true

	got := Advisories(prev, next, theme.Submarine)
	if len(got) != 2 {
		t.Fatalf("advisories = %+v", got)
	}
	if got[0].ID != "power" || got[0].Level != AdvisorySuccess || got[0].Message != theme.Submarine.Advisories.PowerOnline {
		t.Fatalf("power advisory = %+v", got[0])
	}
	if got[1].ID != "warning-sign" || got[1].Level != AdvisoryWarning {
		t.Fatalf("warning advisory = %+v", got[1])
	}

	if again := Advisories(next, next, theme.Submarine); len(again) != 0 {
		t.Fatalf("unchanged checklist raised %+v", again)
	}

	signed := next
	signed.WarningSign = true
	if got := Advisories(next, signed, theme.Submarine); len(got) != 0 {
		t.Fatalf("switching the sign on raised %+v", got)
	}
}

func TestAdvisoriesThemeText(t *testing.T) {
	prev := NewChecklist()
	next := prev
	next.Pumps = true
	got := Advisories(prev, next, theme.Aircraft)
	if len(got) != 1 || got[0].Level != AdvisoryInfo || got[0].Message != theme.Aircraft.Advisories.PumpsRunning {
		t.Fatalf("aircraft pumps advisory = %+v", got)
	}

	silent := theme.Aircraft
	silent.Advisories = theme.Advisories{}
	if got := Advisories(prev, next, silent); len(got) != 0 {
		t.Fatalf("empty text still raised %+v", got)
	}
}

func TestMachineAdvisesOncePerRun(t *testing.T) {
	m, _, rec := newTestMachine(t, nil, config.Normal, 0)
	if !m.SubmitPlan(CompletePlan("SD-PH")) {
		t.Fatal("plan rejected")
	}

	m.ToggleReadinessItem(theme.ItemPower)
	m.ToggleReadinessItem(theme.ItemPower)
	m.ToggleReadinessItem(theme.ItemPower)
	m.ToggleReadinessItem(theme.ItemSensors)

	var ids []string
	for _, ev := range rec.events {
		if ev.Type == EventAdvisory {
			if ev.Advisory == nil {
				t.Fatal("advisory event without payload")
			}
			ids = append(ids, ev.Advisory.ID)
		}
	}
	want := []string{"power", "warning-sign", "sensors"}
	if len(ids) != len(want) {
		t.Fatalf("advisory events = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("advisory events = %v, want %v", ids, want)
		}
	}
	if recent := m.RecentAdvisories(); len(recent) != 3 || recent[2].ID != "sensors" {
		t.Fatalf("recent = %+v", recent)
	}

	m.ResetRun()
	if len(m.RecentAdvisories()) != 0 {
		t.Fatal("advisories survived reset")
	}
	if !m.SubmitPlan(CompletePlan("SD-PH")) {
		t.Fatal("plan rejected after reset")
	}
	m.ToggleReadinessItem(theme.ItemPower)
	if recent := m.RecentAdvisories(); len(recent) != 2 || recent[0].ID != "power" {
		t.Fatalf("new run advisories = %+v", recent)
	}
}

func TestMachineKeepsRecentAdvisories(t *testing.T) {
	m, _, _ := newTestMachine(t, nil, config.Normal, 0)
	for i := 0; i < MaxAdvisories; i++ {
		m.advised = map[string]bool{}
		m.checklist = Checklist{Power: true}
		m.advise(Checklist{})
	}
	if n := len(m.RecentAdvisories()); n != MaxAdvisories {
		t.Fatalf("kept %d advisories", n)
	}
}
