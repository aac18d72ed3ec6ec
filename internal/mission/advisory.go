package mission

import "missionops-sim/internal/theme"

// MaxAdvisories is how many recent advisories a Machine keeps.
const MaxAdvisories = 5

// AdvisoryLevel grades a co-pilot advisory.
type AdvisoryLevel string

const (
	AdvisorySuccess AdvisoryLevel = "success"
	AdvisoryInfo    AdvisoryLevel = "info"
	AdvisoryWarning AdvisoryLevel = "warning"
)

// Advisory is a co-pilot message derived from the readiness checklist.
type Advisory struct {
	ID      string        `json:"id"`
	Level   AdvisoryLevel `json:"level"`
	Message string        `json:"message"`
}

type advisoryRule struct {
	id    string
	level AdvisoryLevel
	text  func(theme.Advisories) string
	holds func(Checklist) bool
}

var advisoryRules = []advisoryRule{
	{
		id:    "power",
		level: AdvisorySuccess,
		text:  func(a theme.Advisories) string { return a.PowerOnline },
		holds: func(c Checklist) bool { return c.Power },
	},
	{
		id:    "sensors",
		level: AdvisorySuccess,
		text:  func(a theme.Advisories) string { return a.SensorsActive },
		holds: func(c Checklist) bool { return c.Sensors },
	},
	{
		id:    "pumps",
		level: AdvisoryInfo,
		text:  func(a theme.Advisories) string { return a.PumpsRunning },
		holds: func(c Checklist) bool { return c.Pumps },
	},
	{
		id:    "warning-sign",
		level: AdvisoryWarning,
		text:  func(a theme.Advisories) string { return a.WarningSignOff },
		holds: func(c Checklist) bool { return c.Power && !c.WarningSign },
	},
}

// Advisories returns the advisories whose condition became true between prev
// and next, in rule order.
func Advisories(prev, next Checklist, th theme.Theme) []Advisory {
	var out []Advisory
	for _, r := range advisoryRules {
		msg := r.text(th.Advisories)
		if msg == "" || r.holds(prev) || !r.holds(next) {
			continue
		}
		out = append(out, Advisory{ID: r.id, Level: r.level, Message: msg})
	}
	return out
}
