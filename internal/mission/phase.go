package mission

import "fmt"

// Phase is the coarse stage of a run.
type Phase int

const (
	Planning Phase = iota
	Readiness
	Cruise0
	Emergency1
	Cruise1
	Emergency2
	Cruise2
	Emergency3
	Cruise3
	Emergency4
	Cruise4
	Resolution
	Terminal
)

// Emergencies is the number of scripted emergency checkpoints per run.
const Emergencies = 4

var phaseNames = [...]string{
	"planning", "readiness",
	"cruise_0", "emergency_1", "cruise_1", "emergency_2", "cruise_2",
	"emergency_3", "cruise_3", "emergency_4", "cruise_4",
	"resolution", "terminal",
}

func (p Phase) String() string {
	if p < Planning || p > Terminal {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, n := range phaseNames {
		if n == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}

// IsCruise reports whether p is one of Cruise0..Cruise4.
func (p Phase) IsCruise() bool {
	return p >= Cruise0 && p <= Cruise4 && (p-Cruise0)%2 == 0
}

// IsEmergency reports whether p is one of Emergency1..Emergency4.
func (p Phase) IsEmergency() bool {
	return p >= Emergency1 && p <= Emergency4 && (p-Cruise0)%2 == 1
}

// Absorbing reports whether p ends the run.
func (p Phase) Absorbing() bool { return p == Resolution || p == Terminal }

// Segment is N for Cruise_N and Emergency_N, -1 otherwise.
func (p Phase) Segment() int {
	switch {
	case p.IsCruise():
		return int(p-Cruise0) / 2
	case p.IsEmergency():
		return int(p-Cruise0+1) / 2
	default:
		return -1
	}
}

func cruisePhase(n int) Phase    { return Cruise0 + Phase(2*n) }
func emergencyPhase(n int) Phase { return Cruise0 + Phase(2*n-1) }
func checkpoint(n int) float64   { return float64(20 * n) }
