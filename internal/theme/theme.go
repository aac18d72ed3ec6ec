// Package theme holds the vocabulary tables that re-skin a mission as a
// submarine dive or an airline flight. The state machine is generic over these.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTheme is returned by Lookup for ids outside the registry.
var ErrUnknownTheme = errors.New("unknown theme")

// Port is one end of a route.
type Port struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Route is one selectable mission route.
type Route struct {
	Departure        Port    `json:"departure"`
	Destination      Port    `json:"destination"`
	Alternate        Port    `json:"alternate"`
	DistanceNM       float64 `json:"distance_nm"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	ResourceRequired float64 `json:"resource_required"`
}

// Code identifies a route as "DEP-DST".
func (r Route) Code() string {
	return r.Departure.Code + "-" + r.Destination.Code
}

// ChecklistKey names one readiness item.
type ChecklistKey string

const (
	ItemPower          ChecklistKey = "power"
	ItemReactor        ChecklistKey = "reactor"
	ItemSensors        ChecklistKey = "sensors"
	ItemPumps          ChecklistKey = "pumps"
	ItemLights         ChecklistKey = "lights"
	ItemWarningSign    ChecklistKey = "warning_sign"
	ItemControlSurface ChecklistKey = "control_surface"
	ItemBrake          ChecklistKey = "brake"
)

// ChecklistKeys lists readiness items in display order.
func ChecklistKeys() []ChecklistKey {
	return []ChecklistKey{
		ItemPower, ItemReactor, ItemSensors, ItemPumps,
		ItemLights, ItemWarningSign, ItemControlSurface, ItemBrake,
	}
}

// SafetyCheck names one of the four planning safety flags.
type SafetyCheck string

const (
	CheckEnvironment SafetyCheck = "environment"
	CheckCrew        SafetyCheck = "crew"
	CheckSupplies    SafetyCheck = "supplies"
	CheckDocuments   SafetyCheck = "documents"
)

// SafetyChecks lists the planning flags in display order.
func SafetyChecks() []SafetyCheck {
	return []SafetyCheck{CheckEnvironment, CheckCrew, CheckSupplies, CheckDocuments}
}

// Gauge describes the cosmetic vertical instrument of a theme.
type Gauge struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Cruise   float64 `json:"cruise"`
	MaxSpeed float64 `json:"max_speed"`
}

// Failure texts shown when a run ends in the terminal phase.
type Failure struct {
	MultipleErrors string
	ResourceOut    string
	CriticalSafety string
	TimeoutMessage string
	SuccessMessage string
}

// Advisories are the co-pilot lines raised while the readiness checklist
// changes. An empty text disables that advisory.
type Advisories struct {
	PowerOnline    string
	SensorsActive  string
	PumpsRunning   string
	WarningSignOff string
}

// Theme is the terminology table for one vehicle skin.
type Theme struct {
	ID             string
	Vehicle        string
	Mission        string
	ResourceName   string
	SubPhases      [5]string
	Checklist      map[ChecklistKey]string
	SafetyLabels   map[SafetyCheck]string
	ControlSurface string
	Gauge          Gauge
	Routes         []Route
	Failure        Failure
	Advisories     Advisories
}

// ControlSurfaceCommand is the one-word console verb for the control
// surface, e.g. "planes" or "flaps".
func (t Theme) ControlSurfaceCommand() string {
	f := strings.Fields(t.ControlSurface)
	if len(f) == 0 {
		return "surface"
	}
	return f[len(f)-1]
}

// Route looks up a route by its "DEP-DST" code.
func (t Theme) Route(code string) (Route, bool) {
	for _, r := range t.Routes {
		if r.Code() == code {
			return r, true
		}
	}
	return Route{}, false
}

var registry = map[string]Theme{
	Submarine.ID: Submarine,
	Aircraft.ID:  Aircraft,
}

// Lookup returns the theme registered under id.
func Lookup(id string) (Theme, error) {
	t, ok := registry[id]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	return t, nil
}

// IDs lists registered theme ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
