package mission

import "missionops-sim/internal/theme"

// DetentAngle is the control-surface setting a toggle snaps to.
const DetentAngle = 10.0

// Checklist is the eight-item readiness gate before cruise.
type Checklist struct {
	Power             bool    `json:"power"`
	Reactor           bool    `json:"reactor"`
	Sensors           bool    `json:"sensors"`
	Pumps             bool    `json:"pumps"`
	Lights            bool    `json:"lights"`
	WarningSign       bool    `json:"warning_sign"`
	ControlSurfaceDeg float64 `json:"control_surface_deg"`
	BrakeEngaged      bool    `json:"brake_engaged"`
}

// NewChecklist returns a cold vehicle with the brake or anchor set.
func NewChecklist() Checklist {
	return Checklist{BrakeEngaged: true}
}

// Toggle flips one item. The control surface snaps between 0 and DetentAngle.
// It reports false for unknown keys.
func (c *Checklist) Toggle(key theme.ChecklistKey) bool {
	switch key {
	case theme.ItemPower:
		c.Power = !c.Power
	case theme.ItemReactor:
		c.Reactor = !c.Reactor
	case theme.ItemSensors:
		c.Sensors = !c.Sensors
	case theme.ItemPumps:
		c.Pumps = !c.Pumps
	case theme.ItemLights:
		c.Lights = !c.Lights
	case theme.ItemWarningSign:
		c.WarningSign = !c.WarningSign
	case theme.ItemControlSurface:
		if c.ControlSurfaceDeg >= DetentAngle {
			c.ControlSurfaceDeg = 0
		} else {
			c.ControlSurfaceDeg = DetentAngle
		}
	case theme.ItemBrake:
		c.BrakeEngaged = !c.BrakeEngaged
	default:
		return false
	}
	return true
}

// Done reports whether a single item is satisfied.
func (c Checklist) Done(key theme.ChecklistKey) bool {
	switch key {
	case theme.ItemPower:
		return c.Power
	case theme.ItemReactor:
		return c.Reactor
	case theme.ItemSensors:
		return c.Sensors
	case theme.ItemPumps:
		return c.Pumps
	case theme.ItemLights:
		return c.Lights
	case theme.ItemWarningSign:
		return c.WarningSign
	case theme.ItemControlSurface:
		return c.ControlSurfaceDeg >= DetentAngle
	case theme.ItemBrake:
		return !c.BrakeEngaged
	}
	return false
}

// Complete is the AND of all eight items.
func (c Checklist) Complete() bool {
	for _, k := range theme.ChecklistKeys() {
		if !c.Done(k) {
			return false
		}
	}
	return true
}
