package mission

import (
	"errors"
	"fmt"

	"missionops-sim/internal/theme"
)

// ErrInvalidPlan wraps the reason a plan is not accepted.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan is the data gathered during the planning phase.
type Plan struct {
	RouteCode         string                     `json:"route_code"`
	SafetyChecks      map[theme.SafetyCheck]bool `json:"safety_checks"`
	ResourceConfirmed bool                       `json:"resource_confirmed"`
}

// CompletePlan returns a plan for route with every check ticked.
func CompletePlan(route string) Plan {
	p := Plan{RouteCode: route, SafetyChecks: map[theme.SafetyCheck]bool{}, ResourceConfirmed: true}
	for _, c := range theme.SafetyChecks() {
		p.SafetyChecks[c] = true
	}
	return p
}

// Check validates the plan structurally against the theme's route table.
func (p Plan) Check(t theme.Theme) error {
	if p.RouteCode == "" {
		return fmt.Errorf("%w: no route selected", ErrInvalidPlan)
	}
	if _, ok := t.Route(p.RouteCode); !ok {
		return fmt.Errorf("%w: unknown route %q", ErrInvalidPlan, p.RouteCode)
	}
	for _, c := range theme.SafetyChecks() {
		if !p.SafetyChecks[c] {
			return fmt.Errorf("%w: %s not completed", ErrInvalidPlan, t.SafetyLabels[c])
		}
	}
	if !p.ResourceConfirmed {
		return fmt.Errorf("%w: %s calculation not confirmed", ErrInvalidPlan, t.ResourceName)
	}
	return nil
}
