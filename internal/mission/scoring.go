package mission

import (
	"missionops-sim/internal/config"
	"missionops-sim/internal/theme"
)

// Base penalty constants, scaled once by the difficulty multiplier.
const (
	wrongSafetyPenalty     = 15
	wrongAccuracyPenalty   = 20
	wrongResourcePenalty   = 15
	correctResourceCost    = 5
	timeoutSafetyPenalty   = 20
	timeoutAccuracyPenalty = 25
	timeoutResourcePenalty = 10

	cruiseStep        = 1.0
	cruiseBurnFactor  = 0.3
	resolutionAdvance = 5.0

	strikeLimit = 2
	safetyFloor = 20
	redBand     = 10
	yellowBand  = 30
)

// ApplyChoiceOutcome scores a manual answer.
func ApplyChoiceOutcome(s RunState, correct bool, d config.DifficultySettings) RunState {
	if correct {
		s.Resource = clamp(s.Resource - correctResourceCost)
		s.Risk = riskFor(s.Resource, false)
		return s
	}
	m := d.PenaltyMultiplier
	s.WrongAnswerCount++
	s.SafetyScore = clamp(s.SafetyScore - wrongSafetyPenalty*m)
	s.DecisionAccuracy = clamp(s.DecisionAccuracy - wrongAccuracyPenalty*m)
	s.Resource = clamp(s.Resource - wrongResourcePenalty*m)
	s.Risk = riskFor(s.Resource, true)
	return s
}

// ApplyTimeout scores an expired decision timer as a harsher wrong answer.
func ApplyTimeout(s RunState, d config.DifficultySettings) RunState {
	m := d.PenaltyMultiplier
	s.WrongAnswerCount++
	s.SafetyScore = clamp(s.SafetyScore - timeoutSafetyPenalty*m)
	s.DecisionAccuracy = clamp(s.DecisionAccuracy - timeoutAccuracyPenalty*m)
	s.Resource = clamp(s.Resource - timeoutResourcePenalty)
	s.Risk = RiskRed
	return s
}

// BurnResource applies one cruise tick of progress and resource burn.
func BurnResource(s RunState, d config.DifficultySettings) RunState {
	s.Progress = clamp(s.Progress + cruiseStep)
	s.Resource = clamp(s.Resource - cruiseBurnFactor*d.ResourceBurnRate)
	s.Risk = riskFor(s.Resource, false)
	return s
}

// EvaluateTermination returns the outcome the state forces, or nil to
// continue. penalised marks evaluations right after a penalty, the only time
// the safety floor applies.
func EvaluateTermination(s RunState, penalised bool, f theme.Failure) *Outcome {
	switch {
	case s.WrongAnswerCount >= strikeLimit:
		return &Outcome{Cause: CauseMultipleErrors, Reason: f.MultipleErrors}
	case s.Resource <= 0:
		return &Outcome{Cause: CauseResourceExhausted, Reason: f.ResourceOut}
	case penalised && s.SafetyScore <= safetyFloor:
		return &Outcome{Cause: CauseCriticalSafety, Reason: f.CriticalSafety}
	case s.EmergenciesResolved >= Emergencies && s.Progress >= 100:
		return &Outcome{Success: true, Cause: CauseCompleted, Reason: f.SuccessMessage}
	}
	return nil
}

func riskFor(resource float64, penalised bool) RiskLevel {
	switch {
	case resource <= redBand:
		return RiskRed
	case resource <= yellowBand || penalised:
		return RiskYellow
	default:
		return RiskGreen
	}
}

func clamp(v float64) float64 {
	return min(max(v, 0), 100)
}
