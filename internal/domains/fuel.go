package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Fuel covers nutrition and immediate resources.
type Fuel struct {
	depletionCues []string
}

// NewFuel constructs the fuel evaluator.
func NewFuel() *Fuel {
	return &Fuel{
		depletionCues: []string{
			"hungry", "haven't eaten", "skipped lunch", "skipped breakfast",
			"no food", "starving", "only coffee", "dehydrated",
		},
	}
}

// DomainID returns the seat identifier.
func (d *Fuel) DomainID() string { return council.DomainFuel }

// Evaluate checks whether the person is running on empty.
func (d *Fuel) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	depletion := matchCues(situation.UserInput, d.depletionCues)
	mealsSkipped := situation.SignalOr("meals_skipped", 0)
	hydration := situation.SignalOr("hydration", 0.7)

	switch {
	case mealsSkipped >= 2 || len(depletion) >= 2:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceDisagree,
			Confidence: 0.8,
			Urgency:    0.7,
			Rationale:  fmt.Sprintf("running on empty (%s); decisions made hungry tend to be worse", describeFuel(depletion, mealsSkipped)),
			Action:     "Eat something substantial before deciding anything",
		}, nil
	case mealsSkipped >= 1 || len(depletion) == 1 || hydration < 0.4:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.65,
			Urgency:    0.5,
			Rationale:  fmt.Sprintf("fuel is a bit low (%s)", describeFuel(depletion, mealsSkipped)),
			Action:     "Eat a snack and drink water alongside whatever you do",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.6,
			Urgency:    0.1,
			Rationale:  "nutrition and resources look adequate",
			Action:     "Carry on; fuel is not a limiting factor",
		}, nil
	}
}

func describeFuel(depletion []string, mealsSkipped float64) string {
	if len(depletion) > 0 {
		return joinCues(depletion)
	}
	return fmt.Sprintf("meals_skipped=%.0f", mealsSkipped)
}
