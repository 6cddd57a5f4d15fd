package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Mind covers cognitive load, focus, and mental clarity.
type Mind struct {
	overloadCues []string
	clarityCues  []string
}

// NewMind constructs the mind evaluator.
func NewMind() *Mind {
	return &Mind{
		overloadCues: []string{
			"overwhelmed", "can't think", "racing thoughts", "scattered",
			"too much", "brain fog", "can't focus", "burnt out", "burned out",
		},
		clarityCues: []string{"clear", "focused", "sharp", "motivated"},
	}
}

// DomainID returns the seat identifier.
func (d *Mind) DomainID() string { return council.DomainMind }

// Evaluate weighs cognitive load against clarity.
func (d *Mind) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	overload := matchCues(situation.UserInput, d.overloadCues)
	clarity := matchCues(situation.UserInput, d.clarityCues)
	stress := situation.SignalOr("stress_level", 0.5)

	load := cueRatio(len(overload), 3)
	if stress > load {
		load = stress
	}

	switch {
	case load >= 0.8:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceStrongAgree,
			Confidence: 0.85,
			Urgency:    0.8,
			Rationale:  fmt.Sprintf("cognitive load is very high (%s)", describeLoad(overload, stress)),
			Action:     "Clear your head with a ten-minute break away from screens",
			Alternatives: []string{
				"Write the noise down and park it",
				"Single-task the next hour",
			},
		}, nil
	case load >= 0.5:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.7,
			Urgency:    0.5,
			Rationale:  fmt.Sprintf("mental strain is building (%s)", describeLoad(overload, stress)),
			Action:     "Clear one small decision off your plate before the big one",
		}, nil
	case len(clarity) > 0 && stress < 0.3:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.75,
			Urgency:    0.2,
			Rationale:  "the mind is clear; a good moment to engage",
			Action:     "Use the clear-headed window for the hardest task",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.5,
			Urgency:    0.3,
			Rationale:  "no strong cognitive signal either way",
		}, nil
	}
}

func describeLoad(overload []string, stress float64) string {
	if len(overload) > 0 {
		return joinCues(overload)
	}
	return fmt.Sprintf("stress_level=%.1f", stress)
}
