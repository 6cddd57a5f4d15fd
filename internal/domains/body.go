package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Body covers physical state: energy, pain, movement.
type Body struct {
	strainCues   []string
	vitalityCues []string
}

// NewBody constructs the body evaluator.
func NewBody() *Body {
	return &Body{
		strainCues: []string{
			"exhausted", "aching", "sore", "sick", "headache", "tense",
			"pain", "drained", "shaky",
		},
		vitalityCues: []string{"energized", "rested", "strong", "fresh"},
	}
}

// DomainID returns the seat identifier.
func (d *Body) DomainID() string { return council.DomainBody }

// Evaluate reads physical strain against available energy.
func (d *Body) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	strain := matchCues(situation.UserInput, d.strainCues)
	vitality := matchCues(situation.UserInput, d.vitalityCues)
	energy := situation.SignalOr("energy_level", 0.5)
	pain := situation.SignalOr("pain_level", 0)

	switch {
	case pain >= 0.7 || (energy <= 0.2 && len(strain) > 0):
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceStrongDisagree,
			Confidence: 0.85,
			Urgency:    0.8,
			Rationale:  fmt.Sprintf("the body is depleted (%s); pushing further risks making it worse", describeStrain(strain, energy, pain)),
			Action:     "Stop and let the body recover before anything demanding",
		}, nil
	case energy <= 0.35 || len(strain) >= 2:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceDisagree,
			Confidence: 0.75,
			Urgency:    0.6,
			Rationale:  fmt.Sprintf("physical reserves are low (%s)", describeStrain(strain, energy, pain)),
			Action:     "Stretch for five minutes and reassess",
		}, nil
	case energy >= 0.7 || len(vitality) > 0:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.7,
			Urgency:    0.3,
			Rationale:  "physical energy supports acting now",
			Action:     "Move on it while the energy is there",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.5,
			Urgency:    0.3,
			Rationale:  "physical state is unremarkable",
		}, nil
	}
}

func describeStrain(strain []string, energy, pain float64) string {
	if len(strain) > 0 {
		return joinCues(strain)
	}
	return fmt.Sprintf("energy_level=%.1f pain_level=%.1f", energy, pain)
}
