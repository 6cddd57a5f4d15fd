package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Safety is the protected seat: it alone may emit the safety_block stance,
// which the engine turns into an unconditional veto.
type Safety struct {
	crisisCues []string
	riskCues   []string
}

// NewSafety constructs the safety evaluator.
func NewSafety() *Safety {
	return &Safety{
		crisisCues: []string{
			"kill myself", "end it all", "don't want to live", "better off dead",
			"hurt myself", "self-harm", "overdose",
		},
		riskCues: []string{
			"danger", "unsafe", "threat", "abuse", "violence", "crisis",
			"desperate", "can't cope", "breaking down",
		},
	}
}

// DomainID returns the seat identifier.
func (d *Safety) DomainID() string { return council.DomainSafety }

// Evaluate assesses risk in the situation. Crisis cues or an extreme risk
// signal force a safety block; lesser risk lowers the stance instead.
func (d *Safety) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	crisis := matchCues(situation.UserInput, d.crisisCues)
	risk := matchCues(situation.UserInput, d.riskCues)
	riskSignal := situation.SignalOr("risk_level", 0)

	if len(crisis) > 0 || riskSignal >= 0.8 {
		rationale := "risk level is critical"
		if len(crisis) > 0 {
			rationale = fmt.Sprintf("crisis indicators present (%s); immediate support comes before any other advice", joinCues(crisis))
		}
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceSafetyBlock,
			Confidence: 0.95,
			Urgency:    1.0,
			Rationale:  rationale,
			Action:     "Reach a crisis line or someone you trust right now",
			Alternatives: []string{
				"Contact a local crisis line",
				"Stay with someone you trust until the moment passes",
			},
		}, nil
	}

	switch {
	case len(risk) >= 2 || riskSignal >= 0.6:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceDisagree,
			Confidence: 0.8,
			Urgency:    0.7,
			Rationale:  fmt.Sprintf("elevated risk signals (%s); stabilize before taking on more", describeRisk(risk, riskSignal)),
			Action:     "Pause new commitments until things feel steadier",
		}, nil
	case len(risk) == 1 || riskSignal >= 0.4:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.6,
			Urgency:    0.4,
			Rationale:  "some strain is visible but nothing that blocks acting",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.7,
			Urgency:    0.1,
			Rationale:  "no safety concerns in the current situation",
			Action:     "Keep your usual boundaries while acting",
		}, nil
	}
}

func describeRisk(risk []string, riskSignal float64) string {
	if len(risk) > 0 {
		return joinCues(risk)
	}
	return fmt.Sprintf("risk_level=%.1f", riskSignal)
}
