package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Belong covers social connection and support.
type Belong struct {
	isolationCues  []string
	connectionCues []string
}

// NewBelong constructs the belong evaluator.
func NewBelong() *Belong {
	return &Belong{
		isolationCues: []string{
			"alone", "lonely", "isolated", "no one", "nobody", "by myself",
			"cut off", "left out",
		},
		connectionCues: []string{"friend", "family", "partner", "together", "with people"},
	}
}

// DomainID returns the seat identifier.
func (d *Belong) DomainID() string { return council.DomainBelong }

// Evaluate checks whether the situation calls for connection over solitude.
func (d *Belong) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	isolation := matchCues(situation.UserInput, d.isolationCues)
	connection := matchCues(situation.UserInput, d.connectionCues)
	socialContact := situation.SignalOr("social_contact", 0.5)

	switch {
	case len(isolation) >= 2 || socialContact <= 0.2:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.8,
			Urgency:    0.7,
			Rationale:  fmt.Sprintf("isolation is weighing on this (%s); contact would help more than solitude", describeIsolation(isolation, socialContact)),
			Action:     "Reach out to one person you trust today",
			Alternatives: []string{
				"Send one message instead of a call if that is easier",
			},
		}, nil
	case len(isolation) == 1 || socialContact <= 0.4:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.65,
			Urgency:    0.4,
			Rationale:  fmt.Sprintf("social contact is thinner than usual (%s)", describeIsolation(isolation, socialContact)),
			Action:     "Reach out briefly while handling the rest",
		}, nil
	case len(connection) > 0:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.6,
			Urgency:    0.2,
			Rationale:  "support is already present in the situation",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.5,
			Urgency:    0.2,
			Rationale:  "no strong social signal either way",
		}, nil
	}
}

func describeIsolation(isolation []string, socialContact float64) string {
	if len(isolation) > 0 {
		return joinCues(isolation)
	}
	return fmt.Sprintf("social_contact=%.1f", socialContact)
}
