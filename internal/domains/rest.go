package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Rest covers sleep and recovery.
type Rest struct {
	fatigueCues []string
}

// NewRest constructs the rest evaluator.
func NewRest() *Rest {
	return &Rest{
		fatigueCues: []string{
			"tired", "exhausted", "sleepy", "all-nighter", "barely slept",
			"no sleep", "up all night", "can't keep my eyes open",
		},
	}
}

// DomainID returns the seat identifier.
func (d *Rest) DomainID() string { return council.DomainRest }

// Evaluate weighs sleep debt against the demand in front of the person.
func (d *Rest) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	fatigue := matchCues(situation.UserInput, d.fatigueCues)
	sleepDebt := situation.SignalOr("sleep_debt", 0)

	switch {
	case sleepDebt >= 0.7 || len(fatigue) >= 2:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceStrongDisagree,
			Confidence: 0.9,
			Urgency:    0.9,
			Rationale:  fmt.Sprintf("serious sleep debt (%s); recovery has to come first", describeFatigue(fatigue, sleepDebt)),
			Action:     "Sleep before committing to anything else",
			Alternatives: []string{
				"Take a twenty-minute nap now",
				"Move the decision to tomorrow morning",
			},
		}, nil
	case sleepDebt >= 0.4 || len(fatigue) == 1:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceDisagree,
			Confidence: 0.7,
			Urgency:    0.6,
			Rationale:  fmt.Sprintf("noticeable fatigue (%s)", describeFatigue(fatigue, sleepDebt)),
			Action:     "Rest briefly before anything demanding",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.65,
			Urgency:    0.2,
			Rationale:  "recovery levels support acting now",
			Action:     "Go ahead while you are rested",
		}, nil
	}
}

func describeFatigue(fatigue []string, sleepDebt float64) string {
	if len(fatigue) > 0 {
		return joinCues(fatigue)
	}
	return fmt.Sprintf("sleep_debt=%.1f", sleepDebt)
}
