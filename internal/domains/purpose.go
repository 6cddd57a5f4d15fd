package domains

import (
	"context"
	"fmt"

	"council-backend/internal/council"
)

// Purpose covers meaning, direction, and momentum toward goals.
type Purpose struct {
	driftCues []string
	driveCues []string
}

// NewPurpose constructs the purpose evaluator.
func NewPurpose() *Purpose {
	return &Purpose{
		driftCues: []string{
			"pointless", "meaningless", "why bother", "stuck", "aimless",
			"going nowhere", "what's the point",
		},
		driveCues: []string{"goal", "deadline", "project", "dream", "mission", "matters to me"},
	}
}

// DomainID returns the seat identifier.
func (d *Purpose) DomainID() string { return council.DomainPurpose }

// Evaluate weighs drift against drive and deadline pressure.
func (d *Purpose) Evaluate(ctx context.Context, situation council.Situation) (council.DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return council.DomainEvaluation{}, err
	}

	drift := matchCues(situation.UserInput, d.driftCues)
	drive := matchCues(situation.UserInput, d.driveCues)
	deadline := situation.SignalOr("deadline_proximity", 0)

	switch {
	case len(drift) >= 1 && deadline < 0.5:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.7,
			Urgency:    0.5,
			Rationale:  fmt.Sprintf("sense of direction is slipping (%s); one small meaningful step restores momentum", joinCues(drift)),
			Action:     "Pick one small step that connects to what matters to you",
		}, nil
	case deadline >= 0.7 || len(drive) >= 2:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceStrongAgree,
			Confidence: 0.8,
			Urgency:    0.8,
			Rationale:  fmt.Sprintf("a meaningful commitment is close (%s)", describeDrive(drive, deadline)),
			Action:     "Pick the single task that moves the goal and start it",
		}, nil
	case len(drive) == 1:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceAgree,
			Confidence: 0.65,
			Urgency:    0.4,
			Rationale:  fmt.Sprintf("there is live purpose in this (%s)", joinCues(drive)),
			Action:     "Pick the next concrete step toward it",
		}, nil
	default:
		return council.DomainEvaluation{
			DomainID:   d.DomainID(),
			Stance:     council.StanceNeutral,
			Confidence: 0.5,
			Urgency:    0.2,
			Rationale:  "purpose is neither pulling nor blocked here",
		}, nil
	}
}

func describeDrive(drive []string, deadline float64) string {
	if len(drive) > 0 {
		return joinCues(drive)
	}
	return fmt.Sprintf("deadline_proximity=%.1f", deadline)
}
