package council

import (
	"context"
	"fmt"

	"council-backend/internal/shared/telemetry"
)

// Council is the public entry point: it wires registry, consensus engine, and
// synthesizer for one request. It never lets an internal fault escape; any
// unexpected failure degrades to a conflict report stating the limitation.
type Council struct {
	registry    *Registry
	engine      *Engine
	synthesizer *Synthesizer
	settings    Settings
}

// New constructs a Council around the given registry and settings.
func New(registry *Registry, settings Settings) *Council {
	return &Council{
		registry:    registry,
		engine:      NewEngine(settings),
		synthesizer: NewSynthesizer(settings),
		settings:    settings,
	}
}

// Registry exposes the council's evaluator registry for administrative use.
func (c *Council) Registry() *Registry { return c.registry }

// Settings returns the immutable settings the council was built with.
func (c *Council) Settings() Settings { return c.settings }

// Result bundles everything produced for one request: the per-domain
// evaluations, the consensus outcome, and the final response.
type Result struct {
	Situation   Situation
	Evaluations map[string]DomainEvaluation
	Outcome     ConsensusOutcome
	Response    RecommendationResponse
}

// GetRecommendation runs one full council round for the situation. The error
// return is reserved for request cancellation; every other failure is
// converted into a conflict-report response.
func (c *Council) GetRecommendation(ctx context.Context, situation Situation) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("council.internal_fault", map[string]any{
				"situation_id": situation.ID,
				"error":        fmt.Sprint(rec),
			})
			result = Result{Situation: situation, Response: limitationResponse()}
			err = nil
		}
	}()

	snap := c.registry.Snapshot()
	if snap.Len() == 0 {
		return Result{Situation: situation, Response: limitationResponse()}, nil
	}

	evaluations, collectErr := c.engine.Collect(ctx, situation, snap)
	if collectErr != nil {
		return Result{}, collectErr
	}

	outcome := c.engine.Aggregate(evaluations, snap)
	response := c.synthesizer.Synthesize(outcome, evaluations, snap, situation)

	return Result{
		Situation:   situation,
		Evaluations: evaluations,
		Outcome:     outcome,
		Response:    response,
	}, nil
}

// limitationResponse admits the system could not complete evaluation instead
// of propagating a fault to the caller.
func limitationResponse() RecommendationResponse {
	return RecommendationResponse{
		Classification: ClassificationContested,
		ConflictReport: &ConflictReport{
			Summary:    "The council could not complete its evaluation of this situation.",
			Rationales: map[string]string{},
		},
	}
}
