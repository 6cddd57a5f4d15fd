package council

import "context"

// Evaluator is the sole extension point for adding or replacing a domain.
// Implementations must not mutate shared state and should honor ctx deadlines;
// the engine substitutes a degraded neutral evaluation when an evaluator
// returns an error, panics, or exceeds its time budget.
type Evaluator interface {
	DomainID() string
	Evaluate(ctx context.Context, situation Situation) (DomainEvaluation, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc struct {
	ID string
	Fn func(ctx context.Context, situation Situation) (DomainEvaluation, error)
}

// DomainID returns the registered domain identifier.
func (f EvaluatorFunc) DomainID() string { return f.ID }

// Evaluate delegates to the wrapped function.
func (f EvaluatorFunc) Evaluate(ctx context.Context, situation Situation) (DomainEvaluation, error) {
	return f.Fn(ctx, situation)
}
