package council

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"council-backend/internal/shared/telemetry"
)

// Engine runs the consensus protocol: fan out all registered evaluators,
// join, and aggregate their evaluations into a classified outcome.
type Engine struct {
	Settings Settings
}

// NewEngine constructs an Engine with the given settings.
func NewEngine(settings Settings) *Engine {
	return &Engine{Settings: settings}
}

// Collect invokes every registered evaluator concurrently and returns exactly
// one evaluation per domain. A failing, panicking, or timed-out evaluator is
// replaced by a degraded neutral evaluation; the mapping is never partial.
// The only error Collect returns is cancellation of the request itself.
func (e *Engine) Collect(ctx context.Context, situation Situation, snap *RegistrySnapshot) (map[string]DomainEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := snap.Domains()
	results := make([]DomainEvaluation, len(order))
	done := make(chan struct{})

	go func() {
		defer close(done)
		var pending int
		slotDone := make(chan struct{}, len(order))
		for i, domainID := range order {
			evaluator, ok := snap.Evaluator(domainID)
			if !ok {
				results[i] = degradedEvaluation(domainID, "evaluator not registered")
				continue
			}
			pending++
			go func(i int, domainID string, evaluator Evaluator) {
				defer func() { slotDone <- struct{}{} }()
				results[i] = e.runEvaluator(ctx, situation, domainID, evaluator)
			}(i, domainID, evaluator)
		}
		for ; pending > 0; pending-- {
			<-slotDone
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Partial results are discarded for cancelled requests.
		return nil, ctx.Err()
	}

	evaluations := make(map[string]DomainEvaluation, len(order))
	for i, domainID := range order {
		evaluations[domainID] = e.sanitize(results[i])
	}
	return evaluations, nil
}

func (e *Engine) runEvaluator(ctx context.Context, situation Situation, domainID string, evaluator Evaluator) (out DomainEvaluation) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("council.evaluator_panic", map[string]any{
				"domain": domainID,
				"error":  fmt.Sprint(rec),
			})
			out = degradedEvaluation(domainID, "evaluator panicked")
		}
	}()

	timeout := e.Settings.EvaluatorTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		eval DomainEvaluation
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		eval, err := evaluator.Evaluate(evalCtx, situation)
		ch <- result{eval: eval, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			telemetry.Error("council.evaluator_failed", map[string]any{
				"domain": domainID,
				"error":  res.err.Error(),
			})
			return degradedEvaluation(domainID, "evaluator failed")
		}
		res.eval.DomainID = domainID
		return res.eval
	case <-evalCtx.Done():
		return degradedEvaluation(domainID, "evaluator timed out")
	}
}

// sanitize enforces the evaluation contract at the aggregation boundary
// rather than trusting evaluator discipline. A safety_block from any domain
// other than safety is a veto violation and is coerced to neutral.
func (e *Engine) sanitize(eval DomainEvaluation) DomainEvaluation {
	if eval.Stance == StanceSafetyBlock && eval.DomainID != DomainSafety {
		telemetry.Error("council.veto_violation", map[string]any{
			"domain": eval.DomainID,
			"stance": string(eval.Stance),
		})
		eval.Stance = StanceNeutral
	}
	if !eval.Stance.Valid() {
		eval.Stance = StanceNeutral
	}
	eval.Confidence = clampUnit(eval.Confidence)
	eval.Urgency = clampUnit(eval.Urgency)
	if strings.TrimSpace(eval.Rationale) == "" {
		eval.Rationale = "no rationale provided"
	}
	return eval
}

// Aggregate folds the evaluations into a single ConsensusOutcome. Domain
// iteration, dissent ordering, and tie-breaks all follow registration order
// so identical inputs always produce the identical outcome.
func (e *Engine) Aggregate(evaluations map[string]DomainEvaluation, snap *RegistrySnapshot) ConsensusOutcome {
	order := snap.Domains()

	agreement := make(map[string]Stance, len(order))
	vetoed := false
	var sum, totalWeight float64
	for _, domainID := range order {
		eval, ok := evaluations[domainID]
		if !ok {
			eval = degradedEvaluation(domainID, "evaluation missing")
		}
		agreement[domainID] = eval.Stance
		if eval.Stance == StanceSafetyBlock {
			vetoed = true
			continue
		}
		weight := snap.Weight(domainID)
		sum += e.Settings.StanceValue(eval.Stance) * eval.Confidence * weight
		totalWeight += weight
	}

	var score float64
	if totalWeight > 0 {
		score = sum / totalWeight
	}

	dissenting := dissentingDomains(order, evaluations, e.Settings, score)

	classification := ClassificationContested
	switch {
	case vetoed:
		classification = ClassificationBlocked
	case math.Abs(score) >= e.Settings.HighThreshold && len(dissenting) < 2:
		classification = ClassificationConsensus
	case math.Abs(score) >= e.Settings.LowThreshold:
		classification = ClassificationMajority
	}

	return ConsensusOutcome{
		WeightedScore:  score,
		Classification: classification,
		Vetoed:         vetoed,
		Dissenting:     dissenting,
		Agreement:      agreement,
		Reasoning:      e.aggregateReasoning(order, evaluations, vetoed),
	}
}

// tensionPairs are domain pairings whose disagreement carries a known
// interpretation worth naming in the outcome.
var tensionPairs = []struct {
	a, b      string
	narrative string
}{
	{DomainMind, DomainBody, "mental and physical needs are at odds"},
	{DomainRest, DomainPurpose, "recovery and ambition are pulling in opposite directions"},
	{DomainFuel, DomainBody, "nutrition and physical state disagree on readiness"},
}

// tensionNarratives names the pairwise conflicts present in this round, in
// the fixed pair order.
func tensionNarratives(evaluations map[string]DomainEvaluation, settings Settings) []string {
	var out []string
	for _, pair := range tensionPairs {
		a, okA := evaluations[pair.a]
		b, okB := evaluations[pair.b]
		if !okA || !okB {
			continue
		}
		va := settings.StanceValue(a.Stance)
		vb := settings.StanceValue(b.Stance)
		if va != 0 && vb != 0 && va*vb < 0 {
			out = append(out, pair.narrative)
		}
	}
	return out
}

// dissentingDomains lists domains whose stance sign opposes the sign of the
// weighted score, in registration order. A zero score counts as positive so
// the split is still deterministic.
func dissentingDomains(order []string, evaluations map[string]DomainEvaluation, settings Settings, score float64) []string {
	majoritySign := 1.0
	if score < 0 {
		majoritySign = -1.0
	}
	dissenting := make([]string, 0, len(order))
	for _, domainID := range order {
		eval, ok := evaluations[domainID]
		if !ok || eval.Stance == StanceSafetyBlock {
			continue
		}
		value := settings.StanceValue(eval.Stance)
		if value != 0 && value*majoritySign < 0 {
			dissenting = append(dissenting, domainID)
		}
	}
	return dissenting
}

func (e *Engine) aggregateReasoning(order []string, evaluations map[string]DomainEvaluation, vetoed bool) string {
	var agree, disagree, neutral int
	for _, domainID := range order {
		switch evaluations[domainID].Stance {
		case StanceStrongAgree, StanceAgree:
			agree++
		case StanceDisagree, StanceStrongDisagree:
			disagree++
		case StanceNeutral:
			neutral++
		}
	}
	parts := make([]string, 0, 4)
	if vetoed {
		parts = append(parts, "safety hold in effect")
	}
	if agree > 0 {
		parts = append(parts, fmt.Sprintf("%d in favor", agree))
	}
	if disagree > 0 {
		parts = append(parts, fmt.Sprintf("%d against", disagree))
	}
	if neutral > 0 {
		parts = append(parts, fmt.Sprintf("%d neutral", neutral))
	}
	if len(parts) == 0 {
		return "council returned no stances"
	}
	reasoning := "council stances: " + strings.Join(parts, ", ")
	if tensions := tensionNarratives(evaluations, e.Settings); len(tensions) > 0 {
		reasoning += "; " + strings.Join(tensions, "; ")
	}
	return reasoning
}

func degradedEvaluation(domainID, reason string) DomainEvaluation {
	return DomainEvaluation{
		DomainID:   domainID,
		Stance:     StanceNeutral,
		Confidence: 0,
		Urgency:    0,
		Rationale:  fmt.Sprintf("%s domain unavailable: %s", domainID, reason),
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
