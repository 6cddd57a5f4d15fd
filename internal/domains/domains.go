// Package domains provides the reference evaluators for the seven council
// seats. Each evaluator derives its stance from named snapshot signals and
// keyword cues in the user input; the heuristics are deliberately simple and
// may be swapped per deployment through the registry.
package domains

import (
	"fmt"
	"strings"

	"council-backend/internal/council"
)

// All returns one evaluator per council seat in registration order.
func All() []council.Evaluator {
	return []council.Evaluator{
		NewMind(),
		NewBody(),
		NewFuel(),
		NewRest(),
		NewBelong(),
		NewSafety(),
		NewPurpose(),
	}
}

// RegisterAll registers the reference evaluators with weights taken from the
// settings.
func RegisterAll(registry *council.Registry, settings council.Settings) error {
	for _, evaluator := range All() {
		if err := registry.Register(evaluator, settings.Weight(evaluator.DomainID())); err != nil {
			return fmt.Errorf("register %s: %w", evaluator.DomainID(), err)
		}
	}
	return nil
}

// matchCues returns the cue words found in the input, in cue-list order so
// rationales built from them stay deterministic.
func matchCues(input string, cues []string) []string {
	lowered := strings.ToLower(input)
	var found []string
	for _, cue := range cues {
		if strings.Contains(lowered, cue) {
			found = append(found, cue)
		}
	}
	return found
}

// cueRatio maps a match count onto [0,1] against an expected maximum.
func cueRatio(matches, max int) float64 {
	if max <= 0 {
		return 0
	}
	r := float64(matches) / float64(max)
	if r > 1 {
		return 1
	}
	return r
}

func joinCues(cues []string) string {
	return strings.Join(cues, ", ")
}
