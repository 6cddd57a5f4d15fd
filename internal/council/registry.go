package council

import (
	"fmt"
	"sync"
)

// Registry maps domain identifiers to evaluators and their consensus weights.
// Reads take an immutable snapshot; weight updates swap in a new snapshot so
// requests already in flight keep the view they started with.
type Registry struct {
	mu   sync.RWMutex
	snap *RegistrySnapshot
}

// RegistrySnapshot is a read-only view of the registry at one point in time.
// Domain order is registration order and is the tiebreak order everywhere
// results must be deterministic.
type RegistrySnapshot struct {
	order      []string
	evaluators map[string]Evaluator
	weights    map[string]float64
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{snap: &RegistrySnapshot{
		evaluators: make(map[string]Evaluator),
		weights:    make(map[string]float64),
	}}
}

// Register adds an evaluator under its domain id with the given weight.
// Registering the same domain twice is an error.
func (r *Registry) Register(evaluator Evaluator, weight float64) error {
	if evaluator == nil {
		return fmt.Errorf("evaluator is nil")
	}
	id := evaluator.DomainID()
	if id == "" {
		return fmt.Errorf("evaluator has empty domain id")
	}
	if weight < 0 {
		return fmt.Errorf("weight for %q must be non-negative, got %v", id, weight)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.snap.evaluators[id]; exists {
		return fmt.Errorf("domain %q already registered", id)
	}
	next := r.snap.clone()
	next.order = append(next.order, id)
	next.evaluators[id] = evaluator
	next.weights[id] = weight
	r.snap = next
	return nil
}

// SetWeight updates a domain's consensus weight. The change is visible only
// to requests that snapshot the registry afterwards.
func (r *Registry) SetWeight(domainID string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("weight for %q must be non-negative, got %v", domainID, weight)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.snap.evaluators[domainID]; !exists {
		return fmt.Errorf("domain %q not registered", domainID)
	}
	next := r.snap.clone()
	next.weights[domainID] = weight
	r.snap = next
	return nil
}

// Snapshot returns the current immutable registry view.
func (r *Registry) Snapshot() *RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (s *RegistrySnapshot) clone() *RegistrySnapshot {
	next := &RegistrySnapshot{
		order:      append([]string(nil), s.order...),
		evaluators: make(map[string]Evaluator, len(s.evaluators)+1),
		weights:    make(map[string]float64, len(s.weights)+1),
	}
	for k, v := range s.evaluators {
		next.evaluators[k] = v
	}
	for k, v := range s.weights {
		next.weights[k] = v
	}
	return next
}

// Domains returns domain ids in registration order.
func (s *RegistrySnapshot) Domains() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of registered domains.
func (s *RegistrySnapshot) Len() int { return len(s.order) }

// Evaluator returns the evaluator registered under the given domain id.
func (s *RegistrySnapshot) Evaluator(domainID string) (Evaluator, bool) {
	e, ok := s.evaluators[domainID]
	return e, ok
}

// Weight returns the consensus weight for a domain, defaulting to 1.0.
func (s *RegistrySnapshot) Weight(domainID string) float64 {
	if w, ok := s.weights[domainID]; ok {
		return w
	}
	return 1.0
}
