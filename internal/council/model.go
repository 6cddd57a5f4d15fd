package council

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Domain identifiers for the seven council seats, in registration order.
const (
	DomainMind    = "mind"
	DomainBody    = "body"
	DomainFuel    = "fuel"
	DomainRest    = "rest"
	DomainBelong  = "belong"
	DomainSafety  = "safety"
	DomainPurpose = "purpose"
)

// Stance is a domain's categorical position on the situation under review.
type Stance string

const (
	StanceStrongAgree    Stance = "strong_agree"
	StanceAgree          Stance = "agree"
	StanceNeutral        Stance = "neutral"
	StanceDisagree       Stance = "disagree"
	StanceStrongDisagree Stance = "strong_disagree"
	// StanceSafetyBlock is reserved for the safety domain. The engine coerces
	// it to neutral for any other domain.
	StanceSafetyBlock Stance = "safety_block"
)

// Valid reports whether the stance is one of the known values.
func (s Stance) Valid() bool {
	switch s {
	case StanceStrongAgree, StanceAgree, StanceNeutral,
		StanceDisagree, StanceStrongDisagree, StanceSafetyBlock:
		return true
	}
	return false
}

// Classification is the aggregate outcome of one consensus round.
type Classification string

const (
	ClassificationConsensus Classification = "consensus"
	ClassificationMajority  Classification = "majority_agreement"
	ClassificationContested Classification = "contested"
	ClassificationBlocked   Classification = "blocked"
)

// SignalValue holds one named signal from the situation snapshot. A signal is
// either numeric or categorical, never both.
type SignalValue struct {
	Number *float64 `json:"number,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// NumberSignal builds a numeric signal value.
func NumberSignal(v float64) SignalValue {
	return SignalValue{Number: &v}
}

// LabelSignal builds a categorical signal value.
func LabelSignal(label string) SignalValue {
	return SignalValue{Label: label}
}

// Situation is the immutable input to one council request.
type Situation struct {
	ID        string                 `json:"id"`
	UserInput string                 `json:"user_input"`
	Signals   map[string]SignalValue `json:"signals"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewSituation builds a request-scoped situation with a fresh identifier. The
// signal map is copied so later mutation by the caller cannot leak in.
func NewSituation(userInput string, signals map[string]SignalValue) Situation {
	copied := make(map[string]SignalValue, len(signals))
	for k, v := range signals {
		copied[k] = v
	}
	return Situation{
		ID:        uuid.NewString(),
		UserInput: userInput,
		Signals:   copied,
		CreatedAt: time.Now().UTC(),
	}
}

// Signal returns the numeric value of a named signal.
func (s Situation) Signal(name string) (float64, bool) {
	v, ok := s.Signals[name]
	if !ok || v.Number == nil {
		return 0, false
	}
	return *v.Number, true
}

// SignalOr returns the numeric value of a named signal or the given default.
func (s Situation) SignalOr(name string, def float64) float64 {
	if v, ok := s.Signal(name); ok {
		return v
	}
	return def
}

// Label returns the categorical value of a named signal.
func (s Situation) Label(name string) (string, bool) {
	v, ok := s.Signals[name]
	if !ok || v.Label == "" {
		return "", false
	}
	return v.Label, true
}

// DomainEvaluation is the atomic output of one domain for one request.
type DomainEvaluation struct {
	DomainID     string   `json:"domain_id"`
	Stance       Stance   `json:"stance"`
	Confidence   float64  `json:"confidence"`
	Urgency      float64  `json:"urgency"`
	Rationale    string   `json:"rationale"`
	Action       string   `json:"action,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Validate checks the evaluation contract: known stance, well-formed reals,
// non-empty rationale, and safety_block restricted to the safety domain.
func (e DomainEvaluation) Validate() error {
	if e.DomainID == "" {
		return errors.New("domain id is required")
	}
	if !e.Stance.Valid() {
		return fmt.Errorf("unknown stance %q", e.Stance)
	}
	if e.Stance == StanceSafetyBlock && e.DomainID != DomainSafety {
		return fmt.Errorf("domain %q may not emit safety_block", e.DomainID)
	}
	if math.IsNaN(e.Confidence) || e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", e.Confidence)
	}
	if math.IsNaN(e.Urgency) || e.Urgency < 0 || e.Urgency > 1 {
		return fmt.Errorf("urgency %v out of range", e.Urgency)
	}
	if e.Rationale == "" {
		return errors.New("rationale must not be empty")
	}
	return nil
}

// ConsensusOutcome aggregates all domain evaluations for one request.
type ConsensusOutcome struct {
	WeightedScore  float64           `json:"weighted_score"`
	Classification Classification    `json:"classification"`
	Vetoed         bool              `json:"vetoed"`
	Dissenting     []string          `json:"dissenting"`
	Agreement      map[string]Stance `json:"agreement"`
	Reasoning      string            `json:"reasoning"`
}

// Option is one actionable alternative offered to the user. Options are
// alternatives, never a ranking; order is deterministic but carries no
// preference.
type Option struct {
	Text    string   `json:"text"`
	Verb    string   `json:"verb"`
	Domains []string `json:"domains"`
}

// ConflictReport discloses why no actionable consensus was reached.
type ConflictReport struct {
	Summary    string            `json:"summary"`
	Rationales map[string]string `json:"rationales"`
}

// RecommendationResponse is the council's final answer. Exactly one of
// Options and ConflictReport is populated.
type RecommendationResponse struct {
	Classification Classification  `json:"classification"`
	Options        []Option        `json:"options,omitempty"`
	ConflictReport *ConflictReport `json:"conflict_report,omitempty"`
}
