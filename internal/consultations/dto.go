package consultations

import (
	"math"

	"council-backend/internal/council"
)

// ConsultRequest is the request body for starting a consultation.
type ConsultRequest struct {
	UserInput string                      `json:"userInput"`
	Signals   map[string]SignalValueInput `json:"signals"`
}

// SignalValueInput accepts a numeric or label signal value.
type SignalValueInput struct {
	Number *float64 `json:"number,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// FieldIssue points a validation message at a request field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Validate checks the request and returns per-field issues.
func (r ConsultRequest) Validate() []FieldIssue {
	var issues []FieldIssue
	if r.UserInput == "" {
		issues = append(issues, FieldIssue{Field: "userInput", Issue: "required"})
	}
	for name, v := range r.Signals {
		if name == "" {
			issues = append(issues, FieldIssue{Field: "signals", Issue: "signal names must be non-empty"})
			continue
		}
		if v.Number == nil && v.Label == "" {
			issues = append(issues, FieldIssue{Field: "signals." + name, Issue: "number or label is required"})
		}
		if v.Number != nil && (math.IsNaN(*v.Number) || math.IsInf(*v.Number, 0)) {
			issues = append(issues, FieldIssue{Field: "signals." + name, Issue: "number must be finite"})
		}
	}
	return issues
}

// CouncilSignals converts request signals into the council's signal type.
func (r ConsultRequest) CouncilSignals() map[string]council.SignalValue {
	if len(r.Signals) == 0 {
		return nil
	}
	signals := make(map[string]council.SignalValue, len(r.Signals))
	for name, v := range r.Signals {
		signals[name] = council.SignalValue{Number: v.Number, Label: v.Label}
	}
	return signals
}
