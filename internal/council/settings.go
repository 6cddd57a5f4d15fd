package council

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the tunable consensus configuration. Values are read once at
// construction; administrative changes produce a new Settings value rather
// than mutating a shared one.
type Settings struct {
	Weights          map[string]float64 `yaml:"weights"`
	HighThreshold    float64            `yaml:"high_threshold"`
	LowThreshold     float64            `yaml:"low_threshold"`
	StanceScale      map[Stance]float64 `yaml:"stance_scale"`
	EvaluatorTimeout time.Duration      `yaml:"evaluator_timeout"`
	MaxOptions       int                `yaml:"max_options"`
}

// DefaultSettings returns equal weights and the standard symmetric scale.
func DefaultSettings() Settings {
	return Settings{
		Weights: map[string]float64{
			DomainMind:    1.0,
			DomainBody:    1.0,
			DomainFuel:    1.0,
			DomainRest:    1.0,
			DomainBelong:  1.0,
			DomainSafety:  1.0,
			DomainPurpose: 1.0,
		},
		HighThreshold: 1.2,
		LowThreshold:  0.4,
		StanceScale: map[Stance]float64{
			StanceStrongAgree:    2,
			StanceAgree:          1,
			StanceNeutral:        0,
			StanceDisagree:       -1,
			StanceStrongDisagree: -2,
		},
		EvaluatorTimeout: 2 * time.Second,
		MaxOptions:       4,
	}
}

// LoadSettings reads a YAML settings file and overlays it on the defaults.
// Missing fields keep their default values.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings that would make aggregation meaningless.
func (s Settings) Validate() error {
	if s.HighThreshold <= 0 || s.LowThreshold <= 0 {
		return fmt.Errorf("thresholds must be positive (high=%v low=%v)", s.HighThreshold, s.LowThreshold)
	}
	if s.LowThreshold > s.HighThreshold {
		return fmt.Errorf("low_threshold %v exceeds high_threshold %v", s.LowThreshold, s.HighThreshold)
	}
	if s.MaxOptions < 1 {
		return fmt.Errorf("max_options must be at least 1, got %d", s.MaxOptions)
	}
	if s.EvaluatorTimeout <= 0 {
		return fmt.Errorf("evaluator_timeout must be positive, got %v", s.EvaluatorTimeout)
	}
	for domain, w := range s.Weights {
		if math.IsNaN(w) || w < 0 {
			return fmt.Errorf("weight for %q must be a non-negative number, got %v", domain, w)
		}
	}
	for stance, v := range s.StanceScale {
		if !stance.Valid() || stance == StanceSafetyBlock {
			return fmt.Errorf("stance_scale contains invalid stance %q", stance)
		}
		if math.IsNaN(v) {
			return fmt.Errorf("stance_scale value for %q is NaN", stance)
		}
	}
	return nil
}

// Weight returns the consensus weight for a domain, defaulting to 1.0.
func (s Settings) Weight(domainID string) float64 {
	if w, ok := s.Weights[domainID]; ok {
		return w
	}
	return 1.0
}

// StanceValue maps a stance onto the configured signed scale. safety_block
// carries no numeric value; it is handled by the veto channel.
func (s Settings) StanceValue(stance Stance) float64 {
	if v, ok := s.StanceScale[stance]; ok {
		return v
	}
	return 0
}
