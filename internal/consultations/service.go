package consultations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"council-backend/internal/council"
	"council-backend/internal/shared/metrics"
	"council-backend/internal/shared/telemetry"
	"council-backend/internal/shared/util"
)

// Service runs council rounds and records them for later review.
type Service struct {
	Repo    Repo
	Council *council.Council
}

// Consult runs one council round for the given input and signal snapshot.
// The audit write is best-effort: a failing repo never withholds the
// council's response from the caller.
func (s *Service) Consult(ctx context.Context, userInput string, signals map[string]council.SignalValue) (Consultation, error) {
	if s.Council == nil {
		return Consultation{}, errors.New("council is not configured")
	}

	metrics.IncConsultationStarted()
	start := time.Now()

	situation := council.NewSituation(userInput, signals)
	result, err := s.Council.GetRecommendation(ctx, situation)
	if err != nil {
		return Consultation{}, err
	}

	responseJSON, err := json.Marshal(result.Response)
	if err != nil {
		return Consultation{}, err
	}

	consultation := Consultation{
		ID:             situation.ID,
		UserInput:      userInput,
		Signals:        situation.Signals,
		SnapshotHash:   snapshotHash(userInput, situation.Signals),
		Classification: result.Response.Classification,
		Vetoed:         result.Outcome.Vetoed,
		WeightedScore:  result.Outcome.WeightedScore,
		Response:       responseJSON,
		CreatedAt:      time.Now().UTC(),
	}

	if s.Repo != nil {
		if err := s.Repo.Create(ctx, consultation); err != nil {
			telemetry.Error("consultation.audit_failed", map[string]any{
				"consultation_id": consultation.ID,
				"error":           err.Error(),
			})
		}
	}

	metrics.IncConsultationCompleted()
	switch consultation.Classification {
	case council.ClassificationBlocked:
		metrics.IncConsultationBlocked()
	case council.ClassificationContested:
		metrics.IncConsultationContested()
	}
	metrics.ObserveConsultationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	telemetry.Info("consultation.complete", map[string]any{
		"consultation_id": consultation.ID,
		"classification":  string(consultation.Classification),
		"vetoed":          consultation.Vetoed,
		"weighted_score":  consultation.WeightedScore,
	})

	return consultation, nil
}

// Get returns a stored consultation by ID.
func (s *Service) Get(ctx context.Context, consultationID string) (Consultation, error) {
	if s.Repo == nil {
		return Consultation{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, consultationID)
}

// List returns stored consultations newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Consultation, error) {
	if s.Repo == nil {
		return []Consultation{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}

func snapshotHash(userInput string, signals map[string]council.SignalValue) string {
	raw := make(map[string]json.RawMessage, len(signals))
	for k, v := range signals {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		raw[k] = data
	}
	return util.HashSnapshot(userInput, raw)
}
