package consultations

import "context"

// Repo defines persistence operations for consultation audit records.
type Repo interface {
	Create(ctx context.Context, consultation Consultation) error
	GetByID(ctx context.Context, consultationID string) (Consultation, error)
	List(ctx context.Context, limit, offset int) ([]Consultation, error)
}
