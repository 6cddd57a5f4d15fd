package consultations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"council-backend/internal/council"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a consultation record.
func (r *PGRepo) Create(ctx context.Context, consultation Consultation) error {
	signals, err := json.Marshal(consultation.Signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	const query = `
INSERT INTO consultations (
    id, user_input, signals, snapshot_hash, classification, vetoed, weighted_score, response, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		consultation.ID,
		consultation.UserInput,
		signals,
		consultation.SnapshotHash,
		string(consultation.Classification),
		consultation.Vetoed,
		consultation.WeightedScore,
		[]byte(consultation.Response),
		consultation.CreatedAt,
	)
	return err
}

// GetByID returns a consultation by ID.
func (r *PGRepo) GetByID(ctx context.Context, consultationID string) (Consultation, error) {
	const query = `
SELECT id, user_input, signals, snapshot_hash, classification, vetoed, weighted_score, response, created_at
FROM consultations
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, consultationID)
	consultation, err := scanConsultation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Consultation{}, ErrNotFound
		}
		return Consultation{}, err
	}
	return consultation, nil
}

// List returns consultations newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Consultation, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_input, signals, snapshot_hash, classification, vetoed, weighted_score, response, created_at
FROM consultations
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Consultation, 0, limit)
	for rows.Next() {
		consultation, err := scanConsultation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, consultation)
	}
	return out, rows.Err()
}

func scanConsultation(scan func(dest ...any) error) (Consultation, error) {
	var (
		consultation   Consultation
		signals        []byte
		classification string
		response       []byte
	)
	if err := scan(
		&consultation.ID,
		&consultation.UserInput,
		&signals,
		&consultation.SnapshotHash,
		&classification,
		&consultation.Vetoed,
		&consultation.WeightedScore,
		&response,
		&consultation.CreatedAt,
	); err != nil {
		return Consultation{}, err
	}
	if len(signals) > 0 {
		if err := json.Unmarshal(signals, &consultation.Signals); err != nil {
			return Consultation{}, fmt.Errorf("unmarshal signals: %w", err)
		}
	}
	consultation.Classification = council.Classification(classification)
	consultation.Response = json.RawMessage(response)
	return consultation, nil
}
