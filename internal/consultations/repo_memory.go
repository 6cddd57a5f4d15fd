package consultations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores consultations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Consultation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Consultation)}
}

// Create stores the consultation.
func (r *MemoryRepo) Create(ctx context.Context, consultation Consultation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[consultation.ID] = consultation
	return nil
}

// GetByID returns a consultation by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, consultationID string) (Consultation, error) {
	if err := ctx.Err(); err != nil {
		return Consultation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	consultation, ok := r.byID[consultationID]
	if !ok {
		return Consultation{}, ErrNotFound
	}
	return consultation, nil
}

// List returns consultations newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Consultation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	all := make([]Consultation, 0, len(r.byID))
	for _, c := range r.byID {
		all = append(all, c)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return []Consultation{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
