package candidates

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Candidate)}
}

// Create stores a candidate.
func (r *MemoryRepo) Create(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[cand.ID] = cand
	return nil
}

// GetByID returns a candidate by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cand, ok := r.data[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return cand, nil
}

// UpdateAnalysis stores the CV summary and matching percentage.
func (r *MemoryRepo) UpdateAnalysis(ctx context.Context, id, summary string, matchingPercentage float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cand, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	cand.CVSummary = summary
	cand.MatchingPercentage = matchingPercentage
	r.data[id] = cand
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
