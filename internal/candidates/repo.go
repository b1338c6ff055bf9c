package candidates

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a candidate does not exist.
var ErrNotFound = errors.New("candidate not found")

// Repo defines persistence operations for candidates.
type Repo interface {
	Create(ctx context.Context, cand Candidate) error
	GetByID(ctx context.Context, id string) (Candidate, error)
	UpdateAnalysis(ctx context.Context, id, summary string, matchingPercentage float64) error
}
