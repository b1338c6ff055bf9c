package orgs

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an organization does not exist.
var ErrNotFound = errors.New("organization not found")

// Repo defines persistence operations for organizations.
type Repo interface {
	Create(ctx context.Context, org Organization) error
	GetByID(ctx context.Context, id string) (Organization, error)
	GetBySlug(ctx context.Context, slug string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
}
