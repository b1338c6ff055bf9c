package orgs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Organization
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Organization)}
}

// Create stores an organization.
func (r *MemoryRepo) Create(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[org.ID] = org
	return nil
}

// GetByID returns an organization by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.data[id]
	if !ok {
		return Organization{}, ErrNotFound
	}
	return org, nil
}

// GetBySlug returns an active organization by slug.
func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, org := range r.data {
		if org.Slug == slug && org.Status == StatusActive {
			return org, nil
		}
	}
	return Organization{}, ErrNotFound
}

// List returns all organizations, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Organization, 0, len(r.data))
	for _, org := range r.data {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
