package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	apps    map[string]Application
	answers map[string][]Answer
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		apps:    make(map[string]Application),
		answers: make(map[string][]Answer),
	}
}

// Create stores an application.
func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = app
	return nil
}

// GetByID returns an application by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// ListByJob returns all applications for a job, newest first.
func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus sets the application status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	r.apps[id] = app
	return nil
}

// CreateAnswer appends the answer and adds its score to the application total.
func (r *MemoryRepo) CreateAnswer(ctx context.Context, ans Answer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[ans.ApplicationID]
	if !ok {
		return ErrNotFound
	}
	if app.Status == StatusCompleted {
		return ErrCompleted
	}
	r.answers[ans.ApplicationID] = append(r.answers[ans.ApplicationID], ans)
	app.TotalScore += ans.Score
	r.apps[ans.ApplicationID] = app
	return nil
}

// ListAnswers returns all answers for an application in creation order.
func (r *MemoryRepo) ListAnswers(ctx context.Context, applicationID string) ([]Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Answer, len(r.answers[applicationID]))
	copy(out, r.answers[applicationID])
	return out, nil
}

// Complete finalizes the application at most once.
func (r *MemoryRepo) Complete(ctx context.Context, id, personalityProfile, transcript string, completedAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return false, nil
	}
	if app.Status == StatusCompleted {
		return false, nil
	}
	app.Status = StatusCompleted
	app.PersonalityProfile = personalityProfile
	app.InterviewTranscript = transcript
	app.CompletedAt = &completedAt
	r.apps[id] = app
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
