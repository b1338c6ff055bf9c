package applications

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for application persistence.
var (
	ErrNotFound  = errors.New("application not found")
	ErrCompleted = errors.New("application already completed")
)

// Repo defines persistence operations for applications and answers.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// CreateAnswer inserts the answer row and adds its score to the
	// application's total in a single transaction. Both writes commit or
	// neither does. Completed applications reject further answers.
	CreateAnswer(ctx context.Context, ans Answer) error
	ListAnswers(ctx context.Context, applicationID string) ([]Answer, error)

	// Complete marks the application completed at most once. It returns
	// false without error when the application was already completed.
	Complete(ctx context.Context, id, personalityProfile, transcript string, completedAt time.Time) (bool, error)
}
