package jobs

import (
	"context"
	"errors"
)

// Sentinel errors for job lookups.
var (
	ErrNotFound         = errors.New("job not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// Repo defines persistence operations for jobs and their questions.
type Repo interface {
	CreateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	GetJobBySlug(ctx context.Context, slug string) (Job, error)
	ListJobsByOrg(ctx context.Context, orgID string) ([]Job, error)
	UpdateJobStatus(ctx context.Context, id, status string) error

	CreateQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestionsByJob(ctx context.Context, jobID string) ([]Question, error)
}
