package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hireflow-backend/internal/ai"
)

// ErrInvalidInput is returned for malformed create/update requests.
var ErrInvalidInput = errors.New("invalid input")

// Service contains business logic for jobs and questions.
type Service struct {
	Repo Repo
	AI   ai.Client
}

// CreateJobRequest carries the fields for a new job posting.
type CreateJobRequest struct {
	OrganizationID  string
	Title           string
	DescriptionHTML string
}

// CreateJob creates a draft job with a URL-safe public slug.
func (s *Service) CreateJob(ctx context.Context, req CreateJobRequest) (Job, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.OrganizationID) == "" {
		return Job{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	job := Job{
		ID:              uuid.NewString(),
		OrganizationID:  req.OrganizationID,
		Title:           req.Title,
		DescriptionHTML: req.DescriptionHTML,
		Status:          StatusDraft,
		PublicSlug:      slugify(req.Title) + "-" + shortID(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateJob(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Publish moves a job to the published state.
func (s *Service) Publish(ctx context.Context, jobID string) error {
	if _, err := s.Repo.GetJob(ctx, jobID); err != nil {
		return err
	}
	return s.Repo.UpdateJobStatus(ctx, jobID, StatusPublished)
}

// AddQuestionRequest carries the fields for a manually authored question.
type AddQuestionRequest struct {
	JobID      string
	Text       string
	Weightage  int
	OrderIndex int
}

// AddQuestion appends a question to a job.
func (s *Service) AddQuestion(ctx context.Context, req AddQuestionRequest) (Question, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Question{}, ErrInvalidInput
	}
	if _, err := s.Repo.GetJob(ctx, req.JobID); err != nil {
		return Question{}, err
	}
	weightage := req.Weightage
	if weightage <= 0 {
		weightage = 10
	}

	q := Question{
		ID:         uuid.NewString(),
		JobID:      req.JobID,
		Text:       req.Text,
		Weightage:  weightage,
		OrderIndex: req.OrderIndex,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.CreateQuestion(ctx, q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// GenerateQuestions asks the AI provider for questions based on the job
// description and persists them. The provider client degrades to a generic
// set on failure, so this never leaves a job without questions.
func (s *Service) GenerateQuestions(ctx context.Context, jobID string) ([]Question, error) {
	job, err := s.Repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.AI.GenerateQuestions(ctx, job.DescriptionHTML)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	existing, err := s.Repo.ListQuestionsByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	nextIndex := len(existing)

	out := make([]Question, 0, len(drafts))
	for i, draft := range drafts {
		q := Question{
			ID:            uuid.NewString(),
			JobID:         jobID,
			Text:          draft.Text,
			Weightage:     draft.Weightage,
			IsAIGenerated: true,
			OrderIndex:    nextIndex + i,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.Repo.CreateQuestion(ctx, q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// Questions lists a job's questions in authoring order.
func (s *Service) Questions(ctx context.Context, jobID string) ([]Question, error) {
	return s.Repo.ListQuestionsByJob(ctx, jobID)
}

// TotalWeightage sums the weightages of a job's current question set.
func (s *Service) TotalWeightage(ctx context.Context, jobID string) (int, error) {
	questions, err := s.Repo.ListQuestionsByJob(ctx, jobID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, q := range questions {
		total += q.Weightage
	}
	return total, nil
}

func slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingDash = true
		}
	}
	return b.String()
}

func shortID() string {
	return uuid.NewString()[:8]
}
