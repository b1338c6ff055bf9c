package applications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"hireflow-backend/internal/ai"
	"hireflow-backend/internal/candidates"
	"hireflow-backend/internal/email"
	"hireflow-backend/internal/extract"
	"hireflow-backend/internal/jobs"
	"hireflow-backend/internal/shared/metrics"
	"hireflow-backend/internal/shared/storage/object"
	"hireflow-backend/internal/shared/telemetry"
)

// ErrInvalidInput is returned for malformed apply requests.
var ErrInvalidInput = errors.New("invalid input")

// ErrJobNotOpen is returned when applying to a job that is not published.
var ErrJobNotOpen = errors.New("job is not accepting applications")

// Service contains the application lifecycle logic: public apply plus staff
// review operations.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Jobs       jobs.Repo
	Store      object.ObjectStore
	AI         ai.Client
	Email      email.Notifier
}

// ApplyRequest carries a candidate's public application submission.
type ApplyRequest struct {
	JobSlug   string
	FirstName string
	LastName  string
	Email     string
	Phone     string

	CVFileName string
	CVMimeType string
	CV         io.Reader

	IPAddress string
	LocalTime string
	Timezone  string
}

// ApplyResult is returned to the candidate after a successful application.
type ApplyResult struct {
	ApplicationID string
	CandidateID   string
	JobID         string
	JobTitle      string
}

// Apply runs the public application flow: store the CV, create the candidate
// and application rows, analyze the CV against the job description, and send
// the confirmation email. CV analysis and email are best-effort; the
// application itself is the durable outcome.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.Email == "" || req.CV == nil {
		return ApplyResult{}, ErrInvalidInput
	}

	job, err := s.Jobs.GetJobBySlug(ctx, req.JobSlug)
	if err != nil {
		return ApplyResult{}, err
	}
	if job.Status != jobs.StatusPublished {
		return ApplyResult{}, ErrJobNotOpen
	}

	candidateID := uuid.NewString()
	cvKey, _, mimeType, err := s.Store.Save(ctx, candidateID, req.CVFileName, req.CV)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("save cv: %w", err)
	}
	if req.CVMimeType != "" {
		mimeType = req.CVMimeType
	}

	now := time.Now().UTC()
	cand := candidates.Candidate{
		ID:        candidateID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		CVKey:     cvKey,
		CreatedAt: now,
	}
	if err := s.Candidates.Create(ctx, cand); err != nil {
		return ApplyResult{}, fmt.Errorf("create candidate: %w", err)
	}

	totalWeightage, err := s.totalWeightage(ctx, job.ID)
	if err != nil {
		return ApplyResult{}, err
	}

	app := Application{
		ID:             uuid.NewString(),
		CandidateID:    candidateID,
		JobID:          job.ID,
		Status:         StatusInProgress,
		TotalWeightage: totalWeightage,
		IPAddress:      req.IPAddress,
		LocalTime:      req.LocalTime,
		Timezone:       req.Timezone,
		CreatedAt:      now,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return ApplyResult{}, fmt.Errorf("create application: %w", err)
	}

	metrics.IncApplication()
	s.analyzeCV(ctx, cand, job, mimeType, req.CVFileName)

	if err := s.Email.SendApplicationConfirmation(ctx, cand.Email, cand.FirstName, job.Title); err != nil {
		telemetry.Warn("email.send_failed", map[string]any{
			"kind":          "application_confirmation",
			"applicationId": app.ID,
			"error":         err.Error(),
		})
	}

	return ApplyResult{
		ApplicationID: app.ID,
		CandidateID:   candidateID,
		JobID:         job.ID,
		JobTitle:      job.Title,
	}, nil
}

// analyzeCV extracts CV text and scores it against the job description.
// Failures downgrade to the pending-analysis placeholder rather than failing
// the application.
func (s *Service) analyzeCV(ctx context.Context, cand candidates.Candidate, job jobs.Job, mimeType, fileName string) {
	cvText, err := extract.Text(ctx, s.Store, cand.CVKey, mimeType, fileName)
	if err != nil {
		telemetry.Warn("cv.extract_failed", map[string]any{
			"candidateId": cand.ID,
			"error":       err.Error(),
		})
		cvText = ""
	}

	analysis, err := s.AI.AnalyzeCV(ctx, cvText, job.DescriptionHTML)
	if err != nil {
		telemetry.Warn("cv.analyze_failed", map[string]any{
			"candidateId": cand.ID,
			"error":       err.Error(),
		})
		return
	}
	if err := s.Candidates.UpdateAnalysis(ctx, cand.ID, analysis.Summary, analysis.MatchingPercentage); err != nil {
		telemetry.Error("cv.analysis_persist_failed", map[string]any{
			"candidateId": cand.ID,
			"error":       err.Error(),
		})
	}
}

func (s *Service) totalWeightage(ctx context.Context, jobID string) (int, error) {
	questions, err := s.Jobs.ListQuestionsByJob(ctx, jobID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, q := range questions {
		total += q.Weightage
	}
	return total, nil
}

// Detail bundles an application with its candidate and answers for staff
// review.
type Detail struct {
	Application Application
	Candidate   candidates.Candidate
	Answers     []Answer
}

// Get returns the full application detail.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	app, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	cand, err := s.Candidates.GetByID(ctx, app.CandidateID)
	if err != nil {
		return Detail{}, err
	}
	answers, err := s.Repo.ListAnswers(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Application: app, Candidate: cand, Answers: answers}, nil
}

// ListByJob returns the applications for a job.
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	if _, err := s.Jobs.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.Repo.ListByJob(ctx, jobID)
}

// SetStatus applies a staff review decision.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case StatusShortlisted, StatusRejected, StatusPending, StatusInProgress:
	default:
		return ErrInvalidInput
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}
