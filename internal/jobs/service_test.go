package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hireflow-backend/internal/ai"
)

func newService() *Service {
	return &Service{
		Repo: NewMemoryRepo(),
		AI:   ai.FallbackClient{Inner: ai.PlaceholderClient{}},
	}
}

func TestCreateJobGeneratesSlug(t *testing.T) {
	svc := newService()

	job, err := svc.CreateJob(context.Background(), CreateJobRequest{
		OrganizationID:  "org-1",
		Title:           "Senior Go Engineer",
		DescriptionHTML: "<p>Go, Postgres, AWS</p>",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.Status != StatusDraft {
		t.Fatalf("expected draft status, got %s", job.Status)
	}
	if !strings.HasPrefix(job.PublicSlug, "senior-go-engineer-") {
		t.Fatalf("unexpected slug: %q", job.PublicSlug)
	}
	if len(job.PublicSlug) <= len("senior-go-engineer-") {
		t.Fatal("expected random suffix on slug")
	}
}

func TestCreateJobValidatesInput(t *testing.T) {
	svc := newService()

	if _, err := svc.CreateJob(context.Background(), CreateJobRequest{Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, CreateJobRequest{OrganizationID: "org-1", Title: "Engineer"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := svc.Publish(ctx, job.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := svc.Repo.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != StatusPublished {
		t.Fatalf("expected published, got %s", got.Status)
	}

	if err := svc.Publish(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddQuestionDefaultsWeightage(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, CreateJobRequest{OrganizationID: "org-1", Title: "Engineer"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	q, err := svc.AddQuestion(ctx, AddQuestionRequest{JobID: job.ID, Text: "Why us?"})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if q.Weightage != 10 {
		t.Fatalf("expected default weightage 10, got %d", q.Weightage)
	}
	if q.IsAIGenerated {
		t.Fatal("manual question must not be flagged as AI generated")
	}
}

func TestGenerateQuestionsPersistsFallbackSet(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, CreateJobRequest{OrganizationID: "org-1", Title: "Engineer", DescriptionHTML: "desc"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := svc.AddQuestion(ctx, AddQuestionRequest{JobID: job.ID, Text: "Manual question"}); err != nil {
		t.Fatalf("add question: %v", err)
	}

	generated, err := svc.GenerateQuestions(ctx, job.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(generated) != 3 {
		t.Fatalf("expected 3 fallback questions, got %d", len(generated))
	}
	for i, q := range generated {
		if !q.IsAIGenerated {
			t.Fatal("generated question must be flagged as AI generated")
		}
		if q.OrderIndex != i+1 {
			t.Fatalf("expected order to continue after manual question, got %d", q.OrderIndex)
		}
	}

	all, err := svc.Questions(ctx, job.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 persisted questions, got %d", len(all))
	}
}

func TestTotalWeightage(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, CreateJobRequest{OrganizationID: "org-1", Title: "Engineer"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	for _, w := range []int{15, 10, 5} {
		if _, err := svc.AddQuestion(ctx, AddQuestionRequest{JobID: job.ID, Text: "q", Weightage: w}); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	total, err := svc.TotalWeightage(ctx, job.ID)
	if err != nil {
		t.Fatalf("total weightage: %v", err)
	}
	if total != 30 {
		t.Fatalf("expected 30, got %d", total)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Senior Go Engineer":  "senior-go-engineer",
		"  C++ / Rust Dev  ":  "c-rust-dev",
		"Data_Scientist (ML)": "data-scientist-ml",
		"Engineer":            "engineer",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
