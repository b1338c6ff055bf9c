package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateJob inserts a new job.
func (r *PGRepo) CreateJob(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, organization_id, title, description_html, status, public_slug, created_at, published_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var slug sql.NullString
	if job.PublicSlug != "" {
		slug = sql.NullString{String: job.PublicSlug, Valid: true}
	}
	var publishedAt sql.NullTime
	if job.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *job.PublishedAt, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		job.ID,
		job.OrganizationID,
		job.Title,
		job.DescriptionHTML,
		job.Status,
		slug,
		job.CreatedAt,
		publishedAt,
		job.UpdatedAt,
	)
	return err
}

const jobColumns = `id, organization_id, title, description_html, status, public_slug, created_at, published_at, updated_at`

// GetJob fetches a job by ID.
func (r *PGRepo) GetJob(ctx context.Context, id string) (Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return r.scanJob(r.DB.QueryRowContext(ctx, query, id))
}

// GetJobBySlug fetches a job by its public URL slug.
func (r *PGRepo) GetJobBySlug(ctx context.Context, slug string) (Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE public_slug = $1`
	return r.scanJob(r.DB.QueryRowContext(ctx, query, slug))
}

// ListJobsByOrg lists an organization's jobs, newest first.
func (r *PGRepo) ListJobsByOrg(ctx context.Context, orgID string) ([]Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// UpdateJobStatus sets the job status, stamping published_at on publish.
func (r *PGRepo) UpdateJobStatus(ctx context.Context, id, status string) error {
	if status == StatusPublished {
		const query = `
UPDATE jobs SET status = $1, published_at = COALESCE(published_at, $2), updated_at = $2 WHERE id = $3`
		_, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), id)
		return err
	}
	const query = `UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}

// CreateQuestion inserts a question for a job.
func (r *PGRepo) CreateQuestion(ctx context.Context, q Question) error {
	const query = `
INSERT INTO questions (id, job_id, text, weightage, is_ai_generated, order_index, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		q.ID,
		q.JobID,
		q.Text,
		q.Weightage,
		q.IsAIGenerated,
		q.OrderIndex,
		q.CreatedAt,
	)
	return err
}

// GetQuestion fetches a question by ID.
func (r *PGRepo) GetQuestion(ctx context.Context, id string) (Question, error) {
	const query = `
SELECT id, job_id, text, weightage, is_ai_generated, order_index, created_at
FROM questions
WHERE id = $1`

	var q Question
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&q.ID,
		&q.JobID,
		&q.Text,
		&q.Weightage,
		&q.IsAIGenerated,
		&q.OrderIndex,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrQuestionNotFound
		}
		return Question{}, err
	}
	return q, nil
}

// ListQuestionsByJob lists a job's questions in authoring order.
func (r *PGRepo) ListQuestionsByJob(ctx context.Context, jobID string) ([]Question, error) {
	const query = `
SELECT id, job_id, text, weightage, is_ai_generated, order_index, created_at
FROM questions
WHERE job_id = $1
ORDER BY order_index ASC, created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(
			&q.ID,
			&q.JobID,
			&q.Text,
			&q.Weightage,
			&q.IsAIGenerated,
			&q.OrderIndex,
			&q.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanJob(row rowScanner) (Job, error) {
	var job Job
	var description, slug sql.NullString
	var publishedAt sql.NullTime
	err := row.Scan(
		&job.ID,
		&job.OrganizationID,
		&job.Title,
		&description,
		&job.Status,
		&slug,
		&job.CreatedAt,
		&publishedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	if description.Valid {
		job.DescriptionHTML = description.String
	}
	if slug.Valid {
		job.PublicSlug = slug.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		job.PublishedAt = &t
	}
	return job, nil
}

var _ Repo = (*PGRepo)(nil)
