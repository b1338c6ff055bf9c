package applications

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

const appColumns = `id, candidate_id, job_id, status, total_score, total_weightage, personality_profile, interview_transcript, ip_address, local_time, timezone, created_at, completed_at`

// Create inserts a new application.
func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, job_id, status, total_score, total_weightage, ip_address, local_time, timezone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		app.ID,
		app.CandidateID,
		app.JobID,
		app.Status,
		app.TotalScore,
		app.TotalWeightage,
		app.IPAddress,
		app.LocalTime,
		app.Timezone,
		app.CreatedAt,
	)
	return err
}

// GetByID fetches an application by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	const query = `SELECT ` + appColumns + ` FROM applications WHERE id = $1`
	return scanApp(r.DB.QueryRowContext(ctx, query, id))
}

// ListByJob returns all applications for a job, newest first.
func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	const query = `SELECT ` + appColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// UpdateStatus sets the application status.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE applications SET status = $1 WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAnswer inserts the answer and bumps the application total in one
// transaction. The score update is guarded so a finalized application cannot
// accumulate further points.
func (r *PGRepo) CreateAnswer(ctx context.Context, ans Answer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertQuery = `
INSERT INTO answers (id, application_id, question_id, answer_text, audio_path, score, weightage, duration, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var audio sql.NullString
	if ans.AudioKey != "" {
		audio = sql.NullString{String: ans.AudioKey, Valid: true}
	}

	if _, err := tx.ExecContext(
		ctx,
		insertQuery,
		ans.ID,
		ans.ApplicationID,
		ans.QuestionID,
		ans.AnswerText,
		audio,
		ans.Score,
		ans.Weightage,
		ans.Duration,
		ans.CreatedAt,
	); err != nil {
		return err
	}

	const updateQuery = `UPDATE applications SET total_score = total_score + $1 WHERE id = $2 AND status <> 'completed'`

	res, err := tx.ExecContext(ctx, updateQuery, ans.Score, ans.ApplicationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCompleted
	}

	return tx.Commit()
}

// ListAnswers returns all answers for an application in creation order.
func (r *PGRepo) ListAnswers(ctx context.Context, applicationID string) ([]Answer, error) {
	const query = `
SELECT id, application_id, question_id, answer_text, audio_path, score, weightage, duration, created_at
FROM answers
WHERE application_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		var ans Answer
		var audio sql.NullString
		if err := rows.Scan(
			&ans.ID,
			&ans.ApplicationID,
			&ans.QuestionID,
			&ans.AnswerText,
			&audio,
			&ans.Score,
			&ans.Weightage,
			&ans.Duration,
			&ans.CreatedAt,
		); err != nil {
			return nil, err
		}
		if audio.Valid {
			ans.AudioKey = audio.String
		}
		out = append(out, ans)
	}
	return out, rows.Err()
}

// Complete finalizes the application at most once. The status guard makes a
// second finalization a no-op rather than overwriting the first result.
func (r *PGRepo) Complete(ctx context.Context, id, personalityProfile, transcript string, completedAt time.Time) (bool, error) {
	const query = `
UPDATE applications
SET status = 'completed', personality_profile = $1, interview_transcript = $2, completed_at = $3
WHERE id = $4 AND status <> 'completed'`

	res, err := r.DB.ExecContext(ctx, query, personalityProfile, transcript, completedAt, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanApp(row interface{ Scan(dest ...any) error }) (Application, error) {
	var app Application
	var profile, transcript, ip, localTime, tz sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&app.ID,
		&app.CandidateID,
		&app.JobID,
		&app.Status,
		&app.TotalScore,
		&app.TotalWeightage,
		&profile,
		&transcript,
		&ip,
		&localTime,
		&tz,
		&app.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if profile.Valid {
		app.PersonalityProfile = profile.String
	}
	if transcript.Valid {
		app.InterviewTranscript = transcript.String
	}
	if ip.Valid {
		app.IPAddress = ip.String
	}
	if localTime.Valid {
		app.LocalTime = localTime.String
	}
	if tz.Valid {
		app.Timezone = tz.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		app.CompletedAt = &t
	}
	return app, nil
}

var _ Repo = (*PGRepo)(nil)
