package candidates

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new candidate.
func (r *PGRepo) Create(ctx context.Context, cand Candidate) error {
	const query = `
INSERT INTO candidates (id, first_name, last_name, email, phone, cv_key, cv_summary, matching_percentage, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var cvKey sql.NullString
	if cand.CVKey != "" {
		cvKey = sql.NullString{String: cand.CVKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		cand.ID,
		cand.FirstName,
		cand.LastName,
		cand.Email,
		cand.Phone,
		cvKey,
		cand.CVSummary,
		cand.MatchingPercentage,
		cand.CreatedAt,
	)
	return err
}

// GetByID fetches a candidate by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, first_name, last_name, email, phone, cv_key, cv_summary, matching_percentage, created_at
FROM candidates
WHERE id = $1`

	var cand Candidate
	var phone, cvKey, cvSummary sql.NullString
	var matching sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&cand.ID,
		&cand.FirstName,
		&cand.LastName,
		&cand.Email,
		&phone,
		&cvKey,
		&cvSummary,
		&matching,
		&cand.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	if phone.Valid {
		cand.Phone = phone.String
	}
	if cvKey.Valid {
		cand.CVKey = cvKey.String
	}
	if cvSummary.Valid {
		cand.CVSummary = cvSummary.String
	}
	if matching.Valid {
		cand.MatchingPercentage = matching.Float64
	}
	return cand, nil
}

// UpdateAnalysis stores the CV summary and matching percentage.
func (r *PGRepo) UpdateAnalysis(ctx context.Context, id, summary string, matchingPercentage float64) error {
	const query = `
UPDATE candidates
SET cv_summary = $1, matching_percentage = $2
WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, summary, matchingPercentage, id)
	return err
}

var _ Repo = (*PGRepo)(nil)
