package orgs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const orgColumns = `id, name, email, first_name, last_name, phone, logo_path, slug, status, created_at, updated_at`

// Create inserts a new organization.
func (r *PGRepo) Create(ctx context.Context, org Organization) error {
	const query = `
INSERT INTO organizations (id, name, email, first_name, last_name, phone, logo_path, slug, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var logo sql.NullString
	if org.LogoKey != "" {
		logo = sql.NullString{String: org.LogoKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		org.ID,
		org.Name,
		org.Email,
		org.FirstName,
		org.LastName,
		org.Phone,
		logo,
		org.Slug,
		org.Status,
		org.CreatedAt,
		org.UpdatedAt,
	)
	return err
}

// GetByID fetches an organization by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	const query = `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return scanOrg(r.DB.QueryRowContext(ctx, query, id))
}

// GetBySlug fetches an active organization by slug.
func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Organization, error) {
	const query = `SELECT ` + orgColumns + ` FROM organizations WHERE slug = $1 AND status = 'active'`
	return scanOrg(r.DB.QueryRowContext(ctx, query, slug))
}

// List returns all organizations, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Organization, error) {
	const query = `SELECT ` + orgColumns + ` FROM organizations ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrg(row rowScanner) (Organization, error) {
	var org Organization
	var firstName, lastName, phone, logo sql.NullString
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Email,
		&firstName,
		&lastName,
		&phone,
		&logo,
		&org.Slug,
		&org.Status,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, err
	}
	if firstName.Valid {
		org.FirstName = firstName.String
	}
	if lastName.Valid {
		org.LastName = lastName.String
	}
	if phone.Valid {
		org.Phone = phone.String
	}
	if logo.Valid {
		org.LogoKey = logo.String
	}
	return org, nil
}

var _ Repo = (*PGRepo)(nil)
