package orgs

import "time"

// Organization statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Organization is a tenant that posts jobs and reviews applications.
type Organization struct {
	ID        string
	Name      string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	LogoKey   string
	Slug      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
