package jobs

import "time"

// Job statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusEnded     = "ended"
)

// Job is a posted position owned by an organization.
type Job struct {
	ID              string
	OrganizationID  string
	Title           string
	DescriptionHTML string
	Status          string
	PublicSlug      string
	CreatedAt       time.Time
	PublishedAt     *time.Time
	UpdatedAt       time.Time
}

// Question is a pre-screening question authored for a job. OrderIndex is the
// authoring order; the interview itself randomizes presentation order.
type Question struct {
	ID            string
	JobID         string
	Text          string
	Weightage     int
	IsAIGenerated bool
	OrderIndex    int
	CreatedAt     time.Time
}
