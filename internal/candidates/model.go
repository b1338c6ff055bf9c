package candidates

import "time"

// Candidate is a person who applied to at least one job.
type Candidate struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	CVKey              string
	CVSummary          string
	MatchingPercentage float64
	CreatedAt          time.Time
}
