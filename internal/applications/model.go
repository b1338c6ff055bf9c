package applications

import "time"

// Application statuses. Shortlisted and rejected are applied out-of-band by
// staff after completion.
const (
	StatusPending     = "pending"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
)

// Application is one candidate's run at one job.
type Application struct {
	ID                  string
	CandidateID         string
	JobID               string
	Status              string
	TotalScore          float64
	TotalWeightage      int
	PersonalityProfile  string
	InterviewTranscript string
	IPAddress           string
	LocalTime           string
	Timezone            string
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// Answer is one scored response, created exactly once per question per
// application, including skipped questions. Weightage is copied from the
// question at answer time so later edits don't change the scoring basis.
type Answer struct {
	ID            string
	ApplicationID string
	QuestionID    string
	AnswerText    string
	AudioKey      string
	Score         float64
	Weightage     int
	Duration      float64
	CreatedAt     time.Time
}
