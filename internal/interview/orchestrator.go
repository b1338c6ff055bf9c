// Package interview drives the real-time voice interview: it hands out
// questions one at a time over a socket connection, scores each answer as it
// arrives, and finalizes the application when the last question is done.
package interview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"hireflow-backend/internal/ai"
	"hireflow-backend/internal/applications"
	"hireflow-backend/internal/audio"
	"hireflow-backend/internal/candidates"
	"hireflow-backend/internal/email"
	"hireflow-backend/internal/jobs"
	"hireflow-backend/internal/shared/metrics"
	"hireflow-backend/internal/shared/telemetry"
)

// Candidate-visible error messages sent on the error event.
const (
	msgApplicationIDRequired = "Application ID required"
	msgApplicationNotFound   = "Application not found"
	msgNoQuestions           = "No questions found for this job"
	msgNoActiveSession       = "No active session"
	msgQuestionMismatch      = "Question mismatch"
	msgAlreadyCompleted      = "Interview already completed"
	msgSpeechFailed          = "Speech generation failed"
	msgInternal              = "Internal server error"
)

const skippedAnswerText = "Answer skipped by Candidate"

const completionMessage = "Thank you for completing the interview! Our team will review your application and reach out if we move forward together."

// Emitter sends one named event to the connected candidate.
type Emitter interface {
	Emit(event string, data any) error
}

// Submission is one answer_submitted payload.
type Submission struct {
	QuestionID string
	AnswerText string
	AudioData  string
	Duration   float64
}

type questionPayload struct {
	QuestionID     string `json:"question_id"`
	Text           string `json:"text"`
	Weightage      int    `json:"weightage"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
}

type speechPayload struct {
	AudioData string `json:"audio_data"`
}

type transcriptPayload struct {
	QuestionID string `json:"question_id"`
	Transcript string `json:"transcript"`
}

type completePayload struct {
	ApplicationID  string  `json:"application_id"`
	Message        string  `json:"message"`
	TotalScore     float64 `json:"total_score"`
	TotalWeightage int     `json:"total_weightage"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Orchestrator owns the interview session state machine. One instance serves
// all connections.
type Orchestrator struct {
	Apps       applications.Repo
	Jobs       jobs.Repo
	Candidates candidates.Repo
	AI         ai.Client
	Audio      *audio.Pipeline
	Email      email.Notifier
	Sessions   *SessionStore

	// shuffle and now are swappable for tests.
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// NewOrchestrator constructs an Orchestrator with production defaults.
func NewOrchestrator(apps applications.Repo, jobRepo jobs.Repo, candRepo candidates.Repo, aiClient ai.Client, pipeline *audio.Pipeline, notifier email.Notifier, sessions *SessionStore) *Orchestrator {
	return &Orchestrator{
		Apps:       apps,
		Jobs:       jobRepo,
		Candidates: candRepo,
		AI:         aiClient,
		Audio:      pipeline,
		Email:      notifier,
		Sessions:   sessions,
		shuffle:    rand.Shuffle,
		now:        time.Now,
	}
}

// Start validates the application, commits a shuffled question order and sends
// the first question.
func (o *Orchestrator) Start(ctx context.Context, connID, applicationID string, em Emitter) {
	if strings.TrimSpace(applicationID) == "" {
		o.emitError(em, msgApplicationIDRequired)
		return
	}

	app, err := o.Apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			o.emitError(em, msgApplicationNotFound)
			return
		}
		o.internalError(em, "interview.start", applicationID, err)
		return
	}
	if app.Status == applications.StatusCompleted {
		o.emitError(em, msgAlreadyCompleted)
		return
	}

	questions, err := o.Jobs.ListQuestionsByJob(ctx, app.JobID)
	if err != nil {
		o.internalError(em, "interview.start", applicationID, err)
		return
	}
	if len(questions) == 0 {
		o.emitError(em, msgNoQuestions)
		return
	}

	order := make([]jobs.Question, len(questions))
	copy(order, questions)
	o.shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	sess := &Session{ApplicationID: applicationID, Questions: order}
	o.Sessions.Put(connID, sess)

	metrics.IncInterviewStarted()
	telemetry.Info("interview.started", map[string]any{
		"application_id": applicationID,
		"questions":      len(order),
	})
	o.emitQuestion(ctx, em, sess)
}

// Submit scores the answer for the current question, persists it and moves
// the interview forward. The question ID must match the session cursor; a
// stale or out-of-order submission writes nothing.
func (o *Orchestrator) Submit(ctx context.Context, connID string, sub Submission, em Emitter) {
	sess, ok := o.Sessions.Get(connID)
	if !ok || sess.Done() {
		o.emitError(em, msgNoActiveSession)
		return
	}

	q := sess.Current()
	if sub.QuestionID != q.ID {
		o.emitError(em, msgQuestionMismatch)
		return
	}

	answerText := strings.TrimSpace(sub.AnswerText)
	var audioKey string

	if sub.AudioData != "" {
		saved, err := o.Audio.Save(ctx, sub.AudioData, sess.ApplicationID, q.ID)
		if err != nil {
			telemetry.Warn("interview.audio_save_failed", map[string]any{
				"application_id": sess.ApplicationID,
				"question_id":    q.ID,
				"error":          err.Error(),
			})
		} else {
			audioKey = saved.Key
			if answerText == "" {
				text, err := o.AI.Transcribe(ctx, saved.Data, "answer.webm")
				if err != nil {
					telemetry.Warn("interview.transcribe_failed", map[string]any{
						"application_id": sess.ApplicationID,
						"question_id":    q.ID,
						"error":          err.Error(),
					})
					text = ""
				}
				if text == "" {
					text = "[Transcription failed]"
				}
				answerText = text
				o.emit(em, "transcript_received", transcriptPayload{QuestionID: q.ID, Transcript: answerText})
			}
		}
	}

	score, err := o.AI.EvaluateAnswer(ctx, q.Text, answerText, q.Weightage)
	if err != nil {
		telemetry.Warn("interview.evaluate_failed", map[string]any{
			"application_id": sess.ApplicationID,
			"question_id":    q.ID,
			"error":          err.Error(),
		})
		score = float64(q.Weightage) * 0.5
	}

	if !o.recordAnswer(ctx, connID, sess, em, applications.Answer{
		ID:            uuid.NewString(),
		ApplicationID: sess.ApplicationID,
		QuestionID:    q.ID,
		AnswerText:    answerText,
		AudioKey:      audioKey,
		Score:         score,
		Weightage:     q.Weightage,
		Duration:      sub.Duration,
		CreatedAt:     o.now().UTC(),
	}) {
		return
	}

	sess.Transcript = append(sess.Transcript, ai.TranscriptEntry{Question: q.Text, Answer: answerText, Score: score})
	o.advance(ctx, connID, sess, em)
}

// Skip records the current question as skipped with a zero score and moves
// on. The question ID must match, same as Submit.
func (o *Orchestrator) Skip(ctx context.Context, connID, questionID string, em Emitter) {
	sess, ok := o.Sessions.Get(connID)
	if !ok || sess.Done() {
		o.emitError(em, msgNoActiveSession)
		return
	}

	q := sess.Current()
	if questionID != q.ID {
		o.emitError(em, msgQuestionMismatch)
		return
	}

	if !o.recordAnswer(ctx, connID, sess, em, applications.Answer{
		ID:            uuid.NewString(),
		ApplicationID: sess.ApplicationID,
		QuestionID:    q.ID,
		AnswerText:    skippedAnswerText,
		Score:         0,
		Weightage:     q.Weightage,
		CreatedAt:     o.now().UTC(),
	}) {
		return
	}

	sess.Transcript = append(sess.Transcript, ai.TranscriptEntry{Question: q.Text, Answer: skippedAnswerText, Score: 0})
	o.advance(ctx, connID, sess, em)
}

// Speech converts question text to audio for playback on the candidate side.
func (o *Orchestrator) Speech(ctx context.Context, text string, em Emitter) {
	data, err := o.AI.SynthesizeSpeech(ctx, text)
	if err != nil || len(data) == 0 {
		if err != nil {
			telemetry.Warn("interview.speech_failed", map[string]any{"error": err.Error()})
		}
		o.emitError(em, msgSpeechFailed)
		return
	}
	o.emit(em, "speech_generated", speechPayload{
		AudioData: base64.StdEncoding.EncodeToString(data),
	})
}

// Disconnect drops the session state for a closed connection. Progress
// already persisted as answers is kept; the interview can be restarted on a
// new connection and will re-ask the remaining questions in a new order.
func (o *Orchestrator) Disconnect(connID string) {
	o.Sessions.Delete(connID)
}

func (o *Orchestrator) recordAnswer(ctx context.Context, connID string, sess *Session, em Emitter, ans applications.Answer) bool {
	err := o.Apps.CreateAnswer(ctx, ans)
	if err == nil {
		metrics.IncAnswerRecorded()
		if ans.Duration > 0 {
			metrics.ObserveAnswerDurationSeconds(ans.Duration)
		}
		return true
	}
	if errors.Is(err, applications.ErrCompleted) {
		o.Sessions.Delete(connID)
		o.emitError(em, msgAlreadyCompleted)
		return false
	}
	o.internalError(em, "interview.record_answer", sess.ApplicationID, err)
	return false
}

func (o *Orchestrator) advance(ctx context.Context, connID string, sess *Session, em Emitter) {
	sess.Cursor++
	if !sess.Done() {
		o.emitQuestion(ctx, em, sess)
		return
	}
	o.finalize(ctx, connID, sess, em)
}

// finalize synthesizes the personality profile, freezes the transcript and
// marks the application completed. Completion is write-once: a concurrent or
// repeated finalization leaves the first result untouched.
func (o *Orchestrator) finalize(ctx context.Context, connID string, sess *Session, em Emitter) {
	defer o.Sessions.Delete(connID)

	app, err := o.Apps.GetByID(ctx, sess.ApplicationID)
	if err != nil {
		o.internalError(em, "interview.finalize", sess.ApplicationID, err)
		return
	}

	cvSummary := ""
	cand, candErr := o.Candidates.GetByID(ctx, app.CandidateID)
	if candErr == nil {
		cvSummary = cand.CVSummary
	}

	profile, err := o.AI.GeneratePersonalityProfile(ctx, cvSummary, sess.Transcript)
	if err != nil || profile == "" {
		if err != nil {
			telemetry.Warn("interview.profile_failed", map[string]any{
				"application_id": sess.ApplicationID,
				"error":          err.Error(),
			})
		}
		profile = ai.FallbackProfile
	}

	completed, err := o.Apps.Complete(ctx, sess.ApplicationID, profile, FormatTranscript(sess.Transcript), o.now().UTC())
	if err != nil {
		o.internalError(em, "interview.finalize", sess.ApplicationID, err)
		return
	}

	if completed {
		metrics.IncInterviewCompleted()
		telemetry.Info("interview.completed", map[string]any{
			"application_id": sess.ApplicationID,
			"questions":      len(sess.Questions),
		})
		o.sendCompletionEmail(ctx, app, cand, candErr)
	}

	final, err := o.Apps.GetByID(ctx, sess.ApplicationID)
	if err != nil {
		final = app
	}
	o.emit(em, "interview_complete", completePayload{
		ApplicationID:  sess.ApplicationID,
		Message:        completionMessage,
		TotalScore:     final.TotalScore,
		TotalWeightage: final.TotalWeightage,
	})
}

func (o *Orchestrator) sendCompletionEmail(ctx context.Context, app applications.Application, cand candidates.Candidate, candErr error) {
	if candErr != nil {
		telemetry.Warn("interview.completion_email_skipped", map[string]any{
			"application_id": app.ID,
			"error":          candErr.Error(),
		})
		return
	}
	jobTitle := ""
	if job, err := o.Jobs.GetJob(ctx, app.JobID); err == nil {
		jobTitle = job.Title
	}
	if err := o.Email.SendInterviewCompletion(ctx, cand.Email, cand.FirstName, jobTitle); err != nil {
		telemetry.Warn("email.send_failed", map[string]any{
			"kind":           "interview_completion",
			"application_id": app.ID,
			"error":          err.Error(),
		})
	}
}

// FormatTranscript renders the frozen transcript stored on the application.
func FormatTranscript(entries []ai.TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "Q: %s\nA: %s\nScore: %v\n\n", e.Question, e.Answer, e.Score)
	}
	return b.String()
}

func (o *Orchestrator) emitQuestion(ctx context.Context, em Emitter, sess *Session) {
	q := sess.Current()
	o.emit(em, "question", questionPayload{
		QuestionID:     q.ID,
		Text:           q.Text,
		Weightage:      q.Weightage,
		QuestionNumber: sess.Cursor + 1,
		TotalQuestions: len(sess.Questions),
	})
	o.speakQuestion(ctx, em, q.Text)
}

// speakQuestion voices the question just sent. The candidate can still read
// the question text, so synthesis failures are logged and suppressed rather
// than surfaced as error events.
func (o *Orchestrator) speakQuestion(ctx context.Context, em Emitter, text string) {
	data, err := o.AI.SynthesizeSpeech(ctx, text)
	if err != nil || len(data) == 0 {
		if err != nil {
			telemetry.Warn("interview.speech_failed", map[string]any{"error": err.Error()})
		}
		return
	}
	o.emit(em, "speech_generated", speechPayload{
		AudioData: base64.StdEncoding.EncodeToString(data),
	})
}

func (o *Orchestrator) emit(em Emitter, event string, data any) {
	if err := em.Emit(event, data); err != nil {
		telemetry.Warn("interview.emit_failed", map[string]any{"event": event, "error": err.Error()})
	}
}

func (o *Orchestrator) emitError(em Emitter, message string) {
	o.emit(em, "error", errorPayload{Message: message})
}

func (o *Orchestrator) internalError(em Emitter, op, applicationID string, err error) {
	telemetry.Error(op, map[string]any{
		"application_id": applicationID,
		"error":          err.Error(),
	})
	o.emitError(em, msgInternal)
}
