package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by PlaceholderClient for every operation.
var ErrNotConfigured = errors.New("ai provider not configured")

// PlaceholderClient stands in when no provider is configured. Wrapped in
// FallbackClient it turns every operation into its documented fallback, which
// keeps local development working without an API key.
type PlaceholderClient struct{}

func (PlaceholderClient) GenerateQuestions(ctx context.Context, jobDescription string) ([]QuestionDraft, error) {
	return nil, ErrNotConfigured
}

func (PlaceholderClient) AnalyzeCV(ctx context.Context, cvText, jobDescription string) (CVAnalysis, error) {
	return CVAnalysis{}, ErrNotConfigured
}

func (PlaceholderClient) EvaluateAnswer(ctx context.Context, questionText, answerText string, weightage int) (float64, error) {
	return 0, ErrNotConfigured
}

func (PlaceholderClient) GeneratePersonalityProfile(ctx context.Context, cvSummary string, transcript []TranscriptEntry) (string, error) {
	return "", ErrNotConfigured
}

func (PlaceholderClient) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	return "", ErrNotConfigured
}

func (PlaceholderClient) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return nil, ErrNotConfigured
}

var _ Client = PlaceholderClient{}
