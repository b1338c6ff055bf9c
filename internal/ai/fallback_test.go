package ai

import (
	"context"
	"errors"
	"testing"
)

type flakyClient struct {
	err error
}

func (f flakyClient) GenerateQuestions(ctx context.Context, jobDescription string) ([]QuestionDraft, error) {
	return nil, f.err
}

func (f flakyClient) AnalyzeCV(ctx context.Context, cvText, jobDescription string) (CVAnalysis, error) {
	return CVAnalysis{}, f.err
}

func (f flakyClient) EvaluateAnswer(ctx context.Context, questionText, answerText string, weightage int) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

func (f flakyClient) GeneratePersonalityProfile(ctx context.Context, cvSummary string, transcript []TranscriptEntry) (string, error) {
	return "", f.err
}

func (f flakyClient) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	return "", f.err
}

func (f flakyClient) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return nil, f.err
}

func TestFallbackGenerateQuestions(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	drafts, err := client.GenerateQuestions(context.Background(), "desc")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 generic questions, got %d", len(drafts))
	}
	for _, d := range drafts {
		if d.Weightage < 1 || d.Weightage > 20 {
			t.Fatalf("fallback weightage out of range: %d", d.Weightage)
		}
	}
}

func TestFallbackAnalyzeCV(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	analysis, err := client.AnalyzeCV(context.Background(), "cv", "desc")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if analysis.Summary != FallbackSummary || analysis.MatchingPercentage != 0 {
		t.Fatalf("unexpected fallback analysis: %+v", analysis)
	}
}

func TestFallbackEvaluateAnswerHalvesWeightage(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	score, err := client.EvaluateAnswer(context.Background(), "q", "a", 15)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if score != 7.5 {
		t.Fatalf("expected half weightage 7.5, got %v", score)
	}
}

func TestFallbackEvaluateAnswerClampsHealthyScore(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{}}

	score, err := client.EvaluateAnswer(context.Background(), "q", "a", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 10 {
		t.Fatalf("expected 42 clamped to weightage 10, got %v", score)
	}
}

func TestFallbackPersonalityProfile(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	profile, err := client.GeneratePersonalityProfile(context.Background(), "summary", nil)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if profile != FallbackProfile {
		t.Fatalf("unexpected fallback profile: %q", profile)
	}
}

func TestFallbackTranscribeReturnsEmpty(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	text, err := client.Transcribe(context.Background(), []byte("audio"), "a.webm")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty transcript, got %q", text)
	}
}

func TestFallbackSpeechReturnsNil(t *testing.T) {
	client := FallbackClient{Inner: flakyClient{err: errors.New("boom")}}

	audio, err := client.SynthesizeSpeech(context.Background(), "text")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if audio != nil {
		t.Fatalf("expected nil audio, got %d bytes", len(audio))
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(-3, 10); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := ClampScore(12, 10); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
	if got := ClampScore(7.5, 10); got != 7.5 {
		t.Fatalf("expected 7.5, got %v", got)
	}
}
