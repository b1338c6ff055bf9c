package ai

import (
	"context"

	"hireflow-backend/internal/shared/metrics"
	"hireflow-backend/internal/shared/telemetry"
)

// Fallback values used when the provider is unreachable or returns garbage.
const (
	FallbackSummary = "Analysis pending"
	FallbackProfile = "Personality profile analysis pending."
)

// FallbackQuestions is the generic question set used when generation fails.
func FallbackQuestions() []QuestionDraft {
	return []QuestionDraft{
		{Text: "What relevant experience do you have for this position?", Weightage: 15},
		{Text: "What are your key strengths?", Weightage: 12},
		{Text: "Why are you interested in this role?", Weightage: 10},
	}
}

// FallbackClient wraps a Client and converts every provider failure into a
// typed fallback value. Interview progression must never stall waiting on the
// provider, so no operation here returns an error; failures are logged and a
// documented default takes over. There is deliberately no retry loop.
type FallbackClient struct {
	Inner Client
}

func (f FallbackClient) GenerateQuestions(ctx context.Context, jobDescription string) ([]QuestionDraft, error) {
	drafts, err := f.Inner.GenerateQuestions(ctx, jobDescription)
	if err != nil || len(drafts) == 0 {
		logFallback("generate_questions", err)
		return FallbackQuestions(), nil
	}
	return drafts, nil
}

func (f FallbackClient) AnalyzeCV(ctx context.Context, cvText, jobDescription string) (CVAnalysis, error) {
	analysis, err := f.Inner.AnalyzeCV(ctx, cvText, jobDescription)
	if err != nil {
		logFallback("analyze_cv", err)
		return CVAnalysis{Summary: FallbackSummary, MatchingPercentage: 0}, nil
	}
	return analysis, nil
}

func (f FallbackClient) EvaluateAnswer(ctx context.Context, questionText, answerText string, weightage int) (float64, error) {
	score, err := f.Inner.EvaluateAnswer(ctx, questionText, answerText, weightage)
	if err != nil {
		logFallback("evaluate_answer", err)
		return float64(weightage) * 0.5, nil
	}
	return ClampScore(score, weightage), nil
}

func (f FallbackClient) GeneratePersonalityProfile(ctx context.Context, cvSummary string, transcript []TranscriptEntry) (string, error) {
	profile, err := f.Inner.GeneratePersonalityProfile(ctx, cvSummary, transcript)
	if err != nil || profile == "" {
		logFallback("personality_profile", err)
		return FallbackProfile, nil
	}
	return profile, nil
}

func (f FallbackClient) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	text, err := f.Inner.Transcribe(ctx, audio, fileName)
	if err != nil {
		logFallback("transcribe", err)
		return "", nil
	}
	return text, nil
}

func (f FallbackClient) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	audio, err := f.Inner.SynthesizeSpeech(ctx, text)
	if err != nil {
		logFallback("synthesize_speech", err)
		return nil, nil
	}
	return audio, nil
}

func logFallback(op string, err error) {
	metrics.IncAIFallback()
	fields := map[string]any{"operation": op}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("ai.fallback", fields)
}

var _ Client = FallbackClient{}
