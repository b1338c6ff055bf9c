package ai

import "context"

// QuestionDraft is a generated interview question before it is persisted.
type QuestionDraft struct {
	Text      string `json:"text"`
	Weightage int    `json:"weightage"`
}

// CVAnalysis summarizes a CV against a job description.
type CVAnalysis struct {
	Summary            string  `json:"summary"`
	MatchingPercentage float64 `json:"matching_percentage"`
}

// TranscriptEntry is one question/answer pair from an interview.
type TranscriptEntry struct {
	Question string
	Answer   string
	Score    float64
}

// Client abstracts the AI provider used for question generation, CV matching,
// answer scoring, personality synthesis, transcription and speech synthesis.
type Client interface {
	GenerateQuestions(ctx context.Context, jobDescription string) ([]QuestionDraft, error)
	AnalyzeCV(ctx context.Context, cvText, jobDescription string) (CVAnalysis, error)
	EvaluateAnswer(ctx context.Context, questionText, answerText string, weightage int) (float64, error)
	GeneratePersonalityProfile(ctx context.Context, cvSummary string, transcript []TranscriptEntry) (string, error)
	Transcribe(ctx context.Context, audio []byte, fileName string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// ClampScore bounds a raw model score to [0, weightage].
func ClampScore(score float64, weightage int) float64 {
	if score < 0 {
		return 0
	}
	if max := float64(weightage); score > max {
		return max
	}
	return score
}
