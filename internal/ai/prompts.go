package ai

import _ "embed"

var (
	//go:embed prompts/generate_questions.txt
	promptGenerateQuestions string
	//go:embed prompts/analyze_cv.txt
	promptAnalyzeCV string
	//go:embed prompts/evaluate_answer.txt
	promptEvaluateAnswer string
	//go:embed prompts/personality_profile.txt
	promptPersonalityProfile string
)

// PromptConfig describes one provider call: the template, the model to run it
// on and the sampling temperature. An empty Model defers to the client default.
type PromptConfig struct {
	System      string
	Template    string
	Model       string
	Temperature float32
}

// Prompt keys.
const (
	PromptGenerateQuestions  = "generate_questions"
	PromptAnalyzeCV          = "analyze_cv"
	PromptEvaluateAnswer     = "evaluate_answer"
	PromptPersonalityProfile = "personality_profile"
)

var defaultPrompts = map[string]PromptConfig{
	PromptGenerateQuestions: {
		System:      "You are an expert HR interviewer who creates insightful pre-screening questions.",
		Template:    promptGenerateQuestions,
		Temperature: 0.7,
	},
	PromptAnalyzeCV: {
		System:      "You are an expert HR recruiter analyzing candidate CVs.",
		Template:    promptAnalyzeCV,
		Temperature: 0.5,
	},
	PromptEvaluateAnswer: {
		System:      "You are an expert HR interviewer evaluating candidate responses.",
		Template:    promptEvaluateAnswer,
		Temperature: 0.5,
	},
	PromptPersonalityProfile: {
		System:      "You are an expert HR psychologist creating candidate personality profiles.",
		Template:    promptPersonalityProfile,
		Temperature: 0.6,
	},
}

// PromptSet resolves prompt keys to configurations. Lookups fall back to the
// compiled-in defaults, so a partial or missing override set never leaves an
// operation without a template.
type PromptSet map[string]PromptConfig

// Resolve returns the configuration for key, falling back to the default.
func (ps PromptSet) Resolve(key string) PromptConfig {
	if ps != nil {
		if cfg, ok := ps[key]; ok && cfg.Template != "" {
			return cfg
		}
	}
	return defaultPrompts[key]
}

// DefaultPrompts returns a copy of the compiled-in prompt set.
func DefaultPrompts() PromptSet {
	out := make(PromptSet, len(defaultPrompts))
	for k, v := range defaultPrompts {
		out[k] = v
	}
	return out
}
