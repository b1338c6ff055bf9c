package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"hireflow-backend/internal/ai"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config carries the provider settings for a Client.
type Config struct {
	APIKey          string
	Model           string
	TTSModel        string
	TTSVoice        string
	TranscribeModel string
	Prompts         ai.PromptSet
}

// Client implements ai.Client against the OpenAI HTTP API.
type Client struct {
	apiKey          string
	model           string
	ttsModel        string
	ttsVoice        string
	transcribeModel string
	prompts         ai.PromptSet
	baseURL         string
	httpClient      *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("AI_MODEL is required for OpenAI")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	ttsModel := cfg.TTSModel
	if ttsModel == "" {
		ttsModel = "tts-1-hd"
	}
	ttsVoice := cfg.TTSVoice
	if ttsVoice == "" {
		ttsVoice = "nova"
	}
	transcribeModel := cfg.TranscribeModel
	if transcribeModel == "" {
		transcribeModel = "whisper-1"
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = ai.DefaultPrompts()
	}
	return &Client{
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		ttsModel:        ttsModel,
		ttsVoice:        ttsVoice,
		transcribeModel: transcribeModel,
		prompts:         prompts,
		baseURL:         defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateQuestions asks the model for pre-screening questions for a job description.
func (c *Client) GenerateQuestions(ctx context.Context, jobDescription string) ([]ai.QuestionDraft, error) {
	cfg := c.prompts.Resolve(ai.PromptGenerateQuestions)
	content, err := c.chatOnce(ctx, cfg, true, jobDescription)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []ai.QuestionDraft `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	var drafts []ai.QuestionDraft
	for _, q := range parsed.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if q.Weightage < 1 {
			q.Weightage = 1
		}
		if q.Weightage > 20 {
			q.Weightage = 20
		}
		drafts = append(drafts, q)
	}
	if len(drafts) == 0 {
		return nil, errors.New("no questions in response")
	}
	return drafts, nil
}

// AnalyzeCV summarizes a CV against a job description and scores the match.
func (c *Client) AnalyzeCV(ctx context.Context, cvText, jobDescription string) (ai.CVAnalysis, error) {
	// Cap CV text to stay inside the context window.
	if len(cvText) > 3000 {
		cvText = cvText[:3000]
	}
	cfg := c.prompts.Resolve(ai.PromptAnalyzeCV)
	content, err := c.chatOnce(ctx, cfg, true, jobDescription, cvText)
	if err != nil {
		return ai.CVAnalysis{}, err
	}

	var analysis ai.CVAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return ai.CVAnalysis{}, fmt.Errorf("parse cv analysis: %w", err)
	}
	if analysis.MatchingPercentage < 0 {
		analysis.MatchingPercentage = 0
	}
	if analysis.MatchingPercentage > 100 {
		analysis.MatchingPercentage = 100
	}
	return analysis, nil
}

// EvaluateAnswer scores an answer between 0 and the question weightage.
func (c *Client) EvaluateAnswer(ctx context.Context, questionText, answerText string, weightage int) (float64, error) {
	cfg := c.prompts.Resolve(ai.PromptEvaluateAnswer)
	content, err := c.chatOnce(ctx, cfg, true, weightage, questionText, answerText, weightage)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return 0, fmt.Errorf("parse evaluation: %w", err)
	}
	return ai.ClampScore(parsed.Score, weightage), nil
}

// GeneratePersonalityProfile writes a short free-text profile from the CV summary and transcript.
func (c *Client) GeneratePersonalityProfile(ctx context.Context, cvSummary string, transcript []ai.TranscriptEntry) (string, error) {
	var b strings.Builder
	for i, entry := range transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", entry.Question, entry.Answer)
	}

	cfg := c.prompts.Resolve(ai.PromptPersonalityProfile)
	content, err := c.chatOnce(ctx, cfg, false, cvSummary, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Transcribe converts recorded speech to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}
	if fileName == "" {
		fileName = "answer.webm"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", c.transcribeModel); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Text  string `json:"text"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai transcription parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	return strings.TrimSpace(parsed.Text), nil
}

// SynthesizeSpeech converts text to spoken audio bytes.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty speech text")
	}

	payload, err := json.Marshal(map[string]string{
		"model": c.ttsModel,
		"voice": c.ttsVoice,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTimeout(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai speech status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func (c *Client) chatOnce(ctx context.Context, cfg ai.PromptConfig, jsonMode bool, args ...any) (string, error) {
	model := cfg.Model
	if model == "" {
		model = c.model
	}
	temp := cfg.Temperature

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: cfg.System},
			{Role: "user", Content: fmt.Sprintf(cfg.Template, args...)},
		},
		Temperature: &temp,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTimeout(err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func wrapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return fmt.Errorf("openai request timeout: %w", err)
	}
	return err
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}

var _ ai.Client = (*Client)(nil)
