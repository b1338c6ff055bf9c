package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hireflow-backend/internal/ai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = srv.URL
	return client, srv
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Errorf("encode reply: %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestGenerateQuestionsClampsWeightage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		chatReply(t, w, `{"questions":[{"text":"Why us?","weightage":50},{"text":"Strengths?","weightage":0},{"text":"","weightage":10}]}`)
	})

	drafts, err := client.GenerateQuestions(context.Background(), "We build data pipelines")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts (blank text dropped), got %d", len(drafts))
	}
	if drafts[0].Weightage != 20 {
		t.Fatalf("expected weightage clamped to 20, got %d", drafts[0].Weightage)
	}
	if drafts[1].Weightage != 1 {
		t.Fatalf("expected weightage floored to 1, got %d", drafts[1].Weightage)
	}
}

func TestGenerateQuestionsEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"questions":[]}`)
	})

	if _, err := client.GenerateQuestions(context.Background(), "desc"); err == nil {
		t.Fatal("expected error for empty question list")
	}
}

func TestAnalyzeCVClampsPercentage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"summary":"Great fit","matching_percentage":140}`)
	})

	analysis, err := client.AnalyzeCV(context.Background(), "cv text", "job description")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.MatchingPercentage != 100 {
		t.Fatalf("expected percentage clamped to 100, got %v", analysis.MatchingPercentage)
	}
	if analysis.Summary != "Great fit" {
		t.Fatalf("unexpected summary: %q", analysis.Summary)
	}
}

func TestEvaluateAnswerClampsScore(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("expected json response format for evaluation")
		}
		chatReply(t, w, `{"score":99,"feedback":"solid"}`)
	})

	score, err := client.EvaluateAnswer(context.Background(), "Why us?", "Because.", 10)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if score != 10 {
		t.Fatalf("expected score clamped to weightage 10, got %v", score)
	}
}

func TestEvaluateAnswerProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	})

	if _, err := client.EvaluateAnswer(context.Background(), "q", "a", 10); err == nil {
		t.Fatal("expected provider error to surface")
	}
}

func TestGeneratePersonalityProfilePlainText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat != nil {
			t.Error("profile generation must not force json mode")
		}
		chatReply(t, w, "  Curious, calm under pressure.  ")
	})

	profile, err := client.GeneratePersonalityProfile(context.Background(), "summary", []ai.TranscriptEntry{
		{Question: "Q1", Answer: "A1", Score: 8},
	})
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile != "Curious, calm under pressure." {
		t.Fatalf("unexpected profile: %q", profile)
	}
}

func TestTranscribe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("unexpected model %q", got)
		}
		_, _ = w.Write([]byte(`{"text":" hello world "}`))
	})

	text, err := client.Transcribe(context.Background(), []byte("audio"), "answer.webm")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty audio")
	})

	if _, err := client.Transcribe(context.Background(), nil, "answer.webm"); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["voice"] != "nova" || req["model"] != "tts-1-hd" {
			t.Errorf("unexpected tts settings: %v", req)
		}
		_, _ = w.Write([]byte{0xff, 0xfb, 0x90})
	})

	audio, err := client.SynthesizeSpeech(context.Background(), "Tell me about yourself")
	if err != nil {
		t.Fatalf("speech: %v", err)
	}
	if len(audio) != 3 {
		t.Fatalf("unexpected audio length %d", len(audio))
	}
}

func TestSynthesizeSpeechErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad voice"}}`))
	})

	if _, err := client.SynthesizeSpeech(context.Background(), "text"); err == nil {
		t.Fatal("expected error status to surface")
	}
}
