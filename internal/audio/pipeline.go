package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"hireflow-backend/internal/shared/storage/object"
	"hireflow-backend/internal/shared/telemetry"
)

// ErrEmptyPayload is returned when the decoded audio payload has no bytes.
var ErrEmptyPayload = errors.New("empty audio payload")

// Saved describes a persisted answer recording.
type Saved struct {
	// Key is the object-store key of the stored file. Points at the
	// compressed mp3 when compression succeeded, the original otherwise.
	Key string
	// Data holds the decoded original bytes, kept for transcription.
	Data []byte
}

// Pipeline decodes transmitted audio payloads, persists them and compresses
// them to a speech-tuned mp3. Compression is an optimization: any codec
// failure degrades to storing the original encoding.
type Pipeline struct {
	Store      object.ObjectStore
	FFmpegPath string

	now func() time.Time
}

// NewPipeline constructs a Pipeline. ffmpegPath may be a bare binary name
// resolved via PATH.
func NewPipeline(store object.ObjectStore, ffmpegPath string) *Pipeline {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Pipeline{Store: store, FFmpegPath: ffmpegPath, now: time.Now}
}

// Save decodes a base64 payload (optionally carrying a data-URL header),
// stores it and returns the stored key plus the raw bytes.
func (p *Pipeline) Save(ctx context.Context, encoded, applicationID, questionID string) (Saved, error) {
	data, err := Decode(encoded)
	if err != nil {
		return Saved{}, err
	}

	ts := p.now().UTC().Format("20060102_150405")
	base := fmt.Sprintf("interviews/app_%s_q_%s_%s", applicationID, questionID, ts)
	originalKey := base + ".webm"
	compressedKey := base + ".mp3"

	compressed, err := p.compress(ctx, data)
	if err != nil {
		telemetry.Warn("audio.compress_failed", map[string]any{
			"application_id": applicationID,
			"question_id":    questionID,
			"error":          err.Error(),
		})
		if _, err := p.Store.SaveWithKey(ctx, originalKey, "audio/webm", bytes.NewReader(data)); err != nil {
			return Saved{}, fmt.Errorf("store original audio: %w", err)
		}
		return Saved{Key: originalKey, Data: data}, nil
	}

	if _, err := p.Store.SaveWithKey(ctx, compressedKey, "audio/mpeg", bytes.NewReader(compressed)); err != nil {
		return Saved{}, fmt.Errorf("store compressed audio: %w", err)
	}
	return Saved{Key: compressedKey, Data: data}, nil
}

// Decode strips an optional data-URL prefix and base64-decodes the payload.
func Decode(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

// compress transcodes to mono 22.05kHz 64kbps mp3, the settings that work
// well for speech while cutting file size substantially.
func (p *Pipeline) compress(ctx context.Context, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "interview-audio-")
	if err != nil {
		return nil, fmt.Errorf("tempdir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.webm")
	outPath := filepath.Join(dir, "out.mp3")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp input: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.FFmpegPath,
		"-i", inPath,
		"-ar", "22050",
		"-ac", "1",
		"-b:a", "64k",
		"-y",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read compressed output: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("ffmpeg produced empty output")
	}
	return out, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
