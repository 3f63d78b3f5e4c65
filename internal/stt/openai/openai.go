// Package openai implements the Transcriber interface using OpenAI's Audio
// Transcription API (Whisper / gpt-4o-transcribe).
package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/stt"
)

// Transcriber uses the OpenAI transcription endpoint.
type Transcriber struct {
	client *openai.Client
	model  string
}

var _ stt.Transcriber = (*Transcriber)(nil)

// New creates a new OpenAI transcriber from config.
func New(cfg config.OpenAISTTConfig) *Transcriber {
	return newTranscriber(openai.NewClient(cfg.APIKey), cfg.Model)
}

func newTranscriber(client *openai.Client, model string) *Transcriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{client: client, model: model}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "openai" }

// Transcribe sends audio to the OpenAI Transcription API.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts stt.TranscribeOpts) (*stt.TranscribeResult, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "audio" + stt.FileExt(contentType),
		Reader:   bytes.NewReader(audio),
		Prompt:   opts.Prompt,
		Language: opts.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	// OpenAI returns full language names ("english"); normalise to ISO-639-1.
	lang := language.Normalize(resp.Language)

	slog.Debug("transcription complete", "text_length", len(resp.Text), "language", lang)
	return &stt.TranscribeResult{
		Text:     resp.Text,
		Language: lang,
	}, nil
}

// Close is a no-op for the OpenAI transcriber.
func (t *Transcriber) Close() error { return nil }
