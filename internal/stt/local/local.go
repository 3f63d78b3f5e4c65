// Package local implements the Transcriber interface using a self-hosted
// Whisper server.
//
// It supports any Whisper-compatible transcription endpoint (e.g., whisper.cpp
// server, faster-whisper) and ahmetoner/whisper-asr-webservice.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/stt"
)

// Transcriber posts audio to a local Whisper endpoint.
type Transcriber struct {
	endpoint        string
	flavor          string // "openai" or "asr"
	model           string
	vadFilter       bool
	defaultLanguage string
	client          *http.Client
}

var _ stt.Transcriber = (*Transcriber)(nil)

// New creates a new local transcriber from config.
func New(cfg config.LocalSTTConfig) *Transcriber {
	flavor := cfg.Type
	if flavor == "" {
		flavor = "openai"
	}
	return &Transcriber{
		endpoint:        cfg.Endpoint,
		flavor:          flavor,
		model:           cfg.Model,
		vadFilter:       cfg.VADFilter,
		defaultLanguage: cfg.Language,
		client:          &http.Client{},
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "local" }

// Transcribe sends audio to the local Whisper endpoint.
// Supports two flavors:
//   - "openai": OpenAI-compatible API (whisper.cpp server, faster-whisper)
//   - "asr":    ahmetoner/whisper-asr-webservice (POST /asr with query params)
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts stt.TranscribeOpts) (*stt.TranscribeResult, error) {
	lang := opts.Language
	if lang == "" {
		lang = t.defaultLanguage
	}

	var (
		req *http.Request
		err error
	)
	switch t.flavor {
	case "asr":
		req, err = t.asrRequest(ctx, audio, contentType, lang, opts.Prompt)
	default:
		req, err = t.openAIRequest(ctx, audio, contentType, lang, opts.Prompt)
	}
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("local transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	// Both flavors return {"text": "...", "language": "..."} for verbose_json.
	var result struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding transcription: %w", err)
	}

	slog.Debug("local transcription complete", "flavor", t.flavor, "text_length", len(result.Text), "language", result.Language)
	return &stt.TranscribeResult{
		Text:     result.Text,
		Language: language.Normalize(result.Language),
	}, nil
}

// asrRequest builds a whisper-asr-webservice request.
// API: POST /asr?task=transcribe&language=en&output=json&vad_filter=true
// Body: multipart/form-data with field "audio_file"
func (t *Transcriber) asrRequest(ctx context.Context, audio []byte, contentType, lang, prompt string) (*http.Request, error) {
	body, formType, err := multipartAudio("audio_file", audio, contentType, nil)
	if err != nil {
		return nil, err
	}

	q := make(url.Values)
	q.Set("task", "transcribe")
	q.Set("output", "json")
	q.Set("encode", "true")
	if lang != "" {
		q.Set("language", lang)
	}
	if prompt != "" {
		q.Set("initial_prompt", prompt)
	}
	if t.vadFilter {
		q.Set("vad_filter", "true")
	}

	reqURL := t.endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", formType)

	slog.Debug("whisper-asr request", "url", reqURL)
	return req, nil
}

// openAIRequest builds a request for an OpenAI-compatible whisper endpoint.
func (t *Transcriber) openAIRequest(ctx context.Context, audio []byte, contentType, lang, prompt string) (*http.Request, error) {
	fields := map[string]string{"response_format": "verbose_json"}
	if t.model != "" {
		fields["model"] = t.model
	}
	if lang != "" {
		fields["language"] = lang
	}
	if prompt != "" {
		fields["prompt"] = prompt
	}

	body, formType, err := multipartAudio("file", audio, contentType, fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", formType)
	return req, nil
}

func multipartAudio(field string, audio []byte, contentType string, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, "audio"+stt.FileExt(contentType))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("writing audio: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// Close is a no-op for the local transcriber.
func (t *Transcriber) Close() error { return nil }
