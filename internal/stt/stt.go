// Package stt defines the interface for speech-to-text transcription.
//
// Audio posted to a transport is transcribed before it reaches the command
// parser. newsvox ships with two backends: OpenAI (cloud) and Local
// (self-hosted Whisper).
package stt

import (
	"context"
	"strings"
)

// TranscribeOpts controls transcription behavior.
type TranscribeOpts struct {
	// Language is the ISO-639-1 code (e.g., "en", "fr") to guide transcription.
	Language string

	// Prompt provides context to improve recognition of domain-specific terms.
	Prompt string
}

// TranscribeResult holds the output of transcription.
type TranscribeResult struct {
	Text     string
	Language string // ISO-639-1 code when the backend reports one
}

// Transcriber converts recorded speech into a transcript.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "openai", "local").
	Name() string

	// Transcribe converts audio bytes to text.
	Transcribe(ctx context.Context, audio []byte, contentType string, opts TranscribeOpts) (*TranscribeResult, error)

	// Close releases any resources held by the transcriber.
	Close() error
}

// CommandPrompt biases recognition towards the command vocabulary.
const CommandPrompt = "Voice commands for a news reader: show me technology news, open article 2, next article, read this article, pause reading, set reading language to Spanish, refresh news."

// FileExt maps an audio content type to the file extension Whisper servers
// use to detect the format.
func FileExt(contentType string) string {
	switch ct := strings.ToLower(contentType); {
	case strings.Contains(ct, "wav"):
		return ".wav"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mp3"), strings.Contains(ct, "mpeg"):
		return ".mp3"
	case strings.Contains(ct, "flac"):
		return ".flac"
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "m4a"), strings.Contains(ct, "mp4"):
		return ".m4a"
	default:
		return ".wav"
	}
}
