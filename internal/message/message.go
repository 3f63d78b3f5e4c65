// Package message defines the request and result types exchanged between
// transports and the dispatcher.
package message

import (
	"encoding/base64"
	"time"

	"github.com/nadzzz/newsvox/internal/state"
)

// ResponseMode controls what natural-language output the caller wants.
// The caller declares desired output in the request body, and the server
// populates or omits response fields accordingly.
type ResponseMode string

const (
	// ResponseModeText returns the response text only. It is the default.
	ResponseModeText ResponseMode = "text"

	// ResponseModeAudio returns TTS-synthesized audio only (no text).
	ResponseModeAudio ResponseMode = "audio"

	// ResponseModeTextAudio returns both text and synthesized audio.
	ResponseModeTextAudio ResponseMode = "text+audio"
)

// WantText reports whether the mode includes text output.
func (m ResponseMode) WantText() bool {
	return m == "" || m == ResponseModeText || m == ResponseModeTextAudio
}

// WantAudio reports whether the mode includes audio output.
func (m ResponseMode) WantAudio() bool {
	return m == ResponseModeAudio || m == ResponseModeTextAudio
}

// Message represents an incoming request from any transport.
type Message struct {
	// ID is a unique identifier for this message (UUID).
	ID string `json:"id"`

	// Source identifies the sender (e.g., "kitchen-speaker", "phone-alice").
	Source string `json:"source"`

	// Audio is the raw audio payload. Nil if the message is text-only.
	Audio []byte `json:"audio,omitempty"`

	// ContentType is the MIME type of the audio (e.g., "audio/wav", "audio/ogg").
	ContentType string `json:"content_type,omitempty"`

	// Text is a pre-transcribed or typed transcript (bypasses transcription).
	Text string `json:"text,omitempty"`

	// ResponseMode selects the natural-language output:
	//   "text":       text response only (default)
	//   "audio":      TTS-synthesized audio only
	//   "text+audio": both text and audio
	ResponseMode ResponseMode `json:"response_mode,omitempty"`

	// Timestamp is when the message was received by newsvox.
	Timestamp time.Time `json:"timestamp"`
}

// HasAudio returns true if the message contains an audio payload.
func (m *Message) HasAudio() bool {
	return len(m.Audio) > 0
}

// HelpEntry describes one supported phrase.
type HelpEntry struct {
	Action      string `json:"action"`
	Example     string `json:"example"`
	Description string `json:"description"`
}

// LanguageEntry is a language name the language commands accept.
type LanguageEntry struct {
	Name    string `json:"name"`
	Reading string `json:"reading"` // ISO-639-1 code
	Speech  string `json:"speech"`  // speech locale
}

// DispatchResult is the outcome of processing a message.
type DispatchResult struct {
	// MessageID is the original message ID.
	MessageID string `json:"message_id"`

	// Transcript is the text that was parsed.
	Transcript string `json:"transcript,omitempty"`

	// Language is the ISO-639-1 code detected during transcription.
	Language string `json:"language,omitempty"`

	// Action is the wire name of the parsed command ("unrecognized" if none matched).
	Action string `json:"action"`

	// Param is the captured command parameter, if any.
	Param string `json:"param,omitempty"`

	// ResponseText is the human-readable response for the command.
	ResponseText string `json:"response_text,omitempty"`

	// ResponseAudio is the TTS-synthesized response as a base64-encoded string.
	ResponseAudio string `json:"response_audio,omitempty"`

	// ResponseContentType is the MIME type of ResponseAudio (e.g., "audio/wav").
	ResponseContentType string `json:"response_content_type,omitempty"`

	// Help lists the supported phrases; set for show_help.
	Help []HelpEntry `json:"help,omitempty"`

	// State is the application state after the command ran.
	State *state.State `json:"state,omitempty"`

	// Error is set when the command could not be carried out.
	Error string `json:"error,omitempty"`
}

// SetResponseAudioBytes base64-encodes raw audio bytes into ResponseAudio.
func (r *DispatchResult) SetResponseAudioBytes(audio []byte) {
	if len(audio) > 0 {
		r.ResponseAudio = base64.StdEncoding.EncodeToString(audio)
	}
}
