// Package tts defines the text-to-speech contract.
//
// Headlines and command feedback are spoken in the user's speaking language;
// the same synthesizer also produces the audio attached to transport
// responses when a client asks for them.
package tts

import "context"

// ContentTypeWAV is the MIME type of every clip newsvox synthesizes.
const ContentTypeWAV = "audio/wav"

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Locale is a speech locale such as "pt-BR". A bare language code works too.
	Locale string

	// Voice forces a specific voice model instead of the locale default.
	Voice string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)
	Close() error
}

// SynthesizeResult is a synthesized WAV clip.
type SynthesizeResult struct {
	Audio       []byte
	ContentType string
	SampleRate  int // Hz
	Channels    int
}
