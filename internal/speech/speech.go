// Package speech implements the Speech Output collaborator: it speaks text in
// a locale, supports pause/resume/stop, and publishes playback status changes
// on a channel so the dispatcher can follow them without callbacks.
package speech

import (
	"context"
	"encoding/binary"
	"time"
)

// Status is the playback state of the speech output.
type Status int

const (
	Idle Status = iota
	Speaking
	Paused
)

func (s Status) String() string {
	switch s {
	case Speaking:
		return "speaking"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusEvent reports a playback transition. Err is set when an utterance
// ended because synthesis or playback failed.
type StatusEvent struct {
	Status Status
	Text   string
	Err    error
}

// Output is the Speech Output contract used by the dispatcher. All methods
// are fire-and-forget and must not block on audio.
type Output interface {
	Speak(text, locale string)
	Pause()
	Resume()
	Stop()
	Status() Status
}

// Clip is one synthesized utterance.
type Clip struct {
	Text        string `json:"text"`
	Locale      string `json:"locale"`
	ContentType string `json:"content_type"`
	Audio       []byte `json:"-"`
}

// Duration estimates the playing time of a WAV clip from its header.
// Non-WAV or truncated audio reports zero.
func (c Clip) Duration() time.Duration {
	if len(c.Audio) < 44 || string(c.Audio[:4]) != "RIFF" || string(c.Audio[8:12]) != "WAVE" {
		return 0
	}
	byteRate := binary.LittleEndian.Uint32(c.Audio[28:32])
	if byteRate == 0 {
		return 0
	}
	data := len(c.Audio) - 44
	return time.Duration(float64(data) / float64(byteRate) * float64(time.Second))
}

// Sink plays clips. Play blocks until the clip ends or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, clip Clip) error
	Pause() error
	Resume() error
}

// Silent is an Output that does nothing. It is used when speech is disabled.
type Silent struct{}

func (Silent) Speak(string, string) {}
func (Silent) Pause()               {}
func (Silent) Resume()              {}
func (Silent) Stop()                {}
func (Silent) Status() Status       { return Idle }
