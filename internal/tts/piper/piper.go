// Package piper implements the TTS Synthesizer using a Piper Wyoming protocol server.
//
// Piper is a fast, local neural text-to-speech system. The linuxserver/piper
// container exposes the Wyoming protocol on TCP port 10200.
package piper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/tts"
)

// defaultVoices maps speech locales and their base languages to Piper voices.
// Locale keys win over language keys so "pt-BR" and "pt-PT" can differ.
var defaultVoices = map[string]string{
	"en-US": "en_US-lessac-medium",
	"en-GB": "en_GB-alan-medium",
	"en":    "en_US-lessac-medium",
	"es":    "es_ES-mls_10246-low",
	"es-MX": "es_MX-claude-high",
	"fr":    "fr_FR-siwis-medium",
	"de":    "de_DE-thorsten-medium",
	"it":    "it_IT-riccardo-x_low",
	"pt":    "pt_BR-faber-medium",
	"ru":    "ru_RU-ruslan-medium",
	"zh":    "zh_CN-huayan-medium",
	"ar":    "ar_JO-kareem-medium",
	"hi":    "hi_IN-pratham-medium",
}

// Synthesizer implements tts.Synthesizer using the Wyoming protocol.
type Synthesizer struct {
	endpoint  string            // default host:port of the Piper Wyoming server
	endpoints map[string]string // locale or language -> host:port
	voices    map[string]string // locale or language -> voice name
}

var _ tts.Synthesizer = (*Synthesizer)(nil)

// New creates a new Piper synthesizer from config.
func New(cfg config.PiperConfig) *Synthesizer {
	voices := make(map[string]string, len(defaultVoices)+len(cfg.Voices))
	for k, v := range defaultVoices {
		voices[strings.ToLower(k)] = v
	}
	for k, v := range cfg.Voices {
		voices[strings.ToLower(k)] = v
	}

	endpoints := make(map[string]string, len(cfg.Endpoints))
	for k, ep := range cfg.Endpoints {
		endpoints[strings.ToLower(k)] = cleanEndpoint(ep)
	}

	return &Synthesizer{
		endpoint:  cleanEndpoint(cfg.Endpoint),
		endpoints: endpoints,
		voices:    voices,
	}
}

func cleanEndpoint(ep string) string {
	ep = strings.TrimPrefix(ep, "tcp://")
	return strings.TrimPrefix(ep, "http://")
}

// pick resolves a locale against a table: exact locale, then base language.
func pick(table map[string]string, locale string) string {
	if v := table[strings.ToLower(locale)]; v != "" {
		return v
	}
	return table[language.BaseLanguage(locale)]
}

// Synthesize sends text to the Piper server and returns synthesized audio as WAV.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}

	voice := opts.Voice
	if voice == "" {
		voice = pick(s.voices, opts.Locale)
	}
	if voice == "" {
		voice = s.voices["en"]
	}

	endpoint := pick(s.endpoints, opts.Locale)
	if endpoint == "" {
		endpoint = s.endpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured for locale %q", opts.Locale)
	}

	slog.Debug("piper synthesize", "text_length", len(text), "voice", voice, "locale", opts.Locale, "endpoint", endpoint)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	synth := wyomingEvent{
		Type: "synthesize",
		Data: map[string]any{
			"text":  text,
			"voice": map[string]any{"name": voice},
		},
	}
	if err := writeEvent(conn, synth, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	// audio-start → audio-chunk* → audio-stop
	r := bufio.NewReader(conn)
	var (
		pcm        bytes.Buffer
		sampleRate = 22050
		channels   = 1
		width      = 2
	)
	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			if v, ok := evt.Data["rate"].(float64); ok {
				sampleRate = int(v)
			}
			if v, ok := evt.Data["channels"].(float64); ok {
				channels = int(v)
			}
			if v, ok := evt.Data["width"].(float64); ok {
				width = int(v)
			}
		case "audio-chunk":
			pcm.Write(payload)
		case "audio-stop":
			slog.Debug("piper audio-stop", "pcm_bytes", pcm.Len())
			return &tts.SynthesizeResult{
				Audio:       pcmToWAV(pcm.Bytes(), sampleRate, channels, width),
				ContentType: tts.ContentTypeWAV,
				SampleRate:  sampleRate,
				Channels:    channels,
			}, nil
		case "error":
			msg := "unknown error"
			if t, ok := evt.Data["text"].(string); ok {
				msg = t
			}
			return nil, fmt.Errorf("piper error: %s", msg)
		default:
			slog.Debug("piper unknown event", "type", evt.Type)
		}
	}
}

// Close is a no-op; connections are per-request.
func (s *Synthesizer) Close() error { return nil }
