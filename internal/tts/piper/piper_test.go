package piper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/tts"
)

// fakePiper answers one synthesize request with the given PCM and reports the
// voice it was asked for.
func fakePiper(t *testing.T, pcm []byte, fail string) (addr string, voices <-chan string) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { lis.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := lis.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		evt, _, err := readEvent(bufio.NewReader(conn))
		if err != nil || evt.Type != "synthesize" {
			return
		}
		voice, _ := evt.Data["voice"].(map[string]any)
		name, _ := voice["name"].(string)
		got <- name

		if fail != "" {
			_ = writeEvent(conn, wyomingEvent{Type: "error", Data: map[string]any{"text": fail}}, nil)
			return
		}
		_ = writeEvent(conn, wyomingEvent{Type: "audio-start", Data: map[string]any{"rate": 16000, "width": 2, "channels": 1}}, nil)
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[:2])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[2:])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-stop"}, nil)
	}()
	return lis.Addr().String(), got
}

func TestSynthesize(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	addr, voices := fakePiper(t, pcm, "")

	s := New(config.PiperConfig{Endpoint: "tcp://" + addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.Synthesize(ctx, "Hola", tts.SynthesizeOpts{Locale: "es-ES"})
	require.NoError(t, err)

	assert.Equal(t, "es_ES-mls_10246-low", <-voices)
	assert.Equal(t, "audio/wav", res.ContentType)
	assert.Equal(t, 16000, res.SampleRate)
	require.Len(t, res.Audio, 44+len(pcm))
	assert.Equal(t, "RIFF", string(res.Audio[:4]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(res.Audio[24:28]))
	assert.True(t, bytes.Equal(pcm, res.Audio[44:]))
}

func TestSynthesizeServerError(t *testing.T) {
	addr, _ := fakePiper(t, nil, "voice not found")

	s := New(config.PiperConfig{Endpoint: addr})
	_, err := s.Synthesize(context.Background(), "hello", tts.SynthesizeOpts{Locale: "en-US"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice not found")
}

func TestSynthesizeRequiresTextAndEndpoint(t *testing.T) {
	s := New(config.PiperConfig{})

	_, err := s.Synthesize(context.Background(), "", tts.SynthesizeOpts{})
	require.Error(t, err)

	_, err = s.Synthesize(context.Background(), "hello", tts.SynthesizeOpts{Locale: "fr-FR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fr-FR")
}

func TestVoiceAndEndpointSelection(t *testing.T) {
	s := New(config.PiperConfig{
		Endpoint:  "default:10200",
		Endpoints: map[string]string{"pt-BR": "tcp://brazil:10200", "fr": "france:10200"},
		Voices:    map[string]string{"pt-BR": "pt_BR-custom"},
	})

	assert.Equal(t, "pt_BR-custom", pick(s.voices, "pt-BR"))
	assert.Equal(t, "pt_BR-faber-medium", pick(s.voices, "pt-PT"))
	assert.Equal(t, "en_GB-alan-medium", pick(s.voices, "en-GB"))
	assert.Equal(t, "", pick(s.voices, "ja-JP"))

	assert.Equal(t, "brazil:10200", pick(s.endpoints, "pt-BR"))
	assert.Equal(t, "france:10200", pick(s.endpoints, "fr-FR"))
	assert.Equal(t, "", pick(s.endpoints, "de-DE"))
}

func TestWyomingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEvent(&buf, wyomingEvent{Type: "audio-chunk", Data: map[string]any{"rate": 1}}, []byte("pcm")))

	evt, payload, err := readEvent(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, "audio-chunk", evt.Type)
	assert.Equal(t, []byte("pcm"), payload)

	_, _, err = readEvent(bufio.NewReader(bytes.NewBufferString("garbage\n")))
	require.Error(t, err)
}
