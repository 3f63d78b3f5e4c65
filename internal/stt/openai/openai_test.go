package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/stt"
)

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return newTranscriber(openai.NewClientWithConfig(cfg), "")
}

func TestTranscribe(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, openai.Whisper1, r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "es", r.FormValue("language"))
		_, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			assert.Equal(t, "audio.webm", hdr.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"transcribe","language":"spanish","duration":1.2,"text":"siguiente artículo"}`))
	})
	assert.Equal(t, "openai", tr.Name())

	res, err := tr.Transcribe(context.Background(), []byte("webm-bytes"), "audio/webm", stt.TranscribeOpts{Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "siguiente artículo", res.Text)
	assert.Equal(t, "es", res.Language)
}

func TestTranscribeError(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	_, err := tr.Transcribe(context.Background(), []byte("x"), "audio/wav", stt.TranscribeOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription request")
}
