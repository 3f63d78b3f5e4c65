package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/news"
	"github.com/nadzzz/newsvox/internal/speech"
	"github.com/nadzzz/newsvox/internal/state"
)

// echoHandler records the message it received and answers with its text.
type echoHandler struct {
	got *message.Message
	err error
}

func (e *echoHandler) handle(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
	e.got = msg
	return &message.DispatchResult{
		MessageID:    msg.ID,
		Transcript:   msg.Text,
		Action:       "next_article",
		ResponseText: "Moving to next article",
	}, e.err
}

func newServer(t *testing.T, views Views, h *echoHandler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(0, views).Handler(h.handle))
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestDispatchJSON(t *testing.T) {
	h := &echoHandler{}
	srv := newServer(t, Views{}, h)

	body := `{"source":"phone-alice","text":"next article","response_mode":"text"}`
	resp, err := http.Post(srv.URL+"/dispatch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[message.DispatchResult](t, resp.Body)
	assert.Equal(t, "Moving to next article", result.ResponseText)
	assert.NotEmpty(t, result.MessageID, "an ID is assigned")

	require.NotNil(t, h.got)
	assert.Equal(t, "phone-alice", h.got.Source)
	assert.Equal(t, "next article", h.got.Text)
	assert.False(t, h.got.Timestamp.IsZero())
}

func TestDispatchPlainText(t *testing.T) {
	h := &echoHandler{}
	srv := newServer(t, Views{}, h)

	resp, err := http.Post(srv.URL+"/dispatch", "text/plain; charset=utf-8", strings.NewReader("refresh news"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refresh news", h.got.Text)
}

func TestDispatchRawAudio(t *testing.T) {
	h := &echoHandler{}
	srv := newServer(t, Views{}, h)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/dispatch", bytes.NewReader([]byte("RIFFdata")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "audio/wav")
	req.Header.Set("X-Newsvox-Source", "kitchen")
	req.Header.Set("X-Newsvox-Response-Mode", "text+audio")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("RIFFdata"), h.got.Audio)
	assert.Equal(t, "audio/wav", h.got.ContentType)
	assert.Equal(t, "kitchen", h.got.Source)
	assert.Equal(t, message.ResponseModeTextAudio, h.got.ResponseMode)
}

func TestDispatchInvalidJSON(t *testing.T) {
	srv := newServer(t, Views{}, &echoHandler{})
	resp, err := http.Post(srv.URL+"/dispatch", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatchBusy(t *testing.T) {
	srv := newServer(t, Views{}, &echoHandler{err: dispatch.ErrBusy})
	resp, err := http.Post(srv.URL+"/dispatch", "text/plain", strings.NewReader("next article"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	result := decode[message.DispatchResult](t, resp.Body)
	assert.Equal(t, "next_article", result.Action)
}

func TestCommands(t *testing.T) {
	srv := newServer(t, Views{}, &echoHandler{})
	resp, err := http.Get(srv.URL + "/commands")
	require.NoError(t, err)
	defer resp.Body.Close()

	entries := decode[[]message.HelpEntry](t, resp.Body)
	require.Len(t, entries, 15)
	assert.Equal(t, "show_help", entries[14].Action)
}

func TestStateView(t *testing.T) {
	st := state.New(state.WithCategory("science"))
	st.ReplaceArticles([]news.Article{{Title: "Comet spotted"}})
	views := Views{State: func() state.State { return st.Snapshot() }}
	srv := newServer(t, views, &echoHandler{})

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"category":"science"`)
	assert.Contains(t, string(body), `"playback":"idle"`)
	assert.Contains(t, string(body), `"title":"Comet spotted"`)
}

func TestLastClip(t *testing.T) {
	var clip *speech.Clip
	views := Views{LastClip: func() (speech.Clip, bool) {
		if clip == nil {
			return speech.Clip{}, false
		}
		return *clip, true
	}}
	srv := newServer(t, views, &echoHandler{})

	resp, err := http.Get(srv.URL + "/speech/last")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	clip = &speech.Clip{Text: "News refreshed", Locale: "en-US", ContentType: "audio/wav", Audio: []byte("RIFF")}
	resp, err = http.Get(srv.URL + "/speech/last")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
	assert.Equal(t, "en-US", resp.Header.Get("X-Newsvox-Locale"))
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, []byte("RIFF"), data)
}

func TestDisabledViews(t *testing.T) {
	srv := newServer(t, Views{}, &echoHandler{})
	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatchJSONTooLarge(t *testing.T) {
	h := &echoHandler{}
	body := `{"text":"` + strings.Repeat("a", maxJSONBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	New(0, Views{}).Handler(h.handle).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, h.got, "the handler is not reached")
}

func TestLanguages(t *testing.T) {
	srv := newServer(t, Views{}, &echoHandler{})
	resp, err := http.Get(srv.URL + "/languages")
	require.NoError(t, err)
	defer resp.Body.Close()

	entries := decode[[]message.LanguageEntry](t, resp.Body)
	require.Len(t, entries, 12)
	assert.Equal(t, message.LanguageEntry{Name: "arabic", Reading: "ar", Speech: "ar-SA"}, entries[0])
	assert.Contains(t, entries, message.LanguageEntry{Name: "portuguese", Reading: "pt", Speech: "pt-BR"})
}
