package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/news"
)

// prefixTranslator tags text with the target code, like the demo translator
// the web app shipped with.
type prefixTranslator struct {
	failOn string
	calls  int
}

func (p *prefixTranslator) Translate(_ context.Context, text, target string) (string, error) {
	p.calls++
	if text == p.failOn {
		return "", errors.New("quota exceeded")
	}
	return "[" + target + "] " + text, nil
}

func TestArticles(t *testing.T) {
	in := []news.Article{
		{Title: "Markets rally", Description: "Stocks rose"},
		{Title: "No description"},
	}
	tr := &prefixTranslator{}

	out, err := Articles(context.Background(), tr, in, "es")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "[es] Markets rally", out[0].TranslatedTitle)
	assert.Equal(t, "[es] Stocks rose", out[0].TranslatedDescription)
	assert.Equal(t, "[es] No description", out[1].TranslatedTitle)
	assert.Empty(t, out[1].TranslatedDescription)
	assert.Equal(t, 3, tr.calls)

	assert.Empty(t, in[0].TranslatedTitle, "input must not be mutated")
}

func TestArticlesEnglishIsNoop(t *testing.T) {
	in := []news.Article{{Title: "Hello"}}
	tr := &prefixTranslator{}

	out, err := Articles(context.Background(), tr, in, "en")
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Zero(t, tr.calls)
}

func TestArticlesErrorKeepsOriginal(t *testing.T) {
	in := []news.Article{{Title: "ok"}, {Title: "bad"}}

	out, err := Articles(context.Background(), &prefixTranslator{failOn: "bad"}, in, "fr")
	require.Error(t, err)
	assert.Equal(t, in, out)
}

func TestPassthrough(t *testing.T) {
	got, err := Passthrough{}.Translate(context.Background(), "unchanged", "de")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", got)
}

func TestOpenAITranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Contains(t, req.Messages[0].Content, `"es"`)
			assert.Equal(t, "Good morning", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: " Buenos días \n"}},
			},
		})
	}))
	defer server.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	tr := newOpenAI(openai.NewClientWithConfig(cfg), "gpt-test")

	got, err := tr.Translate(context.Background(), "Good morning", "es")
	require.NoError(t, err)
	assert.Equal(t, "Buenos días", got)

	got, err = tr.Translate(context.Background(), "  ", "es")
	require.NoError(t, err)
	assert.Equal(t, "  ", got)
}

func TestOpenAITranslateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	tr := newOpenAI(openai.NewClientWithConfig(cfg), "")

	_, err := tr.Translate(context.Background(), "Hello", "fr")
	require.Error(t, err)
}
