package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/config"
)

const gnewsBody = `{
  "totalArticles": 2,
  "articles": [
    {
      "title": " Markets rally ",
      "description": "<p>Stocks <b>rose</b> sharply</p>",
      "url": "https://example.com/markets",
      "image": "https://example.com/markets.jpg",
      "publishedAt": "2024-05-01T10:00:00Z",
      "source": {"name": "Example Wire", "url": "https://example.com"}
    },
    {
      "title": "Rates unchanged",
      "description": "The central bank held rates.",
      "url": "https://example.com/rates",
      "publishedAt": "2024-05-01T09:00:00Z",
      "source": {"name": "Example Wire"}
    }
  ]
}`

func newTestGNews(url string) *GNews {
	return NewGNews(config.GNewsConfig{
		APIKey:  "test-key",
		BaseURL: url + "/",
		Timeout: 5 * time.Second,
	})
}

func TestGNewsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "business", q.Get("category"))
		assert.Equal(t, "gb", q.Get("country"))
		assert.Equal(t, "5", q.Get("max"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gnewsBody))
	}))
	defer server.Close()

	articles, err := newTestGNews(server.URL).Fetch(context.Background(), "business", "gb")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Markets rally", first.Title)
	assert.Equal(t, "Stocks rose sharply", first.Description)
	assert.Equal(t, "https://example.com/markets.jpg", first.ImageURL)
	assert.Equal(t, "Example Wire", first.SourceName)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), first.PublishedAt.UTC())
	assert.Empty(t, first.TranslatedTitle)
}

func TestGNewsSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "climate change", q.Get("q"))
		assert.Equal(t, "es", q.Get("lang"))
		assert.Equal(t, "20", q.Get("max"))
		_, _ = w.Write([]byte(`{"totalArticles":0,"articles":[]}`))
	}))
	defer server.Close()

	articles, err := newTestGNews(server.URL).Search(context.Background(), "climate change", "es")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestGNewsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["quota exceeded"]}`, http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestGNews(server.URL).Fetch(context.Background(), "general", "us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGNewsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"articles": [`))
	}))
	defer server.Close()

	_, err := newTestGNews(server.URL).Search(context.Background(), "x", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "plain text", cleanText("  plain \n text "))
	assert.Equal(t, "Hello world & friends", cleanText("<div>Hello <i>world</i> &amp; friends</div>"))
	assert.Equal(t, "", cleanText(""))
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("business"))
	assert.True(t, IsCategory(" Technology "))
	assert.False(t, IsCategory("astrology"))
	assert.Len(t, Categories, 9)
}

func TestSpokenTitle(t *testing.T) {
	a := Article{Title: "Hello"}
	assert.Equal(t, "Hello", a.SpokenTitle())
	a.TranslatedTitle = "Hola"
	assert.Equal(t, "Hola", a.SpokenTitle())
}
