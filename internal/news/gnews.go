package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nadzzz/newsvox/internal/config"
)

// GNews reads headlines from the GNews v4 REST API.
type GNews struct {
	apiKey    string
	baseURL   string
	fetchMax  int
	searchMax int
	client    *http.Client
	limiter   *rate.Limiter
}

var _ Source = (*GNews)(nil)

// gnewsResponse is the body of /top-headlines and /search.
type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// NewGNews creates a GNews client from config.
func NewGNews(cfg config.GNewsConfig) *GNews {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	fetchMax := cfg.FetchMax
	if fetchMax <= 0 {
		fetchMax = 5
	}
	searchMax := cfg.SearchMax
	if searchMax <= 0 {
		searchMax = 20
	}
	return &GNews{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		fetchMax:  fetchMax,
		searchMax: searchMax,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Fetch returns the top headlines for category and country.
func (g *GNews) Fetch(ctx context.Context, category, country string) ([]Article, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("country", country)
	q.Set("max", strconv.Itoa(g.fetchMax))

	slog.Debug("gnews fetch", "category", category, "country", country)
	return g.get(ctx, "/top-headlines", q)
}

// Search returns articles matching query in language lang.
func (g *GNews) Search(ctx context.Context, query, lang string) ([]Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("lang", lang)
	q.Set("max", strconv.Itoa(g.searchMax))

	slog.Debug("gnews search", "query", query, "lang", lang)
	return g.get(ctx, "/search", q)
}

func (g *GNews) get(ctx context.Context, path string, q url.Values) ([]Article, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gnews: rate limiter wait: %w", err)
	}

	q.Set("apikey", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gnews: creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gnews: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gnews: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("gnews: decoding response: %w", err)
	}

	articles := make([]Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		articles = append(articles, Article{
			Title:       strings.TrimSpace(a.Title),
			Description: cleanText(a.Description),
			URL:         a.URL,
			ImageURL:    a.Image,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
	}
	return articles, nil
}
