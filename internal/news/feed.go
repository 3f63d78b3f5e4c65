package news

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/nadzzz/newsvox/internal/config"
)

// Feed reads headlines from RSS/Atom feeds configured per category.
// Country is ignored: feeds are already regional by choice of URL.
type Feed struct {
	feeds  map[string][]string
	max    int
	parser *gofeed.Parser
}

var _ Source = (*Feed)(nil)

// NewFeed creates a feed-backed source from config.
func NewFeed(cfg config.RSSConfig) *Feed {
	feeds := make(map[string][]string, len(cfg.Feeds))
	for cat, urls := range cfg.Feeds {
		feeds[strings.ToLower(cat)] = urls
	}
	maxItems := cfg.Max
	if maxItems <= 0 {
		maxItems = 20
	}
	return &Feed{
		feeds:  feeds,
		max:    maxItems,
		parser: gofeed.NewParser(),
	}
}

// Fetch returns the newest items across the feeds of category.
func (f *Feed) Fetch(ctx context.Context, category, country string) ([]Article, error) {
	urls := f.feeds[strings.ToLower(category)]
	if len(urls) == 0 {
		return nil, fmt.Errorf("rss: no feeds configured for category %q", category)
	}
	articles, err := f.collect(ctx, urls)
	if err != nil {
		return nil, err
	}
	return f.limit(articles), nil
}

// Search returns items from every configured feed whose title or description
// contains query. Lang is ignored.
func (f *Feed) Search(ctx context.Context, query, lang string) ([]Article, error) {
	seen := make(map[string]bool)
	var urls []string
	for _, cat := range Categories {
		for _, u := range f.feeds[cat] {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("rss: no feeds configured")
	}

	all, err := f.collect(ctx, urls)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := all[:0]
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Description), needle) {
			matches = append(matches, a)
		}
	}
	return f.limit(matches), nil
}

// collect parses every url, skipping feeds that fail as long as one succeeds.
func (f *Feed) collect(ctx context.Context, urls []string) ([]Article, error) {
	var (
		articles []Article
		lastErr  error
		ok       int
	)
	for _, u := range urls {
		feed, err := f.parser.ParseURLWithContext(u, ctx)
		if err != nil {
			slog.Warn("rss feed failed", "url", u, "error", err)
			lastErr = err
			continue
		}
		ok++
		articles = append(articles, fromFeed(feed)...)
	}
	if ok == 0 {
		return nil, fmt.Errorf("rss: all feeds failed: %w", lastErr)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	return articles, nil
}

func (f *Feed) limit(articles []Article) []Article {
	if len(articles) > f.max {
		return articles[:f.max]
	}
	return articles
}

func fromFeed(feed *gofeed.Feed) []Article {
	out := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := time.Time{}
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		var image string
		if item.Image != nil {
			image = item.Image.URL
		}

		out = append(out, Article{
			Title:       strings.TrimSpace(item.Title),
			Description: cleanText(description),
			URL:         item.Link,
			ImageURL:    image,
			PublishedAt: published,
			SourceName:  feed.Title,
		})
	}
	return out
}
