// Package translate implements the Translation Service collaborator and the
// helper that attaches translated titles and descriptions to articles.
package translate

import (
	"context"
	"fmt"

	"github.com/nadzzz/newsvox/internal/news"
)

// Translator translates text into a target ISO-639-1 language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Passthrough returns text unchanged. It is used when translation is disabled.
type Passthrough struct{}

// Translate returns text as-is.
func (Passthrough) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// Articles returns a copy of articles with the translation fields populated
// for lang. English needs no translation and is returned untouched. On error
// the original slice is returned together with the error.
func Articles(ctx context.Context, t Translator, articles []news.Article, lang string) ([]news.Article, error) {
	if t == nil || lang == "" || lang == "en" || len(articles) == 0 {
		return articles, nil
	}

	out := make([]news.Article, len(articles))
	copy(out, articles)
	for i := range out {
		title, err := t.Translate(ctx, out[i].Title, lang)
		if err != nil {
			return articles, fmt.Errorf("translating title of article %d: %w", i+1, err)
		}
		out[i].TranslatedTitle = title

		if out[i].Description == "" {
			continue
		}
		desc, err := t.Translate(ctx, out[i].Description, lang)
		if err != nil {
			return articles, fmt.Errorf("translating description of article %d: %w", i+1, err)
		}
		out[i].TranslatedDescription = desc
	}
	return out, nil
}
