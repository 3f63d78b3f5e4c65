// Package news defines the article model and the News Source contract, plus
// the concrete backends newsvox can read headlines from.
package news

import (
	"context"
	"strings"
	"time"
)

// Article is a single news item. Articles are replaced wholesale on every
// successful fetch or search; only the translation fields are attached later.
type Article struct {
	Title                 string    `json:"title"`
	TranslatedTitle       string    `json:"translated_title,omitempty"`
	Description           string    `json:"description"`
	TranslatedDescription string    `json:"translated_description,omitempty"`
	URL                   string    `json:"url"`
	ImageURL              string    `json:"image_url,omitempty"`
	PublishedAt           time.Time `json:"published_at"`
	SourceName            string    `json:"source_name"`
}

// SpokenTitle returns the translated title when present, else the original.
func (a Article) SpokenTitle() string {
	if a.TranslatedTitle != "" {
		return a.TranslatedTitle
	}
	return a.Title
}

// Source is the News Source collaborator.
type Source interface {
	// Fetch returns the top headlines for a category in a country.
	Fetch(ctx context.Context, category, country string) ([]Article, error)

	// Search returns articles matching a free-text query in a language.
	Search(ctx context.Context, query, lang string) ([]Article, error)
}

// Categories is the fixed set of selectable categories, in display order.
var Categories = []string{
	"general",
	"world",
	"nation",
	"business",
	"technology",
	"entertainment",
	"sports",
	"science",
	"health",
}

// DefaultCategory is the category selected at startup.
const DefaultCategory = "general"

// IsCategory reports whether name (case-insensitive) is a known category.
func IsCategory(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Country is a selectable headline region.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries lists the regions offered for top headlines.
var Countries = []Country{
	{Code: "us", Name: "United States"},
	{Code: "gb", Name: "United Kingdom"},
	{Code: "ca", Name: "Canada"},
	{Code: "au", Name: "Australia"},
	{Code: "de", Name: "Germany"},
	{Code: "fr", Name: "France"},
	{Code: "jp", Name: "Japan"},
	{Code: "in", Name: "India"},
	{Code: "br", Name: "Brazil"},
	{Code: "mx", Name: "Mexico"},
}

// DefaultCountry is the region selected at startup.
const DefaultCountry = "us"
