// Package state holds the application state the dispatcher operates on:
// the loaded article list, the current position, the news category and
// country, the reading/speaking languages and the playback status.
//
// State is a plain value with no locking. It has a single owner (the
// dispatcher) which serializes mutation and hands out Snapshots to readers.
package state

import (
	"slices"

	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/news"
	"github.com/nadzzz/newsvox/internal/speech"
)

// State is the mutable application state.
type State struct {
	Articles         []news.Article `json:"articles"`
	Index            int            `json:"index"`
	Category         string         `json:"category"`
	Country          string         `json:"country"`
	ReadingLanguage  string         `json:"reading_language"`
	SpeakingLanguage string         `json:"speaking_language"`
	Playback         speech.Status  `json:"playback"`
}

// Option adjusts the initial state.
type Option func(*State)

// WithCategory sets the initial category. Unknown categories are ignored.
func WithCategory(category string) Option {
	return func(s *State) {
		if news.IsCategory(category) {
			s.Category = category
		}
	}
}

// WithCountry sets the initial country code.
func WithCountry(country string) Option {
	return func(s *State) {
		if country != "" {
			s.Country = country
		}
	}
}

// WithLanguages sets the initial reading and speaking codes. Empty values
// keep the defaults.
func WithLanguages(reading, speaking string) Option {
	return func(s *State) {
		if reading != "" {
			s.ReadingLanguage = reading
		}
		if speaking != "" {
			s.SpeakingLanguage = speaking
		}
	}
}

// New returns a state with defaults applied: general news for the US,
// English reading and en-US speech, nothing playing.
func New(opts ...Option) *State {
	s := &State{
		Category:         news.DefaultCategory,
		Country:          news.DefaultCountry,
		ReadingLanguage:  language.DefaultReading,
		SpeakingLanguage: language.DefaultSpeech,
		Playback:         speech.Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count returns the number of loaded articles.
func (s *State) Count() int { return len(s.Articles) }

// ReplaceArticles swaps in a new article list and resets the position.
func (s *State) ReplaceArticles(articles []news.Article) {
	s.Articles = slices.Clone(articles)
	s.Index = 0
}

// SetIndex moves to position i, clamped to the loaded range.
func (s *State) SetIndex(i int) {
	s.Index = clamp(i, len(s.Articles))
}

// Current returns the article at the current position.
func (s *State) Current() (news.Article, bool) {
	if s.Index < 0 || s.Index >= len(s.Articles) {
		return news.Article{}, false
	}
	return s.Articles[s.Index], true
}

// Next advances one article. It reports false at the last article.
func (s *State) Next() bool {
	if s.Index >= len(s.Articles)-1 {
		return false
	}
	s.Index++
	return true
}

// Previous steps back one article. It reports false at the first article.
func (s *State) Previous() bool {
	if s.Index <= 0 {
		return false
	}
	s.Index--
	return true
}

// Snapshot returns a copy that shares nothing mutable with s.
func (s *State) Snapshot() State {
	cp := *s
	cp.Articles = slices.Clone(s.Articles)
	return cp
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
