// Package language resolves spoken language names to reading and speech codes.
//
// Both tables are fixed and read-only. Resolution never fails: unknown names
// fall back to English.
package language

import (
	"sort"
	"strings"
)

const (
	// DefaultReading is the reading code used for unknown language names.
	DefaultReading = "en"

	// DefaultSpeech is the speech locale used for unknown language names.
	DefaultSpeech = "en-US"
)

type entry struct {
	reading string
	speech  string
}

var table = map[string]entry{
	"english":    {"en", "en-US"},
	"spanish":    {"es", "es-ES"},
	"french":     {"fr", "fr-FR"},
	"german":     {"de", "de-DE"},
	"italian":    {"it", "it-IT"},
	"portuguese": {"pt", "pt-BR"},
	"russian":    {"ru", "ru-RU"},
	"japanese":   {"ja", "ja-JP"},
	"korean":     {"ko", "ko-KR"},
	"chinese":    {"zh", "zh-CN"},
	"arabic":     {"ar", "ar-SA"},
	"hindi":      {"hi", "hi-IN"},
}

func lookup(name string) (entry, bool) {
	e, ok := table[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// ReadingCodeFor returns the ISO-639-1 code for a spoken language name.
func ReadingCodeFor(name string) string {
	if e, ok := lookup(name); ok {
		return e.reading
	}
	return DefaultReading
}

// SpeechCodeFor returns the speech-synthesis locale for a spoken language name.
func SpeechCodeFor(name string) string {
	if e, ok := lookup(name); ok {
		return e.speech
	}
	return DefaultSpeech
}

// Names returns the supported language names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BaseLanguage returns the primary subtag of a locale ("pt-BR" -> "pt").
func BaseLanguage(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}

// Normalize maps a detected language, given either as a code or as a full
// English name ("english"), to an ISO-639-1 code. Unknown names are returned
// lowercased so callers can still log them.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if len(lang) == 2 {
		return strings.ToLower(lang)
	}
	if e, ok := lookup(lang); ok {
		return e.reading
	}
	return strings.ToLower(lang)
}
