// Package command defines the voice command grammar and the parser that maps
// free-form transcripts onto typed commands.
//
// The grammar is an ordered list of rules. Rules are evaluated in priority
// order and the first one that matches anywhere in the transcript wins; there
// is no backtracking across rules once one has matched.
package command

import "regexp"

// Action is the closed set of command kinds the dispatcher understands.
type Action int

const (
	Unrecognized Action = iota
	SearchNews
	OpenArticle
	NextArticle
	PreviousArticle
	ReadArticle
	StopReading
	PauseReading
	ResumeReading
	SetReadingLanguage
	SetSpeakingLanguage
	ChangeCategory
	RefreshNews
	ShowHelp
)

var actionNames = map[Action]string{
	Unrecognized:        "unrecognized",
	SearchNews:          "search_news",
	OpenArticle:         "open_article",
	NextArticle:         "next_article",
	PreviousArticle:     "previous_article",
	ReadArticle:         "read_article",
	StopReading:         "stop_reading",
	PauseReading:        "pause_reading",
	ResumeReading:       "resume_reading",
	SetReadingLanguage:  "set_reading_language",
	SetSpeakingLanguage: "set_speaking_language",
	ChangeCategory:      "change_category",
	RefreshNews:         "refresh_news",
	ShowHelp:            "show_help",
}

// String returns the snake_case wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return actionNames[Unrecognized]
}

// MarshalText encodes the action by its wire name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Rule maps a transcript pattern onto an action. Pattern has at most one
// capturing group; its match becomes the command parameter.
type Rule struct {
	Pattern     *regexp.Regexp
	Action      Action
	Description string
	Example     string
}

// Command is the result of parsing a transcript. It is created once per
// transcript and consumed once by the dispatcher.
type Command struct {
	Action Action `json:"action"`

	// Param is the trimmed capture of the matching rule, empty when the rule
	// captures nothing or the capture was blank.
	Param string `json:"param,omitempty"`
}

// HasParam reports whether the command carries a non-empty parameter.
func (c Command) HasParam() bool { return c.Param != "" }

// grammar is the fixed rule table in priority order. Rule 3 is authoritative
// for "open article N"; rule 4 only sees "go to"/"show" phrasings that rule 3
// did not already claim.
var grammar = []Rule{
	{
		Pattern:     regexp.MustCompile(`(?i)show me (.*) news`),
		Action:      SearchNews,
		Description: "Search for news by topic",
		Example:     "Show me technology news",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)what's new in (.*)`),
		Action:      SearchNews,
		Description: "Search for news by topic",
		Example:     "What's new in sports",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)open article (?:number )?(\d+)`),
		Action:      OpenArticle,
		Description: "Open a specific article by number",
		Example:     "Open article 2",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)(?:go to|show) article (?:number )?(\d+)`),
		Action:      OpenArticle,
		Description: "Navigate to a specific article",
		Example:     "Go to article 3",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)next article?`),
		Action:      NextArticle,
		Description: "Go to the next article",
		Example:     "Next article",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)previous article?`),
		Action:      PreviousArticle,
		Description: "Go to the previous article",
		Example:     "Previous article",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)read (?:this )?article`),
		Action:      ReadArticle,
		Description: "Read the current article aloud",
		Example:     "Read this article",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)stop reading`),
		Action:      StopReading,
		Description: "Stop reading the current article",
		Example:     "Stop reading",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)pause reading`),
		Action:      PauseReading,
		Description: "Pause reading the current article",
		Example:     "Pause reading",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)resume reading`),
		Action:      ResumeReading,
		Description: "Resume reading the current article",
		Example:     "Resume reading",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)set reading language to (.*)`),
		Action:      SetReadingLanguage,
		Description: "Change the reading language",
		Example:     "Set reading language to Spanish",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)set speaking language to (.*)`),
		Action:      SetSpeakingLanguage,
		Description: "Change the speaking language",
		Example:     "Set speaking language to English",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)show (.*) category`),
		Action:      ChangeCategory,
		Description: "Change news category",
		Example:     "Show business category",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)refresh news`),
		Action:      RefreshNews,
		Description: "Refresh the news feed",
		Example:     "Refresh news",
	},
	{
		Pattern:     regexp.MustCompile(`(?i)show help`),
		Action:      ShowHelp,
		Description: "Show available voice commands",
		Example:     "Show help",
	},
}

// Rules returns a copy of the grammar in priority order.
func Rules() []Rule {
	out := make([]Rule, len(grammar))
	copy(out, grammar)
	return out
}
