package dispatch

import (
	"fmt"
	"strings"

	"github.com/nadzzz/newsvox/internal/news"
)

// Fixed responses.
const (
	AskTopicResponse       = "What topic would you like news about?"
	AskLanguageResponse    = "Which language would you like?"
	AskCategoryResponse    = "Which category would you like?"
	NoArticlesResponse     = "There are no articles loaded"
	LastArticleResponse    = "This is the last article"
	FirstArticleResponse   = "This is the first article"
	NextArticleResponse    = "Moving to next article"
	PrevArticleResponse    = "Moving to previous article"
	ReadingResponse        = "Reading article..."
	NothingToReadResponse  = "There is no article to read"
	StoppedResponse        = "Stopped reading"
	PausedResponse         = "Paused reading"
	ResumedResponse        = "Resumed reading"
	RefreshingResponse     = "Refreshing news..."
	RefreshedResponse      = "News refreshed"
	HelpResponse           = "Showing help"
	UnrecognizedResponse   = "I didn't understand that command. You can say things like 'Show me technology news' or 'Read this article'."
	ErrorResponse          = "Sorry, I encountered an error processing your request."
	RecognitionResponse    = "Sorry, I had trouble hearing you. Please try again."
	BusyResponse           = "Please wait, I'm still working on your last request."
	noInputResponseMessage = "message has no audio and no text"
)

func searchingResponse(topic string) string {
	return fmt.Sprintf("Searching for %s news...", topic)
}

func foundResponse(n int, topic string) string {
	return fmt.Sprintf("Found %d articles about %s", n, topic)
}

func openingResponse(n int) string {
	return fmt.Sprintf("Opening article %d", n)
}

func articleNotFoundResponse(param string, count int) string {
	return fmt.Sprintf("Article %s not found. Available articles: 1 to %d", param, count)
}

func readingLanguageResponse(name string) string {
	return "Reading language set to " + name
}

func speakingLanguageResponse(name string) string {
	return "Speaking language set to " + name
}

func loadingResponse(category string) string {
	return fmt.Sprintf("Loading %s news...", category)
}

func loadedResponse(category string) string {
	return fmt.Sprintf("Loaded %s news", category)
}

func categoryNotFoundResponse(param string) string {
	return fmt.Sprintf("Category %s not found. Available categories: %s.", param, strings.Join(news.Categories, ", "))
}
