package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cleanText strips markup from feed and API snippets and collapses whitespace,
// so descriptions can be shown and spoken as plain text.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
