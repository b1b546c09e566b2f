package csvlate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// markupTags returns the raw start, end and self-closing tags of text in
// order of appearance.
func markupTags(text string) []string {
	if !strings.Contains(text, "<") {
		return nil
	}

	var tags []string
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tags = append(tags, string(z.Raw()))
		}
	}
}

// VisibleText returns the text content of an HTML fragment with all tags
// removed and entities decoded. Unparseable input is returned unchanged.
func VisibleText(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

// IsMarkupOnly reports whether text contains HTML tags but no visible text.
func IsMarkupOnly(text string) bool {
	if len(markupTags(text)) == 0 {
		return false
	}
	return strings.TrimSpace(VisibleText(text)) == ""
}
