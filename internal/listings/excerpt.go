package listings

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptLength is the rune budget of a listing excerpt.
const DefaultExcerptLength = 200

// PlainText strips markup from an HTML description and collapses whitespace.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements would otherwise run their text together.
	doc.Find("p, li, br, h1, h2, h3, h4, h5, h6, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// Excerpt returns at most limit runes of the description's plain text,
// cut on a word boundary with an ellipsis when truncated.
func Excerpt(html string, limit int) (string, error) {
	text, err := PlainText(html)
	if err != nil {
		return "", err
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, nil
	}

	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…", nil
}
