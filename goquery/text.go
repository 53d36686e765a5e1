// Package goquery provides HTML parsing implementations of the harvest
// text and link extraction interfaces.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure Text implements harvest.TextExtractor at compile time.
var _ harvest.TextExtractor = (*Text)(nil)

// Text reduces raw HTML to its visible text content.
type Text struct{}

// NewText creates a new Text extractor.
func NewText() *Text {
	return &Text{}
}

// Text parses the HTML, removes script, style, and noscript subtrees, and
// returns the remaining text. Removing the subtrees before flattening
// keeps JavaScript and CSS literals out of contact matching.
func (t *Text) Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style, noscript").Remove()

	return doc.Text(), nil
}
