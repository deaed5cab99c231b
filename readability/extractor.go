// Package readability provides the fallback webqa.Extractor used when the
// primary extractor finds no main content.
package readability

import (
	"strings"

	"github.com/fwojciec/webqa"
	"github.com/go-shiori/go-readability"
)

var _ webqa.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content HTML.
func (e *Extractor) Extract(rawHTML string) (*webqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	content := article.Content
	if strings.TrimSpace(article.TextContent) == "" {
		content = ""
	}

	return &webqa.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: content,
	}, nil
}
