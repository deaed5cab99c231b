// Package trafilatura provides the primary webqa.Extractor, tuned for
// article-style pages returned by web search.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/webqa"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ webqa.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a page.
type Extractor struct {
	// IncludeComments keeps user comment sections in the output.
	IncludeComments bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main content HTML. A page where no
// main content is found yields an empty ContentHTML, not an error, so the
// caller can try a fallback extractor.
func (e *Extractor) Extract(rawHTML string) (*webqa.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: !e.IncludeComments,
	})
	if err != nil {
		return nil, err
	}

	out := &webqa.ExtractResult{Title: strings.TrimSpace(result.Metadata.Title)}
	if result.ContentNode == nil || strings.TrimSpace(result.ContentText) == "" {
		return out, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}
	out.ContentHTML = buf.String()
	return out, nil
}
