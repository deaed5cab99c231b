// Package htmltomarkdown converts extracted HTML to the markdown text that
// the selector splits into paragraphs.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/webqa"
)

var _ webqa.Converter = (*Converter)(nil)

var (
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Converter wraps html-to-markdown. Images are dropped and links are reduced
// to their text, since answers are read from prose.
type Converter struct {
	conv *converter.Converter

	// KeepLinks preserves markdown link syntax.
	KeepLinks bool
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", webqa.Errorf(webqa.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	md = imagePattern.ReplaceAllString(md, "")
	if !c.KeepLinks {
		md = linkPattern.ReplaceAllString(md, "$1")
	}
	md = blankRuns.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}
