package webqa

import "context"

// ExtractResult is the readable part of a fetched page.
type ExtractResult struct {
	// Title is the page title, taken from metadata when present.
	Title string

	// ContentHTML is the article body as HTML with navigation, footers,
	// comments and ads removed. Empty when no article text was found.
	ContentHTML string
}

// Extractor isolates the article body of a page so that passage selection
// only scores text a reader would see.
type Extractor interface {
	// Extract returns the article body of html. A page without article text
	// yields an empty ContentHTML rather than an error.
	Extract(html string) (*ExtractResult, error)
}

// Converter turns extracted HTML into the markdown text stored in the page
// cache. Paragraph breaks must survive conversion as blank lines.
type Converter interface {
	Convert(html string) (string, error)
}

// TokenCounter measures text in answer model tokens. Passages are cut to a
// token budget before inference.
type TokenCounter interface {
	// CountTokens returns the number of tokens text occupies in a user turn.
	CountTokens(ctx context.Context, text string) (int, error)
}
