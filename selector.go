package webqa

import "context"

// Passage is the text selected from a page as the context for answering.
type Passage struct {
	URL   string
	Title string
	Text  string
	Score float64
}

// Selector ranks candidate pages against a query.
type Selector interface {
	// Select returns the passage that best matches the query.
	// Returns ENORELEVANT when no page is sufficiently relevant.
	Select(ctx context.Context, query string, pages []*Page) (*Passage, error)
}
