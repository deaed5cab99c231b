package webqa

import (
	"context"
	"time"
)

// Page is the extracted content of a fetched web page.
type Page struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // Markdown
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`

	// Err records why no text was extracted. Not persisted.
	Err error `json:"-"`
}

// HasText reports whether any text was extracted from the page.
// A page without text is the "no text extracted" marker of a collection batch.
func (p *Page) HasText() bool {
	return p != nil && p.Content != ""
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Content == "" {
		return Errorf(EINVALID, "page content required")
	}
	return nil
}

// PageCache persists extracted pages keyed by URL.
type PageCache interface {
	// FindPage returns the live page for a URL.
	// Returns ok=false when the URL is missing or its entry has expired.
	FindPage(ctx context.Context, url string) (page *Page, ok bool, err error)

	// PutPage inserts or wholly replaces the page for its URL.
	PutPage(ctx context.Context, page *Page) error
}

// PageCollector fetches and extracts a batch of URLs.
type PageCollector interface {
	// CollectPages returns one page per distinct URL, in input order.
	// A URL that fails does not abort the batch: its page has no text and
	// carries the failure in Err.
	CollectPages(ctx context.Context, urls []string) ([]*Page, error)
}
