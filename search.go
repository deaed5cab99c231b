package webqa

import (
	"context"
	"time"
)

// SearchHit is a single item returned by a search provider.
type SearchHit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchResult is the ordered list of hits returned for one search request.
type SearchResult struct {
	Signature   string      `json:"signature"`
	QueryKey    string      `json:"queryKey"`
	Provider    string      `json:"provider"`
	Hits        []SearchHit `json:"hits"`
	RetrievedAt time.Time   `json:"retrievedAt"`
}

// Validate returns an error if the search result contains invalid fields.
func (r *SearchResult) Validate() error {
	if r.Signature == "" {
		return Errorf(EINVALID, "search result signature required")
	}
	if r.QueryKey == "" {
		return Errorf(EINVALID, "search result query key required")
	}
	return nil
}

// URLs returns the hit URLs in result order.
func (r *SearchResult) URLs() []string {
	urls := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		urls = append(urls, h.URL)
	}
	return urls
}

// SearchProvider executes a remote search. Every call may spend quota.
type SearchProvider interface {
	// Name identifies the provider in cache signatures and logs.
	Name() string

	// Search sends the raw query text to the provider and returns up to count hits.
	// Returns an error coded EQUOTA when the provider rejects the call for
	// rate or quota reasons, and EUNAVAILABLE on connectivity failure.
	Search(ctx context.Context, query string, count int) ([]SearchHit, error)
}

// Searcher returns search results for a query, consulting the cache before
// any remote provider.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// SearchCache persists search results keyed by request signature.
type SearchCache interface {
	// FindSearchResult returns the live result for a signature.
	// Returns ok=false when the signature is missing or its entry has expired.
	FindSearchResult(ctx context.Context, signature string) (result *SearchResult, ok bool, err error)

	// PutSearchResult inserts or wholly replaces the result for its signature.
	PutSearchResult(ctx context.Context, result *SearchResult) error
}
