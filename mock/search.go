package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.SearchProvider = (*SearchProvider)(nil)
	_ webqa.Searcher       = (*Searcher)(nil)
	_ webqa.SearchCache    = (*SearchCache)(nil)
)

// SearchProvider is a mock implementation of webqa.SearchProvider.
type SearchProvider struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query string, count int) ([]webqa.SearchHit, error)
}

func (p *SearchProvider) Name() string {
	if p.NameFn == nil {
		return "mock"
	}
	return p.NameFn()
}

func (p *SearchProvider) Search(ctx context.Context, query string, count int) ([]webqa.SearchHit, error) {
	return p.SearchFn(ctx, query, count)
}

// Searcher is a mock implementation of webqa.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) (*webqa.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) (*webqa.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

// SearchCache is a mock implementation of webqa.SearchCache.
type SearchCache struct {
	FindSearchResultFn func(ctx context.Context, signature string) (*webqa.SearchResult, bool, error)
	PutSearchResultFn  func(ctx context.Context, result *webqa.SearchResult) error
}

func (c *SearchCache) FindSearchResult(ctx context.Context, signature string) (*webqa.SearchResult, bool, error) {
	return c.FindSearchResultFn(ctx, signature)
}

func (c *SearchCache) PutSearchResult(ctx context.Context, result *webqa.SearchResult) error {
	return c.PutSearchResultFn(ctx, result)
}
