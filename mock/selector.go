package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.Selector = (*Selector)(nil)

// Selector is a mock implementation of webqa.Selector.
type Selector struct {
	SelectFn func(ctx context.Context, query string, pages []*webqa.Page) (*webqa.Passage, error)
}

func (s *Selector) Select(ctx context.Context, query string, pages []*webqa.Page) (*webqa.Passage, error) {
	return s.SelectFn(ctx, query, pages)
}
