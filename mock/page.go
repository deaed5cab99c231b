package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.PageCache     = (*PageCache)(nil)
	_ webqa.PageCollector = (*PageCollector)(nil)
)

// PageCache is a mock implementation of webqa.PageCache.
type PageCache struct {
	FindPageFn func(ctx context.Context, url string) (*webqa.Page, bool, error)
	PutPageFn  func(ctx context.Context, page *webqa.Page) error
}

func (c *PageCache) FindPage(ctx context.Context, url string) (*webqa.Page, bool, error) {
	return c.FindPageFn(ctx, url)
}

func (c *PageCache) PutPage(ctx context.Context, page *webqa.Page) error {
	return c.PutPageFn(ctx, page)
}

// PageCollector is a mock implementation of webqa.PageCollector.
type PageCollector struct {
	CollectPagesFn func(ctx context.Context, urls []string) ([]*webqa.Page, error)
}

func (c *PageCollector) CollectPages(ctx context.Context, urls []string) ([]*webqa.Page, error) {
	return c.CollectPagesFn(ctx, urls)
}
