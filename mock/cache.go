package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.CacheMaintainer = (*CacheMaintainer)(nil)

// CacheMaintainer is a mock implementation of webqa.CacheMaintainer.
type CacheMaintainer struct {
	EvictExpiredFn func(ctx context.Context) (webqa.EvictResult, error)
	StatsFn        func(ctx context.Context) (webqa.CacheStats, error)
}

func (m *CacheMaintainer) EvictExpired(ctx context.Context) (webqa.EvictResult, error) {
	return m.EvictExpiredFn(ctx)
}

func (m *CacheMaintainer) Stats(ctx context.Context) (webqa.CacheStats, error) {
	return m.StatsFn(ctx)
}
