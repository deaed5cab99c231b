// Package search provides the cache-first search gateway that sits between
// the pipeline and a metered remote search provider.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
	"golang.org/x/time/rate"
)

var _ webqa.Searcher = (*Gateway)(nil)

// Config controls how the gateway spends provider quota.
type Config struct {
	// MaxResults is the number of hits requested per search.
	MaxResults int `yaml:"max_results"`

	// MaxRetries is the number of automatic retries after a quota or
	// connectivity failure. Values above 1 are clamped to 1.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the backoff used when the provider gives no hint.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// MaxBackoff caps any backoff, including provider hints.
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// RequestsPerSecond paces remote calls. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DefaultConfig returns a configuration suited to the Brave free tier.
func DefaultConfig() Config {
	return Config{
		MaxResults:        10,
		MaxRetries:        1,
		RetryDelay:        time.Second,
		MaxBackoff:        5 * time.Second,
		RequestsPerSecond: 1,
	}
}

// Gateway returns search results from the cache when a live entry exists,
// and from the remote provider otherwise.
type Gateway struct {
	provider webqa.SearchProvider
	cache    webqa.SearchCache
	cfg      Config
	limiter  *rate.Limiter
	logger   *slog.Logger

	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a gateway. A nil logger discards log output.
func NewGateway(provider webqa.SearchProvider, cache webqa.SearchCache, cfg Config, logger *slog.Logger) *Gateway {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	if cfg.MaxRetries > 1 {
		cfg.MaxRetries = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Gateway{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
		Sleep:    sleep,
	}
}

// Search returns the results for query. A live cache entry is returned
// without any remote call. On a miss exactly one remote request is made,
// plus at most one retry on a quota or connectivity failure.
func (g *Gateway) Search(ctx context.Context, query string) (*webqa.SearchResult, error) {
	key := webqa.NormalizeQuery(query)
	if key == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "search query required")
	}
	sig := webqa.SearchSignature(g.provider.Name(), key, g.cfg.MaxResults)

	cached, ok, err := g.cache.FindSearchResult(ctx, sig)
	switch {
	case err != nil && webqa.ErrorCode(err) == webqa.ECORRUPT:
		g.logger.Warn("discarding corrupt search cache entry", "signature", sig, "err", err)
	case err != nil:
		return nil, err
	case ok:
		g.logger.Debug("search cache hit", "signature", sig, "hits", len(cached.Hits))
		return cached, nil
	}

	hits, err := g.remote(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &webqa.SearchResult{
		Signature: sig,
		QueryKey:  key,
		Provider:  g.provider.Name(),
		Hits:      hits,
	}
	if len(hits) == 0 {
		g.logger.Debug("search returned no hits, not caching", "signature", sig)
		return result, nil
	}
	if err := g.cache.PutSearchResult(ctx, result); err != nil {
		g.logger.Error("failed to cache search result", "signature", sig, "err", err)
	}
	return result, nil
}

func (g *Gateway) remote(ctx context.Context, query string) ([]webqa.SearchHit, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			d := g.backoff(lastErr)
			g.logger.Info("retrying search", "attempt", attempt+1, "delay", d, "err", lastErr)
			if err := g.Sleep(ctx, d); err != nil {
				return nil, err
			}
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		hits, err := g.provider.Search(ctx, query, g.cfg.MaxResults)
		if err == nil {
			return hits, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (g *Gateway) backoff(err error) time.Duration {
	d := webqa.RetryAfter(err)
	if d <= 0 {
		d = g.cfg.RetryDelay
	}
	if g.cfg.MaxBackoff > 0 && d > g.cfg.MaxBackoff {
		d = g.cfg.MaxBackoff
	}
	return d
}

func retryable(err error) bool {
	switch webqa.ErrorCode(err) {
	case webqa.EQUOTA, webqa.EUNAVAILABLE:
		return true
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
