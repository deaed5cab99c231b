// Package crawl fetches, extracts and caches the pages behind search hits.
package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/bloom"
	"golang.org/x/sync/errgroup"
)

var _ webqa.PageCollector = (*Collector)(nil)

// Bloom filter sizing for per-batch URL deduplication.
const (
	dedupExpectedURLs      = 64
	dedupFalsePositiveRate = 0.001
)

// DefaultConcurrency is the number of URLs processed at once.
const DefaultConcurrency = 3

// Collector turns a batch of URLs into extracted markdown pages.
type Collector struct {
	Fetcher     webqa.Fetcher
	Extractor   webqa.Extractor
	Fallback    webqa.Extractor // used when Extractor fails or finds nothing
	Converter   webqa.Converter
	Pages       webqa.PageCache // optional
	RateLimiter webqa.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
	Progress    ProgressFunc
}

// ProgressEvent reports progress during a collection batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting collection progress.
type ProgressFunc func(event ProgressEvent)

// CollectPages returns one page per distinct URL in input order. URLs
// differing only by fragment are duplicates. A URL that cannot be fetched
// or yields no text produces a page with empty Content and Err set.
func (c *Collector) CollectPages(ctx context.Context, urls []string) ([]*webqa.Page, error) {
	urls = dedupe(urls)
	pages := make([]*webqa.Page, len(urls))
	if len(urls) == 0 {
		return pages, nil
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	c.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	type collected struct {
		position int
		page     *webqa.Page
	}
	resultCh := make(chan collected, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- collected{position: i, page: c.collect(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed int
	for r := range resultCh {
		completed++
		pages[r.position] = r.page
		if r.page.Err != nil {
			c.progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: r.page.URL, Error: r.page.Err})
		} else {
			c.progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: r.page.URL})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return pages, nil
}

// collect returns the page for a single URL. It never returns nil.
func (c *Collector) collect(ctx context.Context, url string) *webqa.Page {
	logger := c.logger()

	if c.Pages != nil {
		cached, ok, err := c.Pages.FindPage(ctx, url)
		switch {
		case err != nil:
			logger.Warn("page cache lookup failed", "url", url, "err", err)
		case ok:
			logger.Debug("page cache hit", "url", url)
			return cached
		}
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, hostOf(url)); err != nil {
			return &webqa.Page{URL: url, Err: err}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, url, c.Fetcher.Fetch, delays, logger)
	if err != nil {
		return &webqa.Page{URL: url, Err: err}
	}

	extracted, err := c.extract(html)
	if err != nil {
		return &webqa.Page{URL: url, Err: err}
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return &webqa.Page{URL: url, Title: extracted.Title, Err: err}
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return &webqa.Page{
			URL:   url,
			Title: extracted.Title,
			Err:   webqa.Errorf(webqa.ENORELEVANT, "no text extracted from %s", url),
		}
	}

	page := &webqa.Page{
		URL:     url,
		Title:   extracted.Title,
		Content: markdown,
	}
	if c.Pages != nil {
		if err := c.Pages.PutPage(ctx, page); err != nil {
			logger.Error("failed to cache page", "url", url, "err", err)
		}
	}
	return page
}

// extract runs the primary extractor and falls back when it fails or
// returns no content.
func (c *Collector) extract(html string) (*webqa.ExtractResult, error) {
	result, err := c.Extractor.Extract(html)
	if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
		return result, nil
	}
	if c.Fallback == nil {
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	fallback, ferr := c.Fallback.Extract(html)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return nil, ferr
	}
	if fallback.Title == "" && result != nil {
		fallback.Title = result.Title
	}
	return fallback, nil
}

func (c *Collector) progress(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// dedupe reduces urls to their canonical forms and removes repeats,
// preserving first occurrence order.
func dedupe(urls []string) []string {
	seen := bloom.NewURLSet(max(uint(len(urls)), dedupExpectedURLs), dedupFalsePositiveRate)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = bloom.Canonical(u)
		if u == "" || seen.Insert(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
