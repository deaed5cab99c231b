// Package slog provides logging decorators for webqa services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/pipeline"
)

var (
	_ webqa.SearchProvider = (*LoggingSearchProvider)(nil)
	_ webqa.Fetcher        = (*LoggingFetcher)(nil)
	_ webqa.Selector       = (*LoggingSelector)(nil)
	_ webqa.Answerer       = (*LoggingAnswerer)(nil)
)

// LoggingSearchProvider wraps a SearchProvider and logs every remote call.
type LoggingSearchProvider struct {
	next   webqa.SearchProvider
	logger *slog.Logger
}

// NewLoggingSearchProvider creates a new LoggingSearchProvider.
func NewLoggingSearchProvider(next webqa.SearchProvider, logger *slog.Logger) *LoggingSearchProvider {
	return &LoggingSearchProvider{next: next, logger: logger}
}

// Name delegates to the wrapped provider.
func (p *LoggingSearchProvider) Name() string {
	return p.next.Name()
}

// Search delegates to the wrapped provider and logs the call.
func (p *LoggingSearchProvider) Search(ctx context.Context, query string, count int) (hits []webqa.SearchHit, err error) {
	defer func(begin time.Time) {
		p.logger.Info("remote search",
			"provider", p.next.Name(),
			"query", query,
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Search(ctx, query, count)
}

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   webqa.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webqa.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingSelector wraps a Selector with logging.
type LoggingSelector struct {
	next   webqa.Selector
	logger *slog.Logger
}

// NewLoggingSelector creates a new LoggingSelector.
func NewLoggingSelector(next webqa.Selector, logger *slog.Logger) *LoggingSelector {
	return &LoggingSelector{next: next, logger: logger}
}

// Select delegates to the wrapped selector and logs the chosen page.
func (s *LoggingSelector) Select(ctx context.Context, query string, pages []*webqa.Page) (passage *webqa.Passage, err error) {
	defer func(begin time.Time) {
		attrs := []any{"pages", len(pages), "duration", time.Since(begin), "err", err}
		if passage != nil {
			attrs = append(attrs, "url", passage.URL, "score", passage.Score, "chars", len(passage.Text))
		}
		s.logger.Info("select passage", attrs...)
	}(time.Now())
	return s.next.Select(ctx, query, pages)
}

// LoggingAnswerer wraps an Answerer with logging.
type LoggingAnswerer struct {
	next   webqa.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next webqa.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// EnsureReady delegates to the wrapped answerer and logs the call.
func (a *LoggingAnswerer) EnsureReady(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		a.logger.Debug("model ready", "duration", time.Since(begin), "err", err)
	}(time.Now())
	return a.next.EnsureReady(ctx)
}

// ExtractAnswer delegates to the wrapped answerer and logs the inference.
func (a *LoggingAnswerer) ExtractAnswer(ctx context.Context, question string, passage *webqa.Passage) (span *webqa.Span, err error) {
	defer func(begin time.Time) {
		var confidence float64
		if span != nil {
			confidence = span.Confidence
		}
		a.logger.Info("inference",
			"source", passage.URL,
			"confidence", confidence,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.ExtractAnswer(ctx, question, passage)
}

// StateLogger returns an OnTransition hook that logs pipeline state changes
// at debug level.
func StateLogger(logger *slog.Logger) func(from, to pipeline.State) {
	return func(from, to pipeline.State) {
		logger.Debug("state", "from", from.String(), "to", to.String())
	}
}
