package mock

import (
	"context"
	"strings"

	"github.com/fwojciec/webqa"
)

var (
	_ webqa.Extractor    = (*Extractor)(nil)
	_ webqa.Converter    = (*Converter)(nil)
	_ webqa.TokenCounter = (*TokenCounter)(nil)
)

// Extractor is a mock implementation of webqa.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webqa.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webqa.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of webqa.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// TokenCounter is a mock implementation of webqa.TokenCounter.
// A nil CountTokensFn counts one token per whitespace separated word.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if tc.CountTokensFn == nil {
		return len(strings.Fields(text)), nil
	}
	return tc.CountTokensFn(ctx, text)
}
