package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of webqa.Answerer.
type Answerer struct {
	EnsureReadyFn   func(ctx context.Context) error
	ExtractAnswerFn func(ctx context.Context, question string, passage *webqa.Passage) (*webqa.Span, error)
}

func (a *Answerer) EnsureReady(ctx context.Context) error {
	return a.EnsureReadyFn(ctx)
}

func (a *Answerer) ExtractAnswer(ctx context.Context, question string, passage *webqa.Passage) (*webqa.Span, error) {
	return a.ExtractAnswerFn(ctx, question, passage)
}
