package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.AnswerCache = (*AnswerCache)(nil)

// AnswerCache is a mock implementation of webqa.AnswerCache.
type AnswerCache struct {
	FindAnswerFn   func(ctx context.Context, queryKey string) (*webqa.Answer, bool, error)
	FindAnswersFn  func(ctx context.Context, filter webqa.AnswerFilter) ([]*webqa.Answer, error)
	PutAnswerFn    func(ctx context.Context, answer *webqa.Answer) error
	DeleteAnswerFn func(ctx context.Context, queryKey string) error
}

func (c *AnswerCache) FindAnswer(ctx context.Context, queryKey string) (*webqa.Answer, bool, error) {
	return c.FindAnswerFn(ctx, queryKey)
}

func (c *AnswerCache) FindAnswers(ctx context.Context, filter webqa.AnswerFilter) ([]*webqa.Answer, error) {
	return c.FindAnswersFn(ctx, filter)
}

func (c *AnswerCache) PutAnswer(ctx context.Context, answer *webqa.Answer) error {
	return c.PutAnswerFn(ctx, answer)
}

func (c *AnswerCache) DeleteAnswer(ctx context.Context, queryKey string) error {
	return c.DeleteAnswerFn(ctx, queryKey)
}
