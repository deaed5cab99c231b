package mock

import (
	"context"

	"github.com/fwojciec/webqa"
)

var _ webqa.Asker = (*Asker)(nil)

// Asker is a mock implementation of webqa.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (*webqa.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (*webqa.Answer, error) {
	return a.AskFn(ctx, question)
}
