package webqa

import "context"

// Span is an answer extracted from a passage.
type Span struct {
	Text       string
	Confidence float64
}

// Answerer runs question answering inference over a passage.
type Answerer interface {
	// EnsureReady prepares the model, downloading or verifying it on first use.
	// It is independent of any particular question.
	EnsureReady(ctx context.Context) error

	// ExtractAnswer returns the answer span for question found in passage.
	// Returns ENOANSWER when the passage does not answer the question.
	ExtractAnswer(ctx context.Context, question string, passage *Passage) (*Span, error)
}
