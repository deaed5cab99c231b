package webqa

import (
	"context"
	"time"
)

// Answer is a question answered from a web page. It is the unit the answer
// cache stores, one per normalized query.
type Answer struct {
	ID          string    `json:"id"`
	QueryKey    string    `json:"queryKey"`
	Question    string    `json:"question"`
	Text        string    `json:"text"`
	SourceURL   string    `json:"sourceUrl"`
	SourceTitle string    `json:"sourceTitle"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"createdAt"`

	// Cached is set when the answer was served from the cache. Not persisted.
	Cached bool `json:"-"`
}

// Validate returns an error if the answer contains invalid fields.
func (a *Answer) Validate() error {
	if a.QueryKey == "" {
		return Errorf(EINVALID, "answer query key required")
	}
	if a.Text == "" {
		return Errorf(EINVALID, "answer text required")
	}
	if a.SourceURL == "" {
		return Errorf(EINVALID, "answer source URL required")
	}
	return nil
}

// AnswerCache persists answers keyed by normalized query.
type AnswerCache interface {
	// FindAnswer returns the live answer for a query key.
	// Returns ok=false when the key is missing or its entry has expired.
	FindAnswer(ctx context.Context, queryKey string) (answer *Answer, ok bool, err error)

	// FindAnswers lists cached answers, newest first.
	FindAnswers(ctx context.Context, filter AnswerFilter) ([]*Answer, error)

	// PutAnswer inserts or wholly replaces the answer for its query key.
	PutAnswer(ctx context.Context, answer *Answer) error

	// DeleteAnswer removes the answer for a query key.
	// Returns ENOTFOUND if no answer is stored for the key.
	DeleteAnswer(ctx context.Context, queryKey string) error
}

// AnswerFilter represents a filter for FindAnswers.
type AnswerFilter struct {
	QueryKey *string `json:"queryKey"`

	// IncludeExpired lists soft-expired answers as well.
	IncludeExpired bool `json:"includeExpired"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Asker answers natural language questions.
type Asker interface {
	// Ask answers a question, from cache when possible.
	// Returns ENORELEVANT or ENOANSWER when no answer could be produced.
	Ask(ctx context.Context, question string) (*Answer, error)
}
