// Package pipeline runs a question through cache lookup, search, page
// extraction, ranking and inference, one stage at a time.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/webqa"
)

// DefaultMaxPages is the number of search hits fetched per query.
const DefaultMaxPages = 3

var _ webqa.Asker = (*Orchestrator)(nil)

// Orchestrator implements webqa.Asker. Stages run sequentially and a single
// call processes exactly one query. Concurrent calls are serialized.
type Orchestrator struct {
	Answers   webqa.AnswerCache
	Searcher  webqa.Searcher
	Collector webqa.PageCollector
	Selector  webqa.Selector
	Answerer  webqa.Answerer

	// MaxPages is the number of leading search hits to fetch.
	MaxPages int

	// MinConfidence rejects answers the model is less sure of.
	MinConfidence float64

	// Refresh skips the answer cache lookup. The new answer replaces the
	// cached one.
	Refresh bool

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)

	Logger *slog.Logger

	mu    sync.Mutex
	state atomic.Int32
}

// Ask answers question, serving a live cached answer when one exists.
// On failure the returned error is a *StageError and no answer is cached.
func (o *Orchestrator) Ask(ctx context.Context, question string) (*webqa.Answer, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	answer, err := o.run(ctx, question)
	if err != nil {
		o.transition(Failed)
	}
	o.transition(Idle)
	return answer, err
}

// Prepare readies the answerer ahead of the first question. Ask does not
// depend on it having run.
func (o *Orchestrator) Prepare(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Answerer.EnsureReady(ctx)
}

// State returns the current state. It is Idle between calls.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) run(ctx context.Context, question string) (*webqa.Answer, error) {
	logger := o.logger()

	o.transition(Normalizing)
	key := webqa.NormalizeQuery(question)
	if key == "" {
		return nil, fail(Normalizing, webqa.Errorf(webqa.EINVALID, "question required"))
	}

	o.transition(CacheLookup)
	if !o.Refresh {
		cached, ok, err := o.Answers.FindAnswer(ctx, key)
		switch {
		case err != nil && webqa.ErrorCode(err) == webqa.ECORRUPT:
			logger.Warn("discarding corrupt cached answer", "query", key, "err", err)
		case err != nil:
			return nil, fail(CacheLookup, err)
		case ok:
			o.transition(CacheHit)
			o.transition(Responding)
			cached.Cached = true
			return cached, nil
		}
	}

	o.transition(Searching)
	result, err := o.Searcher.Search(ctx, question)
	if err != nil {
		return nil, fail(Searching, err)
	}
	if len(result.Hits) == 0 {
		return nil, fail(Searching, webqa.Errorf(webqa.ENORELEVANT, "search returned no results"))
	}

	o.transition(Extracting)
	urls := result.URLs()
	if n := o.maxPages(); len(urls) > n {
		urls = urls[:n]
	}
	pages, err := o.Collector.CollectPages(ctx, urls)
	if err != nil {
		return nil, fail(Extracting, err)
	}
	if !anyText(pages) {
		for _, p := range pages {
			logger.Debug("no text extracted", "url", p.URL, "err", p.Err)
		}
		return nil, fail(Extracting, webqa.Errorf(webqa.ENORELEVANT, "no text could be extracted from %d pages", len(pages)))
	}

	o.transition(Ranking)
	passage, err := o.Selector.Select(ctx, question, pages)
	if err != nil {
		return nil, fail(Ranking, err)
	}

	o.transition(Inferring)
	span, err := o.Answerer.ExtractAnswer(ctx, question, passage)
	if err != nil {
		return nil, fail(Inferring, err)
	}
	if span.Confidence < o.MinConfidence {
		return nil, fail(Inferring, webqa.Errorf(webqa.ENOANSWER,
			"answer confidence %.2f is below %.2f", span.Confidence, o.MinConfidence))
	}

	answer := &webqa.Answer{
		QueryKey:    key,
		Question:    question,
		Text:        span.Text,
		SourceURL:   passage.URL,
		SourceTitle: passage.Title,
		Confidence:  span.Confidence,
	}
	if err := o.Answers.PutAnswer(ctx, answer); err != nil {
		logger.Error("failed to cache answer", "query", key, "err", err)
	}

	o.transition(Responding)
	return answer, nil
}

// transition moves to state to and reports it. Must be called with mu held.
func (o *Orchestrator) transition(to State) {
	from := State(o.state.Swap(int32(to)))
	if o.OnTransition != nil {
		o.OnTransition(from, to)
	}
}

func (o *Orchestrator) maxPages() int {
	if o.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return o.MaxPages
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func fail(stage State, err error) error {
	return &StageError{Stage: stage, Err: err}
}

func anyText(pages []*webqa.Page) bool {
	for _, p := range pages {
		if p.HasText() {
			return true
		}
	}
	return false
}
