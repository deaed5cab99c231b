// Package bm25 ranks fetched pages against a question with Okapi BM25 and
// returns the best page's most relevant paragraphs as the answer passage.
package bm25

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/fwojciec/webqa"
)

var _ webqa.Selector = (*Selector)(nil)

// Default tuning values.
const (
	DefaultMaxParagraphs = 5
	DefaultK1            = 1.2
	DefaultB             = 0.75
)

// Selector implements webqa.Selector. The zero value uses the defaults.
type Selector struct {
	// MaxParagraphs is the number of paragraphs joined into the passage.
	MaxParagraphs int

	// MinScore is the score the best paragraph must exceed.
	MinScore float64

	K1 float64
	B  float64
}

// NewSelector returns a Selector with default settings.
func NewSelector() *Selector {
	return &Selector{
		MaxParagraphs: DefaultMaxParagraphs,
		K1:            DefaultK1,
		B:             DefaultB,
	}
}

type paragraph struct {
	page  int
	index int
	text  string
	terms map[string]int
	size  int
	score float64
}

// Select scores every paragraph of every page with text against query.
// The page holding the highest-scoring paragraph wins, and its top
// paragraphs are returned in document order. Ties go to the earlier page,
// which is the higher-ranked search hit.
func (s *Selector) Select(ctx context.Context, query string, pages []*webqa.Page) (*webqa.Passage, error) {
	queryTerms := unique(Tokenize(query))
	if len(queryTerms) == 0 {
		return nil, webqa.Errorf(webqa.EINVALID, "query has no searchable terms")
	}

	var paras []*paragraph
	for pi, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.HasText() {
			continue
		}
		for i, text := range webqa.SplitParagraphs(p.Content) {
			terms := Tokenize(text)
			if len(terms) == 0 {
				continue
			}
			tf := make(map[string]int, len(terms))
			for _, t := range terms {
				tf[t]++
			}
			paras = append(paras, &paragraph{page: pi, index: i, text: text, terms: tf, size: len(terms)})
		}
	}
	if len(paras) == 0 {
		return nil, webqa.Errorf(webqa.ENORELEVANT, "no page yielded any text")
	}

	s.score(queryTerms, paras)

	best := paras[0]
	for _, p := range paras[1:] {
		if p.score > best.score {
			best = p
		}
	}
	if best.score <= s.MinScore || best.score <= 0 {
		return nil, webqa.Errorf(webqa.ENORELEVANT, "no page is relevant to the question")
	}

	var candidates []*paragraph
	for _, p := range paras {
		if p.page == best.page && p.score > 0 {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if n := s.maxParagraphs(); len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].index < candidates[j].index
	})

	texts := make([]string, len(candidates))
	for i, p := range candidates {
		texts[i] = p.text
	}

	page := pages[best.page]
	return &webqa.Passage{
		URL:   page.URL,
		Title: page.Title,
		Text:  strings.Join(texts, "\n\n"),
		Score: best.score,
	}, nil
}

// score assigns the BM25 score of each paragraph, treating every paragraph
// across all pages as one document of the collection.
func (s *Selector) score(queryTerms []string, paras []*paragraph) {
	k1, b := s.K1, s.B
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b <= 0 || b > 1 {
		b = DefaultB
	}

	n := float64(len(paras))
	var total int
	df := make(map[string]int, len(queryTerms))
	for _, p := range paras {
		total += p.size
		for _, t := range queryTerms {
			if p.terms[t] > 0 {
				df[t]++
			}
		}
	}
	avgdl := float64(total) / n

	for _, p := range paras {
		var score float64
		norm := k1 * (1 - b + b*float64(p.size)/avgdl)
		for _, t := range queryTerms {
			tf := float64(p.terms[t])
			if tf == 0 {
				continue
			}
			d := float64(df[t])
			idf := math.Log((n-d+0.5)/(d+0.5) + 1)
			score += idf * tf * (k1 + 1) / (tf + norm)
		}
		p.score = score
	}
}

func (s *Selector) maxParagraphs() int {
	if s.MaxParagraphs <= 0 {
		return DefaultMaxParagraphs
	}
	return s.MaxParagraphs
}

func unique(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
