package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/webqa"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ webqa.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline with the model's SentencePiece
// vocabulary, so trimming a passage spends no API quota.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model. The vocabulary is
// downloaded and cached locally on first use.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model whose vocabulary is used.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens returns the number of tokens text occupies in a user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// TrimPassage shortens text to at most maxTokens as measured by counter.
// Whole trailing paragraphs are dropped first; a single oversized paragraph
// is cut proportionally. A nil counter returns text unchanged.
func TrimPassage(ctx context.Context, counter webqa.TokenCounter, text string, maxTokens int) (string, error) {
	if counter == nil || maxTokens <= 0 {
		return text, nil
	}

	paras := strings.Split(text, "\n\n")
	for {
		joined := strings.Join(paras, "\n\n")
		n, err := counter.CountTokens(ctx, joined)
		if err != nil {
			return "", err
		}
		if n <= maxTokens {
			return joined, nil
		}
		if len(paras) > 1 {
			paras = paras[:len(paras)-1]
			continue
		}

		runes := []rune(joined)
		keep := len(runes) * maxTokens / n
		if keep >= len(runes) {
			keep = len(runes) - 1
		}
		if keep <= 0 {
			return "", nil
		}
		paras = []string{string(runes[:keep])}
	}
}
