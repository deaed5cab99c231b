// Package gemini implements the answer extractor on Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/fwojciec/webqa"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for answer extraction.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxPassageTokens bounds the passage sent with each question.
const DefaultMaxPassageTokens = 4000

var _ webqa.Answerer = (*Answerer)(nil)

// Models is the subset of the Gemini models API used by Answerer.
// *genai.Models satisfies it.
type Models interface {
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Answerer extracts answer spans from passages with a JSON-constrained
// Gemini request.
type Answerer struct {
	models Models
	model  string

	// MaxPassageTokens caps the passage size. Zero uses DefaultMaxPassageTokens.
	MaxPassageTokens int

	// NewTokenCounter builds the counter used to trim passages. It runs once,
	// from EnsureReady. A nil func disables trimming.
	NewTokenCounter func(model string) (webqa.TokenCounter, error)

	mu      sync.Mutex
	ready   bool
	counter webqa.TokenCounter
}

// NewAnswerer creates an Answerer for model. An empty model uses DefaultModel.
func NewAnswerer(models Models, model string) *Answerer {
	if model == "" {
		model = DefaultModel
	}
	return &Answerer{
		models: models,
		model:  model,
		NewTokenCounter: func(model string) (webqa.TokenCounter, error) {
			return NewTokenCounter(model)
		},
	}
}

// Model returns the model name.
func (a *Answerer) Model() string {
	return a.model
}

// EnsureReady verifies the model is available and prepares the local
// tokenizer, downloading its vocabulary on first use. Subsequent calls
// return immediately.
func (a *Answerer) EnsureReady(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready {
		return nil
	}

	if _, err := a.models.Get(ctx, a.model, nil); err != nil {
		return mapError(err)
	}

	if a.NewTokenCounter != nil {
		counter, err := a.NewTokenCounter(a.model)
		if err != nil {
			return fmt.Errorf("preparing tokenizer for %s: %w", a.model, err)
		}
		a.counter = counter
	}

	a.ready = true
	return nil
}

// answerJSON is the response shape enforced by ResponseSchema.
type answerJSON struct {
	Found      bool    `json:"found"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// ExtractAnswer asks the model for the answer to question found in passage.
// Returns ENOANSWER when the passage does not contain one.
func (a *Answerer) ExtractAnswer(ctx context.Context, question string, passage *webqa.Passage) (*webqa.Span, error) {
	if strings.TrimSpace(question) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "question required")
	}
	if passage == nil || strings.TrimSpace(passage.Text) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "passage text required")
	}

	if err := a.EnsureReady(ctx); err != nil {
		return nil, err
	}

	text, err := TrimPassage(ctx, a.counter, passage.Text, a.maxPassageTokens())
	if err != nil {
		return nil, err
	}

	resp, err := a.models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(BuildUserPrompt(question, passage.Title, text), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return nil, mapError(err)
	}
	if resp == nil {
		return nil, webqa.Errorf(webqa.EINTERNAL, "gemini returned nil result")
	}

	return ParseSpan(resp.Text())
}

func (a *Answerer) maxPassageTokens() int {
	if a.MaxPassageTokens <= 0 {
		return DefaultMaxPassageTokens
	}
	return a.MaxPassageTokens
}

// ParseSpan decodes a schema-constrained model response.
func ParseSpan(raw string) (*webqa.Span, error) {
	var out answerJSON
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, webqa.Errorf(webqa.EINTERNAL, "malformed model response: %v", err)
	}

	answer := strings.TrimSpace(out.Answer)
	if !out.Found || answer == "" {
		return nil, webqa.Errorf(webqa.ENOANSWER, "passage does not answer the question")
	}

	return &webqa.Span{
		Text:       answer,
		Confidence: min(max(out.Confidence, 0), 1),
	}, nil
}

// BuildConfig returns the GenerateContentConfig for answer extraction.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	zero, one := 0.0, 1.0
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract answers from a passage. Answer the question using only the passage, " +
					"quoting the shortest span that answers it, in the language of the passage. " +
					"If the passage does not contain the answer, set found to false and leave answer empty. " +
					"Set confidence between 0 and 1.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"found":      {Type: genai.TypeBoolean},
				"answer":     {Type: genai.TypeString},
				"confidence": {Type: genai.TypeNumber, Minimum: &zero, Maximum: &one},
			},
			Required:         []string{"found", "answer", "confidence"},
			PropertyOrdering: []string{"found", "answer", "confidence"},
		},
	}
}

// BuildUserPrompt builds the prompt holding the passage and the question.
func BuildUserPrompt(question, title, passage string) string {
	var sb strings.Builder
	sb.WriteString("<passage>\n")
	if title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	}
	fmt.Fprintf(&sb, "<content>%s</content>\n", passage)
	sb.WriteString("</passage>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// mapError converts Gemini API errors to application errors.
func mapError(err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErrPtr):
		apiErr = *apiErrPtr
	case errors.As(err, &apiErr):
	default:
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return &webqa.QuotaError{Message: apiErr.Message}
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return webqa.Errorf(webqa.EUNAUTHORIZED, "gemini: %s", apiErr.Message)
	case apiErr.Code == http.StatusNotFound:
		return webqa.Errorf(webqa.ENOTFOUND, "gemini: %s", apiErr.Message)
	case apiErr.Code >= 500:
		return webqa.Errorf(webqa.EUNAVAILABLE, "gemini: %s", apiErr.Message)
	}
	return err
}
