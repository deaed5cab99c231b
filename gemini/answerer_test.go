package gemini_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/gemini"
	"github.com/fwojciec/webqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels is an in-memory gemini.Models.
type fakeModels struct {
	getFn      func(ctx context.Context, model string) (*genai.Model, error)
	generateFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	gets       int
}

func (m *fakeModels) Get(ctx context.Context, model string, _ *genai.GetModelConfig) (*genai.Model, error) {
	m.gets++
	if m.getFn == nil {
		return &genai.Model{Name: model}, nil
	}
	return m.getFn(ctx, model)
}

func (m *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.generateFn(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func newTestAnswerer(models *fakeModels) *gemini.Answerer {
	a := gemini.NewAnswerer(models, "")
	a.NewTokenCounter = nil
	return a
}

func TestAnswerer_ExtractAnswer(t *testing.T) {
	t.Parallel()

	passage := &webqa.Passage{URL: "https://example.com", Title: "Tokyo Tower", Text: "東京タワーの高さは333メートルです。"}

	t.Run("returns span from JSON response", func(t *testing.T) {
		t.Parallel()

		var gotModel, gotPrompt string
		var gotConfig *genai.GenerateContentConfig
		models := &fakeModels{
			generateFn: func(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				gotModel = model
				gotPrompt = contents[0].Parts[0].Text
				gotConfig = config
				return textResponse(`{"found": true, "answer": "333メートル", "confidence": 0.92}`), nil
			},
		}

		span, err := newTestAnswerer(models).ExtractAnswer(context.Background(), "東京タワーの高さは？", passage)

		require.NoError(t, err)
		assert.Equal(t, "333メートル", span.Text)
		assert.InDelta(t, 0.92, span.Confidence, 1e-9)
		assert.Equal(t, gemini.DefaultModel, gotModel)
		assert.Contains(t, gotPrompt, "東京タワーの高さは333メートルです。")
		assert.Contains(t, gotPrompt, "Question: 東京タワーの高さは？")
		assert.Equal(t, "application/json", gotConfig.ResponseMIMEType)
	})

	t.Run("not found maps to ENOANSWER", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return textResponse(`{"found": false, "answer": "", "confidence": 0}`), nil
			},
		}

		_, err := newTestAnswerer(models).ExtractAnswer(context.Background(), "q", passage)

		assert.Equal(t, webqa.ENOANSWER, webqa.ErrorCode(err))
	})

	t.Run("rate limit maps to EQUOTA", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, genai.APIError{Code: 429, Message: "Resource has been exhausted"}
			},
		}

		_, err := newTestAnswerer(models).ExtractAnswer(context.Background(), "q", passage)

		assert.Equal(t, webqa.EQUOTA, webqa.ErrorCode(err))
	})

	t.Run("server error maps to EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, &genai.APIError{Code: 503, Message: "overloaded"}
			},
		}

		_, err := newTestAnswerer(models).ExtractAnswer(context.Background(), "q", passage)

		assert.Equal(t, webqa.EUNAVAILABLE, webqa.ErrorCode(err))
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		_, err := newTestAnswerer(&fakeModels{}).ExtractAnswer(context.Background(), " ", passage)

		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})

	t.Run("rejects empty passage", func(t *testing.T) {
		t.Parallel()

		_, err := newTestAnswerer(&fakeModels{}).ExtractAnswer(context.Background(), "q", &webqa.Passage{})

		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})

	t.Run("trims passage to token budget", func(t *testing.T) {
		t.Parallel()

		var gotPrompt string
		models := &fakeModels{
			generateFn: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				gotPrompt = contents[0].Parts[0].Text
				return textResponse(`{"found": true, "answer": "a", "confidence": 1}`), nil
			},
		}
		a := gemini.NewAnswerer(models, "")
		a.MaxPassageTokens = 2
		a.NewTokenCounter = func(string) (webqa.TokenCounter, error) {
			return wordCounter(), nil
		}

		_, err := a.ExtractAnswer(context.Background(), "q", &webqa.Passage{Text: "one two\n\nthree four\n\nfive"})

		require.NoError(t, err)
		assert.Contains(t, gotPrompt, "<content>one two</content>")
	})
}

func TestAnswerer_EnsureReady(t *testing.T) {
	t.Parallel()

	t.Run("checks model once", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{}
		var built int
		a := gemini.NewAnswerer(models, "gemini-test")
		a.NewTokenCounter = func(model string) (webqa.TokenCounter, error) {
			built++
			assert.Equal(t, "gemini-test", model)
			return wordCounter(), nil
		}

		require.NoError(t, a.EnsureReady(context.Background()))
		require.NoError(t, a.EnsureReady(context.Background()))

		assert.Equal(t, 1, models.gets)
		assert.Equal(t, 1, built)
	})

	t.Run("unknown model maps to ENOTFOUND and can be retried", func(t *testing.T) {
		t.Parallel()

		fail := true
		models := &fakeModels{
			getFn: func(_ context.Context, model string) (*genai.Model, error) {
				if fail {
					return nil, genai.APIError{Code: 404, Message: "model not found"}
				}
				return &genai.Model{Name: model}, nil
			},
		}
		a := newTestAnswerer(models)

		err := a.EnsureReady(context.Background())
		assert.Equal(t, webqa.ENOTFOUND, webqa.ErrorCode(err))

		fail = false
		require.NoError(t, a.EnsureReady(context.Background()))
	})

	t.Run("propagates tokenizer failure", func(t *testing.T) {
		t.Parallel()

		a := gemini.NewAnswerer(&fakeModels{}, "")
		a.NewTokenCounter = func(string) (webqa.TokenCounter, error) {
			return nil, errors.New("download failed")
		}

		err := a.EnsureReady(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "download failed")
	})
}

func TestParseSpan(t *testing.T) {
	t.Parallel()

	t.Run("clamps confidence", func(t *testing.T) {
		t.Parallel()

		span, err := gemini.ParseSpan(`{"found": true, "answer": " yes ", "confidence": 1.7}`)

		require.NoError(t, err)
		assert.Equal(t, "yes", span.Text)
		assert.InDelta(t, 1.0, span.Confidence, 1e-9)
	})

	t.Run("found with empty answer is no answer", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseSpan(`{"found": true, "answer": "  ", "confidence": 0.5}`)

		assert.Equal(t, webqa.ENOANSWER, webqa.ErrorCode(err))
	})

	t.Run("malformed JSON is internal", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseSpan(`not json`)

		assert.Equal(t, webqa.EINTERNAL, webqa.ErrorCode(err))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.NotNil(t, config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, config.ResponseSchema.Type)
	assert.ElementsMatch(t, []string{"found", "answer", "confidence"}, config.ResponseSchema.Required)
	require.NotNil(t, config.Temperature)
	assert.Zero(t, *config.Temperature)
}

func TestTrimPassage(t *testing.T) {
	t.Parallel()

	t.Run("nil counter leaves text unchanged", func(t *testing.T) {
		t.Parallel()

		got, err := gemini.TrimPassage(context.Background(), nil, "a b c", 1)

		require.NoError(t, err)
		assert.Equal(t, "a b c", got)
	})

	t.Run("drops trailing paragraphs first", func(t *testing.T) {
		t.Parallel()

		got, err := gemini.TrimPassage(context.Background(), wordCounter(), "a b\n\nc d\n\ne", 4)

		require.NoError(t, err)
		assert.Equal(t, "a b\n\nc d", got)
	})

	t.Run("cuts a single oversized paragraph", func(t *testing.T) {
		t.Parallel()

		got, err := gemini.TrimPassage(context.Background(), wordCounter(), "aa bb cc dd", 2)

		require.NoError(t, err)
		assert.LessOrEqual(t, len(strings.Fields(got)), 2)
		assert.True(t, strings.HasPrefix("aa bb cc dd", got))
	})
}

// wordCounter counts whitespace-separated words as tokens.
func wordCounter() *mock.TokenCounter {
	return &mock.TokenCounter{
		CountTokensFn: func(_ context.Context, text string) (int, error) {
			return len(strings.Fields(text)), nil
		},
	}
}
