package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/mock"
	"github.com/fwojciec/webqa/pipeline"
	webqaslog "github.com/fwojciec/webqa/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := webqaslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := webqaslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner fetcher", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closeCalled := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		fetcher := webqaslog.NewLoggingFetcher(inner, logger)
		err := fetcher.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingSearchProvider_Search(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.SearchProvider{
		NameFn: func() string { return "brave" },
		SearchFn: func(_ context.Context, _ string, count int) ([]webqa.SearchHit, error) {
			assert.Equal(t, 5, count)
			return []webqa.SearchHit{{URL: "a"}, {URL: "b"}}, nil
		},
	}

	provider := webqaslog.NewLoggingSearchProvider(inner, logger)
	hits, err := provider.Search(context.Background(), "golang generics", 5)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, "brave", provider.Name())
	output := buf.String()
	assert.Contains(t, output, "remote search")
	assert.Contains(t, output, "provider=brave")
	assert.Contains(t, output, "hits=2")
}

func TestLoggingSelector_Select(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Selector{
		SelectFn: func(context.Context, string, []*webqa.Page) (*webqa.Passage, error) {
			return &webqa.Passage{URL: "https://example.com", Text: "abc", Score: 2.5}, nil
		},
	}

	_, err := webqaslog.NewLoggingSelector(inner, logger).Select(context.Background(), "q", []*webqa.Page{{}, {}})

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "pages=2")
	assert.Contains(t, output, "url=https://example.com")
	assert.Contains(t, output, "score=2.5")
}

func TestLoggingAnswerer(t *testing.T) {
	t.Parallel()

	t.Run("logs inference confidence", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Answerer{
			ExtractAnswerFn: func(context.Context, string, *webqa.Passage) (*webqa.Span, error) {
				return &webqa.Span{Text: "yes", Confidence: 0.75}, nil
			},
		}

		span, err := webqaslog.NewLoggingAnswerer(inner, logger).ExtractAnswer(context.Background(), "q", &webqa.Passage{URL: "u"})

		require.NoError(t, err)
		assert.Equal(t, "yes", span.Text)
		assert.Contains(t, buf.String(), "confidence=0.75")
	})

	t.Run("logs failure without span", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Answerer{
			ExtractAnswerFn: func(context.Context, string, *webqa.Passage) (*webqa.Span, error) {
				return nil, webqa.Errorf(webqa.ENOANSWER, "none")
			},
		}

		_, err := webqaslog.NewLoggingAnswerer(inner, logger).ExtractAnswer(context.Background(), "q", &webqa.Passage{URL: "u"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "confidence=0")
		assert.Contains(t, buf.String(), "err=")
	})

	t.Run("delegates EnsureReady", func(t *testing.T) {
		t.Parallel()

		called := false
		inner := &mock.Answerer{
			EnsureReadyFn: func(context.Context) error {
				called = true
				return nil
			},
		}

		err := webqaslog.NewLoggingAnswerer(inner, slog.New(slog.DiscardHandler)).EnsureReady(context.Background())

		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestStateLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	webqaslog.StateLogger(logger)(pipeline.CacheLookup, pipeline.CacheHit)

	assert.Contains(t, buf.String(), "from=cache_lookup")
	assert.Contains(t, buf.String(), "to=cache_hit")
}
