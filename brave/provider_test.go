package brave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/brave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Search(t *testing.T) {
	t.Parallel()

	t.Run("sends query and token and parses results", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "PythonでPandasのDataFrameを結合するには？", r.URL.Query().Get("q"))
			assert.Equal(t, "3", r.URL.Query().Get("count"))
			assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"web":{"results":[
				{"title":"Merge","url":"https://pandas.pydata.org/merge","description":"pd.merge"},
				{"title":"No URL","url":"","description":"skipped"},
				{"title":"Concat","url":"https://pandas.pydata.org/concat","description":"pd.concat"}
			]}}`))
		}))
		defer server.Close()

		p := brave.NewProvider("secret", brave.WithEndpoint(server.URL))
		hits, err := p.Search(context.Background(), "PythonでPandasのDataFrameを結合するには？", 3)

		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, []webqa.SearchHit{
			{URL: "https://pandas.pydata.org/merge", Title: "Merge", Snippet: "pd.merge"},
			{URL: "https://pandas.pydata.org/concat", Title: "Concat", Snippet: "pd.concat"},
		}, hits)
	})

	t.Run("truncates to requested count", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"web":{"results":[
				{"title":"1","url":"https://a.example"},
				{"title":"2","url":"https://b.example"}
			]}}`))
		}))
		defer server.Close()

		hits, err := brave.NewProvider("k", brave.WithEndpoint(server.URL)).Search(context.Background(), "q", 1)

		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("maps 429 to EQUOTA with retry hint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Reset", "2, 1419704")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := brave.NewProvider("k", brave.WithEndpoint(server.URL)).Search(context.Background(), "q", 5)

		require.Error(t, err)
		assert.Equal(t, webqa.EQUOTA, webqa.ErrorCode(err))
		assert.Equal(t, 2*time.Second, webqa.RetryAfter(err))
	})

	t.Run("maps 401 to EUNAUTHORIZED", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := brave.NewProvider("k", brave.WithEndpoint(server.URL)).Search(context.Background(), "q", 5)

		assert.Equal(t, webqa.EUNAUTHORIZED, webqa.ErrorCode(err))
	})

	t.Run("maps 503 to EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := brave.NewProvider("k", brave.WithEndpoint(server.URL)).Search(context.Background(), "q", 5)

		assert.Equal(t, webqa.EUNAVAILABLE, webqa.ErrorCode(err))
	})

	t.Run("maps connection failure to EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		_, err := brave.NewProvider("k", brave.WithEndpoint(endpoint)).Search(context.Background(), "q", 5)

		assert.Equal(t, webqa.EUNAVAILABLE, webqa.ErrorCode(err))
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		_, err := brave.NewProvider("").Search(context.Background(), "q", 5)

		assert.Equal(t, webqa.EUNAUTHORIZED, webqa.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := brave.NewProvider("k", brave.WithEndpoint(server.URL)).Search(ctx, "q", 5)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header http.Header
		want   time.Duration
	}{
		{"missing header", http.Header{}, 0},
		{"smallest reset wins", http.Header{"X-Ratelimit-Reset": {"5, 1"}}, time.Second},
		{"garbage is ignored", http.Header{"X-Ratelimit-Reset": {"x, 3"}}, 3 * time.Second},
		{"retry-after fallback", http.Header{"Retry-After": {"4"}}, 4 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, brave.RetryDelay(tt.header))
		})
	}
}
