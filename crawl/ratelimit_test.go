package crawl_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ webqa.DomainLimiter = (*crawl.DomainLimiter)(nil)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request to a host is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "pandas.pydata.org"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("paces repeated requests to one host", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "pandas.pydata.org"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "pandas.pydata.org"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts of different search hits do not wait on each other", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		hosts := []string{"pandas.pydata.org", "stackoverflow.com", "ja.wikipedia.org"}

		start := time.Now()
		var wg sync.WaitGroup
		for _, host := range hosts {
			wg.Go(func() {
				assert.NoError(t, limiter.Wait(context.Background(), host))
			})
		}
		wg.Wait()

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("host names are case insensitive", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "Docs.Python.org"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "docs.python.org"))
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0.5)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := limiter.Wait(ctx, "example.com")

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("zero rate disables pacing", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)

		start := time.Now()
		for range 20 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("zero rate still honors canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := crawl.NewDomainLimiter(0).Wait(ctx, "example.com")

		require.ErrorIs(t, err, context.Canceled)
	})
}
