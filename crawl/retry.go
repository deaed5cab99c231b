package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 500ms, 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, time.Second}
}

// FetchWithRetry calls fetch once, then once more after each delay while it
// keeps failing transiently. A missing page, a non-HTML response or a
// refused request is returned at once.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt >= len(delays) || !Retryable(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}

// Retryable reports whether a fetch failure may succeed on another attempt.
func Retryable(err error) bool {
	switch webqa.ErrorCode(err) {
	case webqa.ENOTFOUND, webqa.EINVALID, webqa.EUNAUTHORIZED:
		return false
	}
	return true
}
