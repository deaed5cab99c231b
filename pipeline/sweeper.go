package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webqa"
)

// DefaultSweepInterval is the time between eviction passes.
const DefaultSweepInterval = time.Hour

// Sweeper periodically removes expired cache entries.
type Sweeper struct {
	Cache    webqa.CacheMaintainer
	Interval time.Duration
	Logger   *slog.Logger
}

// Run sweeps once immediately and then every Interval until ctx is done.
// Failed passes are logged and do not stop the loop.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger().Error("cache sweep failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs a single eviction pass.
func (s *Sweeper) Sweep(ctx context.Context) (webqa.EvictResult, error) {
	begin := time.Now()
	result, err := s.Cache.EvictExpired(ctx)
	if err != nil {
		return result, err
	}
	if result.Total() > 0 {
		s.logger().Info("evicted expired cache entries",
			"answers", result.Answers,
			"search_results", result.SearchResults,
			"pages", result.Pages,
			"duration", time.Since(begin),
		)
	}
	return result, nil
}

func (s *Sweeper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
