package webqa

import (
	"context"
	"time"
)

// CacheConfig holds the time-to-live of each cache table.
// A zero TTL disables expiry for that table.
type CacheConfig struct {
	AnswerTTL time.Duration `yaml:"answer_ttl"`
	SearchTTL time.Duration `yaml:"search_ttl"`
	PageTTL   time.Duration `yaml:"page_ttl"`
}

// Default cache TTLs.
const (
	DefaultAnswerTTL = 30 * 24 * time.Hour
	DefaultSearchTTL = 30 * 24 * time.Hour
	DefaultPageTTL   = 7 * 24 * time.Hour
)

// DefaultCacheConfig returns the default cache TTLs.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		AnswerTTL: DefaultAnswerTTL,
		SearchTTL: DefaultSearchTTL,
		PageTTL:   DefaultPageTTL,
	}
}

// Expired reports whether an entry created at createdAt is past ttl at now.
func Expired(createdAt time.Time, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(createdAt) > ttl
}

// EvictResult counts entries removed by an eviction pass.
type EvictResult struct {
	Answers       int
	SearchResults int
	Pages         int
}

// Total returns the total number of entries removed.
func (r EvictResult) Total() int {
	return r.Answers + r.SearchResults + r.Pages
}

// TableStats counts the live and soft-expired entries of a cache table.
type TableStats struct {
	Live    int
	Expired int
}

// CacheStats reports entry counts for every cache table.
type CacheStats struct {
	Answers       TableStats
	SearchResults TableStats
	Pages         TableStats
}

// CacheMaintainer manages cache housekeeping.
type CacheMaintainer interface {
	// EvictExpired removes every entry older than its table's TTL.
	// It is safe to run concurrently with cache reads and writes.
	EvictExpired(ctx context.Context) (EvictResult, error)

	// Stats returns live and expired entry counts.
	Stats(ctx context.Context) (CacheStats, error)
}
