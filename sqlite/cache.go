package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/webqa"
)

// Compile-time interface verification.
var _ webqa.CacheMaintainer = (*CacheService)(nil)

// CacheService implements webqa.CacheMaintainer using SQLite.
type CacheService struct {
	db  *DB
	cfg webqa.CacheConfig
}

// NewCacheService creates a new CacheService using the TTLs from cfg.
func NewCacheService(db *DB, cfg webqa.CacheConfig) *CacheService {
	return &CacheService{db: db, cfg: cfg}
}

// table describes the expiry column of a cache table.
type table struct {
	name   string
	column string
	ttl    time.Duration
}

func (s *CacheService) tables() []table {
	return []table{
		{name: "answers", column: "created_at", ttl: s.cfg.AnswerTTL},
		{name: "search_results", column: "retrieved_at", ttl: s.cfg.SearchTTL},
		{name: "pages", column: "fetched_at", ttl: s.cfg.PageTTL},
	}
}

// EvictExpired removes every entry older than its table's TTL, along with
// entries whose timestamp cannot be read.
// Entries are deleted one statement at a time so that concurrent reads and
// writes wait for at most a single removal.
func (s *CacheService) EvictExpired(ctx context.Context) (webqa.EvictResult, error) {
	var result webqa.EvictResult
	now := s.db.now()

	for _, t := range s.tables() {
		n, err := s.evictTable(ctx, t, now)
		switch t.name {
		case "answers":
			result.Answers = n
		case "search_results":
			result.SearchResults = n
		case "pages":
			result.Pages = n
		}
		if err != nil {
			return result, fmt.Errorf("evict %s: %w", t.name, err)
		}
	}

	return result, nil
}

func (s *CacheService) evictTable(ctx context.Context, t table, now time.Time) (int, error) {
	where, args := expiredWhere(t, now)
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE rowid = (SELECT rowid FROM %s WHERE %s LIMIT 1)",
		t.name, t.name, where,
	)

	var removed int
	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return removed, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return removed, err
		}
		if n == 0 {
			return removed, nil
		}
		removed += int(n)
	}
}

// Stats returns live and expired entry counts.
func (s *CacheService) Stats(ctx context.Context) (webqa.CacheStats, error) {
	var stats webqa.CacheStats
	now := s.db.now()

	for _, t := range s.tables() {
		ts, err := s.tableStats(ctx, t, now)
		if err != nil {
			return stats, fmt.Errorf("stats %s: %w", t.name, err)
		}
		switch t.name {
		case "answers":
			stats.Answers = ts
		case "search_results":
			stats.SearchResults = ts
		case "pages":
			stats.Pages = ts
		}
	}

	return stats, nil
}

func (s *CacheService) tableStats(ctx context.Context, t table, now time.Time) (webqa.TableStats, error) {
	var total, expired int

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name).Scan(&total); err != nil {
		return webqa.TableStats{}, err
	}

	where, args := expiredWhere(t, now)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.name, where)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&expired); err != nil {
		return webqa.TableStats{}, err
	}

	return webqa.TableStats{Live: total - expired, Expired: expired}, nil
}

// timeGlob matches timestamps written by formatTime.
const timeGlob = "[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]T[0-9][0-9]:[0-9][0-9]:[0-9][0-9]Z"

// expiredWhere returns the condition selecting rows of t that are past their
// TTL or whose timestamp is unreadable.
func expiredWhere(t table, now time.Time) (string, []any) {
	malformed := fmt.Sprintf("%s NOT GLOB '%s'", t.column, timeGlob)
	c := cutoff(now, t.ttl)
	if c == "" {
		return malformed, nil
	}
	return fmt.Sprintf("(%s < ? OR %s)", t.column, malformed), []any{c}
}
