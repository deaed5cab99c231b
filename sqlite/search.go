package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/webqa"
)

// Compile-time interface verification.
var _ webqa.SearchCache = (*SearchResultService)(nil)

// SearchResultService implements webqa.SearchCache using SQLite.
type SearchResultService struct {
	db  *DB
	ttl time.Duration
}

// NewSearchResultService creates a new SearchResultService using the search TTL from cfg.
func NewSearchResultService(db *DB, cfg webqa.CacheConfig) *SearchResultService {
	return &SearchResultService{db: db, ttl: cfg.SearchTTL}
}

// FindSearchResult returns the live result for a signature.
func (s *SearchResultService) FindSearchResult(ctx context.Context, signature string) (*webqa.SearchResult, bool, error) {
	var r webqa.SearchResult
	var hitsJSON, retrievedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT signature, query_key, provider, hits_json, retrieved_at
		FROM search_results
		WHERE signature = ?
	`, signature).Scan(&r.Signature, &r.QueryKey, &r.Provider, &hitsJSON, &retrievedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entry := "search result " + signature
	r.RetrievedAt, err = parseTime(retrievedAt, entry, "retrieved_at")
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(hitsJSON), &r.Hits); err != nil {
		return nil, false, webqa.Errorf(webqa.ECORRUPT, "%s: invalid hits: %v", entry, err)
	}

	if webqa.Expired(r.RetrievedAt, s.ttl, s.db.now()) {
		return nil, false, nil
	}
	return &r, true, nil
}

// PutSearchResult inserts or wholly replaces the result for its signature.
// Any other result stored for the same query key is removed in the same
// transaction, so a query never has more than one result set.
func (s *SearchResultService) PutSearchResult(ctx context.Context, r *webqa.SearchResult) error {
	if err := r.Validate(); err != nil {
		return err
	}

	hits := r.Hits
	if hits == nil {
		hits = []webqa.SearchHit{}
	}
	hitsJSON, err := json.Marshal(hits)
	if err != nil {
		return fmt.Errorf("failed to encode hits: %w", err)
	}

	r.RetrievedAt = s.db.now()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM search_results WHERE query_key = ? AND signature != ?",
		r.QueryKey, r.Signature,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO search_results (signature, query_key, provider, hits_json, retrieved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(signature) DO UPDATE SET
			query_key = excluded.query_key,
			provider = excluded.provider,
			hits_json = excluded.hits_json,
			retrieved_at = excluded.retrieved_at
	`, r.Signature, r.QueryKey, r.Provider, string(hitsJSON), formatTime(r.RetrievedAt)); err != nil {
		return err
	}

	return tx.Commit()
}
