package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webqa"
)

// Compile-time interface verification.
var _ webqa.PageCache = (*PageService)(nil)

// PageService implements webqa.PageCache using SQLite.
type PageService struct {
	db  *DB
	ttl time.Duration
}

// NewPageService creates a new PageService using the page TTL from cfg.
func NewPageService(db *DB, cfg webqa.CacheConfig) *PageService {
	return &PageService{db: db, ttl: cfg.PageTTL}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// FindPage returns the live page for a URL.
func (s *PageService) FindPage(ctx context.Context, url string) (*webqa.Page, bool, error) {
	var p webqa.Page
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, title, content, content_hash, fetched_at
		FROM pages
		WHERE url = ?
	`, url).Scan(&p.URL, &p.Title, &p.Content, &p.ContentHash, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	p.FetchedAt, err = parseTime(fetchedAt, "page "+url, "fetched_at")
	if err != nil {
		return nil, false, err
	}

	if webqa.Expired(p.FetchedAt, s.ttl, s.db.now()) {
		return nil, false, nil
	}
	return &p, true, nil
}

// PutPage inserts or wholly replaces the page for its URL.
func (s *PageService) PutPage(ctx context.Context, p *webqa.Page) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.ContentHash = hashContent(p.Content)
	p.FetchedAt = s.db.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (url, title, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, p.URL, p.Title, p.Content, p.ContentHash, formatTime(p.FetchedAt))

	return err
}
