package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/webqa"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webqa.AnswerCache = (*AnswerService)(nil)

// AnswerService implements webqa.AnswerCache using SQLite.
type AnswerService struct {
	db  *DB
	ttl time.Duration
}

// NewAnswerService creates a new AnswerService using the answer TTL from cfg.
func NewAnswerService(db *DB, cfg webqa.CacheConfig) *AnswerService {
	return &AnswerService{db: db, ttl: cfg.AnswerTTL}
}

const answerColumns = "query_key, id, question, answer_text, source_url, source_title, confidence, created_at"

// scanAnswer scans a row selected with answerColumns.
func scanAnswer(scan func(dest ...any) error) (*webqa.Answer, error) {
	var a webqa.Answer
	var createdAt string
	if err := scan(&a.QueryKey, &a.ID, &a.Question, &a.Text, &a.SourceURL, &a.SourceTitle,
		&a.Confidence, &createdAt); err != nil {
		return nil, err
	}

	var err error
	a.CreatedAt, err = parseTime(createdAt, "answer "+a.QueryKey, "created_at")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAnswer returns the live answer for a query key.
func (s *AnswerService) FindAnswer(ctx context.Context, queryKey string) (*webqa.Answer, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+answerColumns+" FROM answers WHERE query_key = ?", queryKey)

	a, err := scanAnswer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if webqa.Expired(a.CreatedAt, s.ttl, s.db.now()) {
		return nil, false, nil
	}
	return a, true, nil
}

// FindAnswers lists cached answers, newest first.
// Rows that cannot be decoded are skipped.
func (s *AnswerService) FindAnswers(ctx context.Context, filter webqa.AnswerFilter) ([]*webqa.Answer, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + answerColumns + " FROM answers WHERE 1=1")

	if filter.QueryKey != nil {
		query.WriteString(" AND query_key = ?")
		args = append(args, *filter.QueryKey)
	}
	if c := cutoff(s.db.now(), s.ttl); c != "" && !filter.IncludeExpired {
		query.WriteString(" AND created_at >= ?")
		args = append(args, c)
	}

	query.WriteString(" ORDER BY created_at DESC, query_key ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []*webqa.Answer
	for rows.Next() {
		a, err := scanAnswer(rows.Scan)
		if webqa.ErrorCode(err) == webqa.ECORRUPT {
			continue
		}
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

// PutAnswer inserts or wholly replaces the answer for its query key.
// It assigns a new ID and creation time to the answer.
func (s *AnswerService) PutAnswer(ctx context.Context, a *webqa.Answer) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	a.CreatedAt = s.db.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (`+answerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(query_key) DO UPDATE SET
			id = excluded.id,
			question = excluded.question,
			answer_text = excluded.answer_text,
			source_url = excluded.source_url,
			source_title = excluded.source_title,
			confidence = excluded.confidence,
			created_at = excluded.created_at
	`, a.QueryKey, a.ID, a.Question, a.Text, a.SourceURL, a.SourceTitle, a.Confidence,
		formatTime(a.CreatedAt))

	return err
}

// DeleteAnswer removes the answer for a query key.
func (s *AnswerService) DeleteAnswer(ctx context.Context, queryKey string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM answers WHERE query_key = ?", queryKey)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return webqa.Errorf(webqa.ENOTFOUND, "answer not found")
	}

	return nil
}
