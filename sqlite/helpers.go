package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/webqa"
)

// timeFormat is fixed-width so stored timestamps compare lexically in SQL.
const timeFormat = "2006-01-02T15:04:05Z"

// formatTime formats a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime parses a stored timestamp.
// Returns ECORRUPT naming the entry and field if the value is unreadable.
func parseTime(value, entry, fieldName string) (time.Time, error) {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, webqa.Errorf(webqa.ECORRUPT, "%s: invalid %s %q", entry, fieldName, value)
	}
	return t, nil
}

// cutoff returns the stored timestamp before which entries are expired,
// or "" if ttl disables expiry.
func cutoff(now time.Time, ttl time.Duration) string {
	if ttl <= 0 {
		return ""
	}
	return formatTime(now.Add(-ttl))
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
