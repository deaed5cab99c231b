package webqa

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery returns the canonical cache key for a user question.
// The text is NFKC-normalized (so full-width "？" and "?" match), case-folded,
// trimmed, and internal whitespace runs are collapsed to a single space.
func NormalizeQuery(raw string) string {
	s := norm.NFKC.String(raw)
	s = cases.Fold().String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// SearchSignature identifies a single remote search request. Two requests
// with the same provider, normalized query and result count share a signature.
func SearchSignature(provider, queryKey string, count int) string {
	d := xxhash.New()
	_, _ = d.WriteString(provider)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(queryKey)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(count))
	return strconv.FormatUint(d.Sum64(), 16)
}
