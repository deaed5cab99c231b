// Package bloom deduplicates URLs within a collection batch using a Bloom
// filter backed by an exact set.
package bloom

import (
	"math"
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet records canonical URLs. The Bloom filter answers most misses
// without touching the exact set, which confirms every filter hit, so
// membership has no false positives.
type URLSet struct {
	f    *bloom.BloomFilter
	urls map[string]struct{}
}

// NewURLSet creates a set sized for n expected URLs. fpRate sizes the
// filter and bounds how often a lookup falls through to the exact set.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{
		f:    bloom.NewWithEstimates(n, fpRate),
		urls: make(map[string]struct{}, n),
	}
}

// Insert adds the canonical form of rawURL and reports whether it was
// already present.
func (s *URLSet) Insert(rawURL string) bool {
	u := Canonical(rawURL)
	if s.f.TestAndAddString(u) {
		if _, ok := s.urls[u]; ok {
			return true
		}
	}
	s.urls[u] = struct{}{}
	return false
}

// Contains reports whether the canonical form of rawURL is in the set.
func (s *URLSet) Contains(rawURL string) bool {
	u := Canonical(rawURL)
	if !s.f.TestString(u) {
		return false
	}
	_, ok := s.urls[u]
	return ok
}

// Len returns the number of distinct URLs in the set.
func (s *URLSet) Len() uint {
	return uint(len(s.urls))
}

// FilterHitRate estimates how often a lookup of an absent URL passes the
// filter and is resolved by the exact set.
func (s *URLSet) FilterHitRate() float64 {
	m, k, n := float64(s.f.Cap()), float64(s.f.K()), float64(len(s.urls))
	return math.Pow(1-math.Exp(-k*n/m), k)
}

// Canonical returns rawURL without its fragment and with the scheme and host
// lower-cased. URLs that differ only in those parts fetch the same page.
func Canonical(rawURL string) string {
	if idx := strings.IndexByte(rawURL, '#'); idx != -1 {
		rawURL = rawURL[:idx]
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
