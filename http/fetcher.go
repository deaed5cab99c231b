// Package http provides a plain HTTP implementation of webqa.Fetcher for
// pages that render without JavaScript.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/webqa"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the fetcher to remote sites.
const DefaultUserAgent = "Mozilla/5.0 (compatible; webqa/1.0)"

// MaxBodySize caps the number of bytes read from a response.
const MaxBodySize = 5 << 20

var _ webqa.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML with a single GET request and decodes it to UTF-8.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the URL and returns its body as UTF-8 HTML.
// Non-HTML responses are rejected with EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", webqa.Errorf(webqa.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", webqa.Errorf(webqa.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode >= 500:
		return "", webqa.Errorf(webqa.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return "", webqa.Errorf(webqa.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTML(contentType) {
		return "", webqa.Errorf(webqa.EINVALID, "unsupported content type %q for %s", contentType, url)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return "", webqa.Errorf(webqa.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return decode(b, contentType)
}

// decode converts body to UTF-8 using the declared or sniffed charset.
// Undeclared bodies that are already valid UTF-8 are returned as is.
func decode(body []byte, contentType string) (string, error) {
	enc, _, certain := charset.DetermineEncoding(body, contentType)
	if !certain && utf8.Valid(body) {
		return string(body), nil
	}
	b, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", webqa.Errorf(webqa.EINVALID, "decode body: %v", err)
	}
	return string(b), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.HasPrefix(ct, "text/plain")
}
