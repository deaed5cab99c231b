// Package brave provides a webqa.SearchProvider backed by the Brave Search API.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/webqa"
)

// DefaultEndpoint is the Brave web search endpoint.
const DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// DefaultTimeout is the default timeout for search requests.
const DefaultTimeout = 10 * time.Second

// Name identifies this provider in search signatures.
const Name = "brave"

// Ensure Provider implements webqa.SearchProvider at compile time.
var _ webqa.SearchProvider = (*Provider)(nil)

// Provider searches the web with the Brave Search API.
// An API key is sent with every request via X-Subscription-Token.
type Provider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// NewProvider creates a new Provider with the given API key.
func NewProvider(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

type response struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search executes exactly one Brave query.
func (p *Provider) Search(ctx context.Context, query string, count int) ([]webqa.SearchHit, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, webqa.Errorf(webqa.EUNAUTHORIZED, "brave API key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "query required")
	}

	params := url.Values{}
	params.Set("q", query)
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &webqa.QuotaError{
			Message:    "brave search rate limit or monthly quota exceeded",
			RetryAfter: RetryDelay(resp.Header),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, webqa.Errorf(webqa.EUNAUTHORIZED, "brave search rejected the API key (HTTP %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, webqa.Errorf(webqa.EUNAVAILABLE, "brave search unavailable (HTTP %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("brave search: HTTP %d", resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("brave search: decode response: %w", err)
	}

	hits := make([]webqa.SearchHit, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		if r.URL == "" {
			continue
		}
		hits = append(hits, webqa.SearchHit{URL: r.URL, Title: r.Title, Snippet: r.Description})
		if count > 0 && len(hits) >= count {
			break
		}
	}

	return hits, nil
}

// transportError maps a failed round trip to EUNAVAILABLE, keeping
// cancellation errors intact.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return webqa.Errorf(webqa.EUNAVAILABLE, "brave search unreachable: %v", err)
}

// RetryDelay reads the X-RateLimit-Reset header to determine how long to
// wait before retrying. The header contains a comma-separated list of reset
// times in seconds (e.g. "1, 1419704"); the smallest value is used.
// Returns zero if the header is missing or unparseable.
func RetryDelay(h http.Header) time.Duration {
	raw := h.Get("X-RateLimit-Reset")
	if raw == "" {
		if s, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After"))); err == nil && s > 0 {
			return time.Duration(s) * time.Second
		}
		return 0
	}
	minReset := -1
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		if minReset < 0 || n < minReset {
			minReset = n
		}
	}
	if minReset <= 0 {
		return 0
	}
	return time.Duration(minReset) * time.Second
}
