// Package goquery provides HTML-scraping implementations of webqa services
// using goquery.
package goquery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webqa"
)

// DuckDuckGoEndpoint is the DuckDuckGo lite HTML search endpoint.
const DuckDuckGoEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGoName identifies this provider in search signatures.
const DuckDuckGoName = "duckduckgo"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure DuckDuckGo implements webqa.SearchProvider at compile time.
var _ webqa.SearchProvider = (*DuckDuckGo)(nil)

// DuckDuckGo searches the web by scraping DuckDuckGo's lite HTML interface.
// It needs no API key, which makes it a fallback when no Brave key is set.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider. An empty endpoint uses
// DuckDuckGoEndpoint; a nil client uses a client with a 15 second timeout.
func NewDuckDuckGo(endpoint string, client *http.Client) *DuckDuckGo {
	if endpoint == "" {
		endpoint = DuckDuckGoEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DuckDuckGo{endpoint: endpoint, client: client}
}

// Name returns the provider name.
func (d *DuckDuckGo) Name() string {
	return DuckDuckGoName
}

// Search posts the query to the lite endpoint and parses the result table.
func (d *DuckDuckGo) Search(ctx context.Context, query string, count int) ([]webqa.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, webqa.Errorf(webqa.EINVALID, "query required")
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, webqa.Errorf(webqa.EUNAVAILABLE, "duckduckgo unreachable: %v", err)
	}
	defer resp.Body.Close()

	switch {
	// DuckDuckGo answers throttled clients with 202 and a challenge page.
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusAccepted:
		return nil, &webqa.QuotaError{Message: "duckduckgo is rate limiting this client"}
	case resp.StatusCode >= 500:
		return nil, webqa.Errorf(webqa.EUNAVAILABLE, "duckduckgo unavailable (HTTP %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("duckduckgo: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse response: %w", err)
	}

	return ParseLiteResults(doc, count), nil
}

// ParseLiteResults extracts hits from a DuckDuckGo lite result page.
// Result links and snippets appear in matching order.
func ParseLiteResults(doc *goquery.Document, count int) []webqa.SearchHit {
	snippets := doc.Find("td.result-snippet")

	var hits []webqa.SearchHit
	doc.Find("a.result-link").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		target := resolveRedirect(href)
		title := strings.TrimSpace(sel.Text())
		if target == "" || title == "" {
			return true
		}

		hit := webqa.SearchHit{URL: target, Title: title}
		if i < snippets.Length() {
			hit.Snippet = strings.Join(strings.Fields(snippets.Eq(i).Text()), " ")
		}
		hits = append(hits, hit)

		return count <= 0 || len(hits) < count
	})

	return hits
}

// resolveRedirect unwraps DuckDuckGo's "/l/?uddg=" redirect links and drops
// anything that is not an absolute http(s) URL.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") {
		target := u.Query().Get("uddg")
		if target == "" {
			return ""
		}
		return resolveRedirect(target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
