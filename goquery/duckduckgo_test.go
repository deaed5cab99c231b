package goquery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webqa"
	locgoquery "github.com/fwojciec/webqa/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litePage = `<html><body><table>
<tr><td><a rel="nofollow" href="https://pandas.pydata.org/docs/merging.html" class='result-link'>Merge, join, concatenate</a></td></tr>
<tr><td class='result-snippet'>Use <b>pd.merge</b> to
 combine frames.</td></tr>
<tr><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fstackoverflow.com%2Fq%2F53645882&amp;rut=x" class='result-link'>Pandas Merging 101</a></td></tr>
<tr><td class='result-snippet'>A canonical answer.</td></tr>
<tr><td><a href="javascript:void(0)" class='result-link'>Bad link</a></td></tr>
<tr><td class='result-snippet'>ignored</td></tr>
</table></body></html>`

func TestParseLiteResults(t *testing.T) {
	t.Parallel()

	t.Run("extracts links, unwraps redirects and pairs snippets", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(litePage))
		require.NoError(t, err)

		hits := locgoquery.ParseLiteResults(doc, 0)

		assert.Equal(t, []webqa.SearchHit{
			{URL: "https://pandas.pydata.org/docs/merging.html", Title: "Merge, join, concatenate", Snippet: "Use pd.merge to combine frames."},
			{URL: "https://stackoverflow.com/q/53645882", Title: "Pandas Merging 101", Snippet: "A canonical answer."},
		}, hits)
	})

	t.Run("stops at count", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(litePage))
		require.NoError(t, err)

		hits := locgoquery.ParseLiteResults(doc, 1)

		require.Len(t, hits, 1)
		assert.Equal(t, "https://pandas.pydata.org/docs/merging.html", hits[0].URL)
	})
}

func TestDuckDuckGo_Search(t *testing.T) {
	t.Parallel()

	t.Run("posts form query and parses results", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "pandas merge", r.PostForm.Get("q"))
			_, _ = w.Write([]byte(litePage))
		}))
		defer server.Close()

		hits, err := locgoquery.NewDuckDuckGo(server.URL, nil).Search(context.Background(), "pandas merge", 5)

		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("maps throttling to EQUOTA", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		_, err := locgoquery.NewDuckDuckGo(server.URL, nil).Search(context.Background(), "q", 5)

		assert.Equal(t, webqa.EQUOTA, webqa.ErrorCode(err))
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		_, err := locgoquery.NewDuckDuckGo("", nil).Search(context.Background(), "  ", 5)

		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})
}
