// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paprly/paprly/internal/httputil"
	"github.com/paprly/paprly/pkg/types"
)

const searchFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <published>2023-01-17T00:00:00Z</published>
    <title>First
      Result</title>
    <summary>Abstract one.</summary>
    <author><name>A</name></author>
    <author><name>B</name></author>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v1" rel="related"/>
  </entry>
  <entry>
    <id>not-an-abs-url</id>
    <title>Skipped</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v3</id>
    <published>bad</published>
    <title>Second</title>
  </entry>
</feed>`

func TestSearch(t *testing.T) {
	var gotQuery, gotSort, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotSort = r.URL.Query().Get("sortBy")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(searchFeed))
	}))
	defer ts.Close()

	c := testClient(ts)
	results, err := c.Search(context.Background(), Query{FreeText: "linear attention", Author: "smith"})
	require.NoError(t, err)

	assert.Equal(t, "all:linear AND all:attention AND au:smith", gotQuery)
	assert.Equal(t, SortRelevance, gotSort)
	assert.Equal(t, "test/0.1", gotUA)

	require.Len(t, results, 2)
	first := results[0]
	assert.Equal(t, "2301.07041", first.Identifier)
	assert.Equal(t, "First Result", first.Title)
	assert.Equal(t, []string{"A", "B"}, first.Authors)
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v1", first.PDFURL)
	assert.Equal(t, 2023, first.Date.Year())
	assert.Equal(t, "arxiv", first.Source)

	second := results[1]
	assert.Equal(t, "2302.00001", second.Identifier)
	assert.True(t, second.Date.IsZero())
	assert.Greater(t, first.RelevanceScore, second.RelevanceScore)
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient(nil, types.ArxivConfig{}, nil)
	_, err := c.Search(context.Background(), Query{FreeText: "   "})
	assert.Error(t, err)
}

func TestSearchRetriesOn429(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(searchFeed))
	}))
	defer ts.Close()

	results, err := testClient(ts).Search(context.Background(), Query{FreeText: "x"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := testClient(ts).Search(context.Background(), Query{FreeText: "x"})
	assert.Error(t, err)
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"free text", Query{FreeText: "graph neural"}, "all:graph AND all:neural"},
		{"author", Query{Author: "Hinton"}, "au:Hinton"},
		{"keywords", Query{Keywords: []string{"rl", "offline policy"}}, "all:rl AND all:offline AND all:policy"},
		{"empty", Query{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSearchQuery(tt.query))
		})
	}
}

func TestIDFromEntryURL(t *testing.T) {
	assert.Equal(t, "2301.07041v1", idFromEntryURL("http://arxiv.org/abs/2301.07041v1"))
	assert.Equal(t, "", idFromEntryURL("http://arxiv.org/pdf/2301.07041v1"))
}
