// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paprly/paprly/pkg/types"
)

const twoAuthorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: id_list=2410.12345</title>
  <entry>
    <id>http://arxiv.org/abs/2410.12345v1</id>
    <published>2024-10-16T17:59:58Z</published>
    <title>Efficient   Attention
      for Long Sequences</title>
    <summary>  We propose a
      linear-time approximation.  </summary>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
    <link href="http://arxiv.org/abs/2410.12345v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2410.12345v1" rel="related" type="application/pdf"/>
  </entry>
</feed>`

const singleAuthorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <published>2023-01-17T00:00:00Z</published>
    <title>Solo Work</title>
    <summary>Alone.</summary>
    <author><name>Carol White</name></author>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v2" rel="related"/>
  </entry>
</feed>`

const twoEntryFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2410.12345v1</id>
    <published>2024-10-16T17:59:58Z</published>
    <title>First</title>
    <summary>First abstract.</summary>
    <author><name>Alice Smith</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2410.99999v1</id>
    <published>2023-05-01T00:00:00Z</published>
    <title>Second</title>
    <summary>Second abstract.</summary>
    <author><name>Dave Brown</name></author>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
</feed>`

func feedServer(t *testing.T, status int, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.Query().Get("id_list")
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testClient(ts *httptest.Server) *Client {
	return NewClient(ts.Client(), types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1"},
		APIBase:    ts.URL,
	}, nil)
}

func TestFetchMetadataTwoAuthors(t *testing.T) {
	var query string
	ts := feedServer(t, http.StatusOK, twoAuthorFeed, &query)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
	require.NoError(t, err)

	assert.Equal(t, "2410.12345", query)
	assert.Equal(t, "2410.12345", m.ArxivID)
	assert.Equal(t, "Efficient Attention for Long Sequences", m.Title)
	assert.Equal(t, "We propose a linear-time approximation.", m.Abstract)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, m.Authors)
	assert.Equal(t, "http://arxiv.org/abs/2410.12345v1", m.URL)
	assert.Equal(t, "http://arxiv.org/pdf/2410.12345v1", m.PDFURL)
	require.NotNil(t, m.Year)
	assert.Equal(t, 2024, *m.Year)
}

func TestFetchMetadataSingleAuthorAndDefaultURL(t *testing.T) {
	ts := feedServer(t, http.StatusOK, singleAuthorFeed, nil)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2301.07041v2")
	require.NoError(t, err)

	assert.Equal(t, []string{"Carol White"}, m.Authors)
	// No alternate link: the conventional abstract URL is kept.
	assert.Equal(t, "https://arxiv.org/abs/2301.07041v2", m.URL)
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v2", m.PDFURL)
}

func TestFetchMetadataUsesFirstEntry(t *testing.T) {
	ts := feedServer(t, http.StatusOK, twoEntryFeed, nil)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
	require.NoError(t, err)

	assert.Equal(t, "First", m.Title)
	assert.Equal(t, "First abstract.", m.Abstract)
	assert.Equal(t, []string{"Alice Smith"}, m.Authors)
	require.NotNil(t, m.Year)
	assert.Equal(t, 2024, *m.Year)
}

func TestFetchMetadataEscapesID(t *testing.T) {
	var query string
	ts := feedServer(t, http.StatusOK, singleAuthorFeed, &query)

	_, err := testClient(ts).FetchMetadata(context.Background(), "a b&c")
	require.NoError(t, err)
	assert.Equal(t, "a b&c", query)
}

func TestFetchMetadataNon200(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		ts := feedServer(t, status, "oops", nil)
		m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestFetchMetadataTransportError(t *testing.T) {
	ts := feedServer(t, http.StatusOK, twoAuthorFeed, nil)
	c := testClient(ts)
	ts.Close()

	m, err := c.FetchMetadata(context.Background(), "2410.12345")
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchMetadataNoEntry(t *testing.T) {
	ts := feedServer(t, http.StatusOK, emptyFeed, nil)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchMetadataMalformedXML(t *testing.T) {
	ts := feedServer(t, http.StatusOK, "<feed><entry><title>broken", nil)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFeed))
	assert.False(t, errors.Is(err, ErrNotFound), "parse failures must stay distinct from not-found")
}

func TestFetchMetadataTitleFallback(t *testing.T) {
	feed := `<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>   </title></entry></feed>`
	ts := feedServer(t, http.StatusOK, feed, nil)

	m, err := testClient(ts).FetchMetadata(context.Background(), "2410.12345")
	require.NoError(t, err)
	assert.Equal(t, "arXiv:2410.12345", m.Title)
	assert.Empty(t, m.Abstract)
	assert.Empty(t, m.Authors)
	assert.NotNil(t, m.Authors)
	assert.Nil(t, m.Year)
}

func TestNormalizeEntry(t *testing.T) {
	tests := []struct {
		name        string
		entry       atomEntry
		wantAuthors []string
		wantURL     string
		wantPDF     string
		wantYear    *int
	}{
		{
			name: "nameless authors dropped",
			entry: atomEntry{Authors: []atomAuthor{
				{Name: "A"}, {Name: ""}, {Name: "  "}, {Name: " B "},
			}},
			wantAuthors: []string{"A", "B"},
			wantURL:     "https://arxiv.org/abs/1234.56789",
		},
		{
			name: "last matching link wins",
			entry: atomEntry{Links: []atomLink{
				{Href: "u1", Rel: "alternate"},
				{Href: "p1", Title: "pdf"},
				{Href: "u2", Rel: "alternate"},
				{Href: "p2", Title: "pdf"},
			}},
			wantAuthors: []string{},
			wantURL:     "u2",
			wantPDF:     "p2",
		},
		{
			name: "links without href ignored",
			entry: atomEntry{Links: []atomLink{
				{Href: "", Rel: "alternate"},
				{Href: "", Title: "pdf"},
			}},
			wantAuthors: []string{},
			wantURL:     "https://arxiv.org/abs/1234.56789",
		},
		{
			name:        "date-only published",
			entry:       atomEntry{Published: "2019-06-01"},
			wantAuthors: []string{},
			wantURL:     "https://arxiv.org/abs/1234.56789",
			wantYear:    intPtr(2019),
		},
		{
			name:        "offset converted to UTC year",
			entry:       atomEntry{Published: "2020-12-31T23:30:00-02:00"},
			wantAuthors: []string{},
			wantURL:     "https://arxiv.org/abs/1234.56789",
			wantYear:    intPtr(2021),
		},
		{
			name:        "invalid published omitted",
			entry:       atomEntry{Published: "yesterday"},
			wantAuthors: []string{},
			wantURL:     "https://arxiv.org/abs/1234.56789",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := normalizeEntry("1234.56789", tt.entry)
			assert.Equal(t, tt.wantAuthors, m.Authors)
			assert.Equal(t, tt.wantURL, m.URL)
			assert.Equal(t, tt.wantPDF, m.PDFURL)
			assert.Equal(t, tt.wantYear, m.Year)
		})
	}
}

func intPtr(v int) *int { return &v }
