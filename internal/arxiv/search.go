// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paprly/paprly/internal/httputil"
	"github.com/paprly/paprly/pkg/types"
)

// Sort orders accepted by the arXiv API.
const (
	SortRelevance     = "relevance"
	SortSubmittedDate = "submittedDate"
	SortLastUpdated   = "lastUpdatedDate"
)

// Query holds search parameters. At least one of FreeText, Author or
// Keywords must be set.
type Query struct {
	FreeText   string
	Author     string
	Keywords   []string
	MaxResults int

	// SortBy is one of the Sort constants (default relevance, descending).
	SortBy string
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.FreeText) == "" && strings.TrimSpace(q.Author) == "" && len(q.Keywords) == 0
}

// Search queries the arXiv API. Requests are spaced by the client's rate
// limiter and HTTP 429 responses are retried with backoff.
func (c *Client) Search(ctx context.Context, q Query) ([]types.SearchResult, error) {
	sq := buildSearchQuery(q)
	if sq == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortRelevance
	}

	params := url.Values{}
	params.Set("search_query", sq)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", sortBy)
	params.Set("sortOrder", "descending")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	total := len(feed.Entries)
	results := make([]types.SearchResult, 0, total)
	for i, entry := range feed.Entries {
		id := idFromEntryURL(entry.ID)
		if id == "" {
			continue
		}
		m := normalizeEntry(id, entry)

		r := types.SearchResult{
			Identifier: StripVersion(id),
			Title:      m.Title,
			Authors:    m.Authors,
			Abstract:   m.Abstract,
			URL:        m.URL,
			PDFURL:     m.PDFURL,
			Source:     "arxiv",
		}
		if t, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published)); parseErr == nil {
			r.Date = t
		}

		// Position-based relevance score.
		if total > 1 {
			r.RelevanceScore = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			r.RelevanceScore = 1.0
		}
		results = append(results, r)
	}
	return results, nil
}

// buildSearchQuery constructs the search_query parameter from structured
// fields. Terms inside a field are ANDed, as are the fields.
func buildSearchQuery(q Query) string {
	var parts []string

	field := func(prefix, text string) {
		terms := strings.Fields(text)
		if len(terms) == 0 {
			return
		}
		for i, t := range terms {
			terms[i] = prefix + ":" + t
		}
		parts = append(parts, strings.Join(terms, " AND "))
	}

	field("all", q.FreeText)
	field("au", q.Author)
	for _, kw := range q.Keywords {
		field("all", kw)
	}
	return strings.Join(parts, " AND ")
}

// idFromEntryURL pulls the arXiv id from an entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func idFromEntryURL(idURL string) string {
	const marker = "/abs/"
	idx := strings.Index(idURL, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(idURL[idx+len(marker):])
}
