// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv classifies paper identifiers and reads paper metadata from
// the arXiv export API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/paprly/paprly/pkg/types"
)

var (
	// ErrNotFound is returned when the API call fails or the feed has no entry.
	ErrNotFound = errors.New("arxiv: paper not found")

	// ErrMalformedFeed is returned when the API response is not valid Atom XML.
	ErrMalformedFeed = errors.New("arxiv: malformed feed")
)

const (
	defaultAPIBase = "https://export.arxiv.org/api/query"
	absURLBase     = "https://arxiv.org/abs/"
)

// Metadata is the flattened record for one paper.
type Metadata struct {
	ArxivID  string   `json:"arxivId" yaml:"arxiv_id"`
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors  []string `json:"authors" yaml:"authors"`
	URL      string   `json:"url" yaml:"url"`
	PDFURL   string   `json:"pdfUrl,omitempty" yaml:"pdf_url,omitempty"`
	Year     *int     `json:"year,omitempty" yaml:"year,omitempty"`
}

// Client talks to the arXiv export API.
type Client struct {
	http      *http.Client
	apiBase   string
	userAgent string
	logger    *slog.Logger

	// Search-only settings.
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient returns a Client configured from cfg. A nil httpClient gets one
// with cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.ArxivConfig, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	limit := rate.Inf
	if cfg.SearchInterval > 0 {
		limit = rate.Every(cfg.SearchInterval)
	}
	return &Client{
		http:       httpClient,
		apiBase:    apiBase,
		userAgent:  cfg.UserAgent,
		logger:     logger,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
	}
}

// Atom feed XML structures. encoding/xml collects one or many repeated
// children into the same slice, so single-author and single-link entries
// need no special casing.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// FetchMetadata makes one request for id and normalizes the first feed entry.
// Transport failures, non-200 statuses and empty feeds return ErrNotFound.
// Unparseable XML returns ErrMalformedFeed.
func (c *Client) FetchMetadata(ctx context.Context, id string) (*Metadata, error) {
	apiURL := fmt.Sprintf("%s?id_list=%s", c.apiBase, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "arXiv metadata request failed", "arxiv_id", id, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "arXiv metadata request returned non-200",
			"arxiv_id", id, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrNotFound, id, resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, id, err)
	}

	if len(feed.Entries) == 0 {
		c.logger.WarnContext(ctx, "arXiv feed has no entry", "arxiv_id", id)
		return nil, fmt.Errorf("%w: %s: no entry in feed", ErrNotFound, id)
	}

	m := normalizeEntry(id, feed.Entries[0])
	if m.Title == "" {
		m.Title = "arXiv:" + id
	}
	return m, nil
}

// normalizeEntry flattens an entry. Title may come back empty.
func normalizeEntry(id string, e atomEntry) *Metadata {
	m := &Metadata{
		ArxivID:  id,
		Title:    collapseSpace(e.Title),
		Abstract: collapseSpace(e.Summary),
		Authors:  []string{},
		URL:      absURLBase + id,
		Year:     publishedYear(e.Published),
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			m.Authors = append(m.Authors, name)
		}
	}

	for _, l := range e.Links {
		if l.Href == "" {
			continue
		}
		if l.Title == "pdf" {
			m.PDFURL = l.Href
		}
		if l.Rel == "alternate" {
			m.URL = l.Href
		}
	}
	return m
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// publishedDateLayouts are tried in order; arXiv uses RFC 3339.
var publishedDateLayouts = []string{time.RFC3339, "2006-01-02"}

// publishedYear returns the UTC year of an Atom <published> value, or nil
// when the value is absent or not a date.
func publishedYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range publishedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y := t.UTC().Year()
			return &y
		}
	}
	return nil
}
