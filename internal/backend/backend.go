// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend calls the external search and summarization service.
// Each call is a single attempt; failures are returned to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paprly/paprly/pkg/types"
)

// ErrDisabled is returned when no backend URL is configured.
var ErrDisabled = errors.New("backend: no URL configured")

// Search defaults sent when the request leaves them empty.
const (
	DefaultMaxResults = 5
	DefaultSortBy     = "SubmittedDate"
	DefaultSortOrder  = "Descending"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 10 << 20

// UpstreamError reports a non-2xx response from the backend.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length,omitempty"`
}

// SummarizeResponse is the body returned by POST /summarize.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// SearchRequest is the body of POST /arxiv_search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order"`
}

// RawResponse is an undecoded backend reply, kept so callers can pass the
// status and body through unchanged.
type RawResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// Client talks to the backend service.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	logger    *slog.Logger
}

// NewClient returns a Client configured from cfg. A nil httpClient gets one
// with cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.BackendConfig, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Enabled reports whether a backend URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Summarize sends text to POST /summarize.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	raw, err := c.postRaw(ctx, "/summarize", req)
	if err != nil {
		return nil, err
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: raw.StatusCode, Body: string(raw.Body)}
	}

	var out SummarizeResponse
	if err := json.Unmarshal(raw.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding summarize response: %w", err)
	}
	return &out, nil
}

// SummarizeRaw forwards an arbitrary JSON body to POST /summarize and
// returns the reply undecoded, whatever its status.
func (c *Client) SummarizeRaw(ctx context.Context, body json.RawMessage) (*RawResponse, error) {
	return c.postRaw(ctx, "/summarize", body)
}

// Search sends a query to POST /arxiv_search and returns the reply
// undecoded, whatever its status. Empty fields get the package defaults.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*RawResponse, error) {
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.SortBy == "" {
		req.SortBy = DefaultSortBy
	}
	if req.SortOrder == "" {
		req.SortOrder = DefaultSortOrder
	}
	return c.postRaw(ctx, "/arxiv_search", req)
}

func (c *Client) postRaw(ctx context.Context, path string, payload any) (*RawResponse, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading backend response: %w", err)
	}
	c.logger.DebugContext(ctx, "backend call", "path", path, "status", resp.StatusCode, "bytes", len(data))

	return &RawResponse{StatusCode: resp.StatusCode, Body: json.RawMessage(data)}, nil
}
