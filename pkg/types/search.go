// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the store, the HTTP
// API, and the CLI.
package types

import "time"

// SearchResult is a candidate paper returned by an arXiv query.
type SearchResult struct {
	// Identifier is the arXiv id with any version suffix removed.
	Identifier string `json:"identifier" yaml:"identifier"`

	Title    string    `json:"title" yaml:"title"`
	Authors  []string  `json:"authors" yaml:"authors"`
	Abstract string    `json:"abstract" yaml:"abstract"`
	Date     time.Time `json:"date" yaml:"date"`

	// URL is the abstract page; PDFURL the direct PDF link when the feed has one.
	URL    string `json:"url" yaml:"url"`
	PDFURL string `json:"pdfUrl,omitempty" yaml:"pdf_url,omitempty"`

	// Source identifies the backend that produced the result (e.g. "arxiv").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value between 0.0 and 1.0 derived from result position.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
