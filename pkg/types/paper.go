// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper is a saved (bookmarked) paper with the reader's structured notes.
type Paper struct {
	// ID is the store-assigned row id.
	ID int64 `json:"id" yaml:"id"`

	// ArxivID is the canonical arXiv identifier, version suffix included
	// (e.g. "2410.12345v2"). Empty for manually entered papers.
	ArxivID string `json:"arxivId,omitempty" yaml:"arxiv_id,omitempty"`

	// URL is the abstract page or any other landing page for the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// PDFURL is the direct PDF link when known.
	PDFURL string `json:"pdfUrl,omitempty" yaml:"pdf_url,omitempty"`

	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors  []string `json:"authors" yaml:"authors"`

	// Contributors and DatePublished are free text for manually entered papers.
	Contributors  string `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	DatePublished string `json:"datePublished,omitempty" yaml:"date_published,omitempty"`

	// Year is the publication year; nil when unknown.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`

	// Reading notes.
	Problem     string `json:"problem,omitempty" yaml:"problem,omitempty"`
	Method      string `json:"method,omitempty" yaml:"method,omitempty"`
	Results     string `json:"results,omitempty" yaml:"results,omitempty"`
	Limitations string `json:"limitations,omitempty" yaml:"limitations,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// PaperPatch carries a partial update. Nil fields are left unchanged.
type PaperPatch struct {
	Title       *string `json:"title,omitempty"`
	Abstract    *string `json:"abstract,omitempty"`
	Problem     *string `json:"problem,omitempty"`
	Method      *string `json:"method,omitempty"`
	Results     *string `json:"results,omitempty"`
	Limitations *string `json:"limitations,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PaperPatch) IsEmpty() bool {
	return p.Title == nil && p.Abstract == nil && p.Problem == nil &&
		p.Method == nil && p.Results == nil && p.Limitations == nil
}
