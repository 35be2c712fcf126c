// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite renders papers and search results as CSL-YAML, the
// bibliography format read by Pandoc and most reference managers.
package cite

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/pkg/types"
)

// arxivDOIPrefix is the DOI namespace arXiv registers every paper under.
const arxivDOIPrefix = "10.48550/arXiv."

// Item is one CSL entry.
type Item struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	Author   []Name `yaml:"author,omitempty"`
	Abstract string `yaml:"abstract,omitempty"`
	Issued   *Date  `yaml:"issued,omitempty"`
	DOI      string `yaml:"DOI,omitempty"`
	URL      string `yaml:"URL,omitempty"`
	Number   string `yaml:"number,omitempty"`
	Note     string `yaml:"note,omitempty"`
}

// Name is a person's name. Single-token names use Literal.
type Name struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// Date holds CSL date-parts.
type Date struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FromPaper converts a saved paper. Papers with an arXiv id are typed as
// preprints and get the arXiv DOI; others are plain articles keyed by row id.
func FromPaper(p types.Paper) Item {
	item := Item{
		ID:       fmt.Sprintf("paper-%d", p.ID),
		Type:     "article",
		Title:    p.Title,
		Abstract: p.Abstract,
		URL:      p.URL,
	}
	for _, a := range p.Authors {
		item.Author = append(item.Author, parseName(a))
	}
	if len(item.Author) == 0 && strings.TrimSpace(p.Contributors) != "" {
		for _, a := range strings.Split(p.Contributors, ",") {
			if n := parseName(a); n != (Name{}) {
				item.Author = append(item.Author, n)
			}
		}
	}
	if p.Year != nil {
		item.Issued = &Date{DateParts: [][]int{{*p.Year}}}
	}
	if p.ArxivID != "" {
		applyArxiv(&item, p.ArxivID)
	}
	return item
}

// FromSearchResult converts an arXiv search result.
func FromSearchResult(r types.SearchResult) Item {
	item := Item{
		ID:       r.Identifier,
		Type:     "article",
		Title:    r.Title,
		Abstract: r.Abstract,
		URL:      r.URL,
	}
	for _, a := range r.Authors {
		item.Author = append(item.Author, parseName(a))
	}
	if !r.Date.IsZero() {
		item.Issued = &Date{
			DateParts: [][]int{{r.Date.Year(), int(r.Date.Month()), r.Date.Day()}},
		}
	}
	if arxiv.IsCanonical(r.Identifier) {
		applyArxiv(&item, r.Identifier)
	}
	return item
}

func applyArxiv(item *Item, id string) {
	bare := arxiv.StripVersion(id)
	item.ID = "arxiv-" + bare
	item.Number = "arXiv:" + id
	item.Note = "preprint"
	if arxiv.IsCanonical(id) {
		item.DOI = arxivDOIPrefix + bare
	}
	if item.URL == "" {
		item.URL = "https://arxiv.org/abs/" + id
	}
}

// Write encodes items as a CSL-YAML list.
func Write(w io.Writer, items []Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return err
	}
	return enc.Close()
}

// parseName splits on the last space: everything before is given, the last
// token is family.
func parseName(name string) Name {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return Name{Literal: name}
	}
	return Name{
		Given:  strings.TrimSpace(name[:idx]),
		Family: name[idx+1:],
	}
}
