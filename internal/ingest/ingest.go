// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns a pasted arXiv link or identifier into a saved paper.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

var (
	// ErrMissingInput is returned for empty or blank input.
	ErrMissingInput = errors.New("missing input")

	// ErrUnrecognized is returned when the input is not an arXiv reference.
	ErrUnrecognized = errors.New("could not recognize an arXiv id or URL")

	// ErrFetchFailed is returned when arXiv has no usable entry for the id.
	ErrFetchFailed = errors.New("failed to fetch arXiv metadata")

	// ErrAlreadyAdded is returned when a paper with the same arXiv id is saved.
	ErrAlreadyAdded = errors.New("paper already added")
)

// Fetcher reads metadata for a canonical arXiv id.
type Fetcher interface {
	FetchMetadata(ctx context.Context, id string) (*arxiv.Metadata, error)
}

// Store is the subset of the paper store used by ingestion.
type Store interface {
	GetPaperByArxivID(ctx context.Context, arxivID string) (*types.Paper, error)
	CreatePaper(ctx context.Context, p *types.Paper) error
}

// Service runs the classify, fetch, dedup and save workflow.
type Service struct {
	fetcher Fetcher
	store   Store
	logger  *slog.Logger
}

// NewService returns a Service. A nil logger uses slog.Default.
func NewService(fetcher Fetcher, st Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, store: st, logger: logger}
}

// Preview classifies input and fetches its metadata without saving anything.
func (s *Service) Preview(ctx context.Context, input string) (*arxiv.Metadata, error) {
	id, err := s.resolve(input)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, id)
}

// Ingest classifies input, fetches metadata and saves a new paper. The
// arXiv id is stored as classified, version suffix included.
func (s *Service) Ingest(ctx context.Context, input string) (*types.Paper, error) {
	id, err := s.resolve(input)
	if err != nil {
		return nil, err
	}

	meta, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetPaperByArxivID(ctx, id); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAdded, id)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing paper: %w", err)
	}

	p := &types.Paper{
		ArxivID:  id,
		URL:      meta.URL,
		PDFURL:   meta.PDFURL,
		Title:    meta.Title,
		Abstract: meta.Abstract,
		Authors:  meta.Authors,
		Year:     meta.Year,
	}
	if err := s.store.CreatePaper(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyAdded, id)
		}
		return nil, fmt.Errorf("saving paper: %w", err)
	}

	s.logger.InfoContext(ctx, "paper ingested", "arxiv_id", id, "paper_id", p.ID)
	return p, nil
}

func (s *Service) resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrMissingInput
	}
	c := arxiv.Classify(input)
	if c.Kind != arxiv.KindID {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}
	return c.ID, nil
}

func (s *Service) fetch(ctx context.Context, id string) (*arxiv.Metadata, error) {
	meta, err := s.fetcher.FetchMetadata(ctx, id)
	if errors.Is(err, arxiv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}
