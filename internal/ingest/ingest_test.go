// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

// fakeFetcher returns canned metadata and records the ids it was asked for.
type fakeFetcher struct {
	meta  map[string]*arxiv.Metadata
	err   error
	calls []string
}

func (f *fakeFetcher) FetchMetadata(_ context.Context, id string) (*arxiv.Metadata, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.meta[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", arxiv.ErrNotFound, id)
	}
	return m, nil
}

func newFetcher() *fakeFetcher {
	year := 2024
	return &fakeFetcher{meta: map[string]*arxiv.Metadata{
		"2410.12345v2": {
			ArxivID:  "2410.12345v2",
			Title:    "Efficient Attention",
			Abstract: "We make attention cheap.",
			Authors:  []string{"Alice Smith", "Bob Jones"},
			URL:      "https://arxiv.org/abs/2410.12345v2",
			PDFURL:   "https://arxiv.org/pdf/2410.12345v2",
			Year:     &year,
		},
		"2501.00001": {
			ArxivID: "2501.00001",
			Title:   "Another Paper",
			Authors: []string{},
			URL:     "https://arxiv.org/abs/2501.00001",
		},
	}}
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "paprly.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIngest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr error
	}{
		{name: "bare id", input: "2410.12345v2", wantID: "2410.12345v2"},
		{name: "abs url", input: "https://arxiv.org/abs/2410.12345v2", wantID: "2410.12345v2"},
		{name: "pdf url", input: "https://arxiv.org/pdf/2501.00001.pdf", wantID: "2501.00001"},
		{name: "prefixed", input: "  arXiv:2501.00001 ", wantID: "2501.00001"},
		{name: "doi", input: "10.48550/arXiv.2501.00001", wantID: "2501.00001"},
		{name: "blank", input: "   ", wantErr: ErrMissingInput},
		{name: "not arxiv", input: "https://example.com/paper", wantErr: ErrUnrecognized},
		{name: "unknown id", input: "2402.99999", wantErr: ErrFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFetcher(), testStore(t), nil)
			p, err := svc.Ingest(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ArxivID)
			assert.NotZero(t, p.ID)
		})
	}
}

func TestIngestCopiesMetadata(t *testing.T) {
	st := testStore(t)
	svc := NewService(newFetcher(), st, nil)

	p, err := svc.Ingest(context.Background(), "2410.12345v2")
	require.NoError(t, err)

	saved, err := st.GetPaper(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Efficient Attention", saved.Title)
	assert.Equal(t, "We make attention cheap.", saved.Abstract)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, saved.Authors)
	assert.Equal(t, "https://arxiv.org/pdf/2410.12345v2", saved.PDFURL)
	require.NotNil(t, saved.Year)
	assert.Equal(t, 2024, *saved.Year)
}

func TestIngestTwiceIsAlreadyAdded(t *testing.T) {
	svc := NewService(newFetcher(), testStore(t), nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "2410.12345v2")
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, "https://arxiv.org/abs/2410.12345v2")
	assert.ErrorIs(t, err, ErrAlreadyAdded)
}

func TestIngestVersionsAreDistinct(t *testing.T) {
	f := newFetcher()
	f.meta["2410.12345v1"] = &arxiv.Metadata{ArxivID: "2410.12345v1", Title: "Efficient Attention", Authors: []string{}}
	svc := NewService(f, testStore(t), nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "2410.12345v1")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "2410.12345v2")
	assert.NoError(t, err)
}

func TestIngestUnknownSkipsFetch(t *testing.T) {
	f := newFetcher()
	svc := NewService(f, testStore(t), nil)

	_, err := svc.Ingest(context.Background(), "not a paper")
	assert.ErrorIs(t, err, ErrUnrecognized)
	assert.Empty(t, f.calls)
}

func TestIngestMalformedFeedPropagates(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: bad xml", arxiv.ErrMalformedFeed)}
	svc := NewService(f, testStore(t), nil)

	_, err := svc.Ingest(context.Background(), "2410.12345")
	assert.ErrorIs(t, err, arxiv.ErrMalformedFeed)
	assert.False(t, errors.Is(err, ErrFetchFailed))
}

// raceStore reports no existing paper, then fails the insert as a duplicate.
type raceStore struct{}

func (raceStore) GetPaperByArxivID(context.Context, string) (*types.Paper, error) {
	return nil, store.ErrNotFound
}

func (raceStore) CreatePaper(context.Context, *types.Paper) error {
	return fmt.Errorf("%w: raced", store.ErrDuplicate)
}

func TestIngestInsertRaceIsAlreadyAdded(t *testing.T) {
	svc := NewService(newFetcher(), raceStore{}, nil)
	_, err := svc.Ingest(context.Background(), "2410.12345v2")
	assert.ErrorIs(t, err, ErrAlreadyAdded)
}

func TestPreview(t *testing.T) {
	st := testStore(t)
	svc := NewService(newFetcher(), st, nil)
	ctx := context.Background()

	meta, err := svc.Preview(ctx, "https://arxiv.org/abs/2410.12345v2")
	require.NoError(t, err)
	assert.Equal(t, "Efficient Attention", meta.Title)

	papers, err := st.ListPapers(ctx, store.PaperQuery{})
	require.NoError(t, err)
	assert.Empty(t, papers, "preview must not save")

	_, err = svc.Preview(ctx, "")
	assert.ErrorIs(t, err, ErrMissingInput)
	_, err = svc.Preview(ctx, "2402.99999")
	assert.ErrorIs(t, err, ErrFetchFailed)
}
