// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paprly/paprly/pkg/types"
)

const paperColumns = `id, arxiv_id, url, pdf_url, title, abstract, authors, contributors,
	date_published, year, problem, method, results, limitations, created_at, updated_at`

// PaperQuery filters ListPapers.
type PaperQuery struct {
	// Text matches title, abstract or authors, case-insensitively.
	Text string

	// Limit caps the result count. Zero means no limit.
	Limit int
}

// CreatePaper inserts p and sets its ID and timestamps. The title is
// required. A second paper with the same arXiv id returns ErrDuplicate.
func (s *Store) CreatePaper(ctx context.Context, p *types.Paper) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}
	authorsJSON, err := marshalAuthors(p.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors: %w", err)
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (arxiv_id, url, pdf_url, title, abstract, authors, contributors,
			date_published, year, problem, method, results, limitations, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(p.ArxivID), nullString(p.URL), nullString(p.PDFURL), p.Title,
		nullString(p.Abstract), string(authorsJSON), nullString(p.Contributors),
		nullString(p.DatePublished), nullInt(p.Year), nullString(p.Problem),
		nullString(p.Method), nullString(p.Results), nullString(p.Limitations),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: paper %s", ErrDuplicate, p.ArxivID)
		}
		return fmt.Errorf("inserting paper: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading paper id: %w", err)
	}
	p.ID = id
	p.CreatedAt = parseTime(formatTime(now))
	p.UpdatedAt = p.CreatedAt
	return nil
}

// GetPaper returns the paper with the given id.
func (s *Store) GetPaper(ctx context.Context, id int64) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+paperColumns+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: paper %d", ErrNotFound, id)
	}
	return p, err
}

// GetPaperByArxivID returns the paper saved under arxivID.
func (s *Store) GetPaperByArxivID(ctx context.Context, arxivID string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+paperColumns+` FROM papers WHERE arxiv_id = ?`, arxivID)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: paper %s", ErrNotFound, arxivID)
	}
	return p, err
}

// marshalAuthors encodes authors without HTML escaping so text filters see
// the names as written.
func marshalAuthors(authors []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(authors); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ListPapers returns saved papers, newest first.
func (s *Store) ListPapers(ctx context.Context, q PaperQuery) ([]types.Paper, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + paperColumns + ` FROM papers WHERE 1=1`)
	if text := strings.TrimSpace(q.Text); text != "" {
		like := "%" + escapeLike(strings.ToLower(text)) + "%"
		qb.WriteString(` AND (fold(title) LIKE ? ESCAPE '\' OR fold(coalesce(abstract, '')) LIKE ? ESCAPE '\' OR fold(authors) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	qb.WriteString(` ORDER BY created_at DESC, id DESC`)
	if q.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := []types.Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// UpdatePaper applies patch to the paper and returns the updated record.
// A title that is present but blank returns ErrInvalid.
func (s *Store) UpdatePaper(ctx context.Context, id int64, patch types.PaperPatch) (*types.Paper, error) {
	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	for _, f := range []struct {
		col string
		val *string
	}{
		{"abstract", patch.Abstract},
		{"problem", patch.Problem},
		{"method", patch.Method},
		{"results", patch.Results},
		{"limitations", patch.Limitations},
	} {
		if f.val != nil {
			sets = append(sets, f.col+" = ?")
			args = append(args, nullString(*f.val))
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: paper %d", ErrNotFound, id)
	}
	return s.GetPaper(ctx, id)
}

// DeletePaper removes the paper and unpins it from every project.
func (s *Store) DeletePaper(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: paper %d", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*types.Paper, error) {
	var (
		p                                     types.Paper
		arxivID, url, pdfURL, abstract        sql.NullString
		contributors, datePublished           sql.NullString
		problem, method, results, limitations sql.NullString
		authorsJSON, createdAt, updatedAt     string
		year                                  sql.NullInt64
	)
	err := row.Scan(&p.ID, &arxivID, &url, &pdfURL, &p.Title, &abstract, &authorsJSON,
		&contributors, &datePublished, &year, &problem, &method, &results, &limitations,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	p.ArxivID = arxivID.String
	p.URL = url.String
	p.PDFURL = pdfURL.String
	p.Abstract = abstract.String
	p.Contributors = contributors.String
	p.DatePublished = datePublished.String
	p.Problem = problem.String
	p.Method = method.String
	p.Results = results.String
	p.Limitations = limitations.String
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil || p.Authors == nil {
		p.Authors = []string{}
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
