// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/paprly/paprly/pkg/types"
)

const projectColumns = `id, title, goal, abstract, theme, contributors, ideas, notes,
	related, queue, created_at, updated_at`

// CreateProject inserts p with a new UUID and sets its timestamps.
func (s *Store) CreateProject(ctx context.Context, p *types.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	p.ID = uuid.NewString()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, title, goal, abstract, theme, contributors, ideas, notes,
			related, queue, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, nullString(p.Goal), nullString(p.Abstract), p.Theme, p.Contributors,
		nullString(p.Ideas), nullString(p.Notes), nullString(p.Related), nullString(p.Queue),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	p.CreatedAt = parseTime(now)
	p.UpdatedAt = p.CreatedAt
	p.PaperIDs = []int64{}
	return nil
}

// GetProject returns the project with its pinned paper ids.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	pins, err := s.pinnedIDs(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.PaperIDs = pins[p.ID]
	if p.PaperIDs == nil {
		p.PaperIDs = []int64{}
	}
	return p, nil
}

// ListProjects returns every project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	var ids []string
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pins, err := s.pinnedIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].PaperIDs = pins[projects[i].ID]
		if projects[i].PaperIDs == nil {
			projects[i].PaperIDs = []int64{}
		}
	}
	return projects, nil
}

// UpdateProject applies patch and returns the updated project.
func (s *Store) UpdateProject(ctx context.Context, id string, patch types.ProjectPatch) (*types.Project, error) {
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
	if patch.Contributors != nil {
		sets = append(sets, "contributors = ?")
		args = append(args, *patch.Contributors)
	}
	for _, f := range []struct {
		col string
		val *string
	}{
		{"goal", patch.Goal},
		{"ideas", patch.Ideas},
		{"notes", patch.Notes},
		{"related", patch.Related},
		{"queue", patch.Queue},
	} {
		if f.val != nil {
			sets = append(sets, f.col+" = ?")
			args = append(args, nullString(*f.val))
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes the project and its pins. Pinned papers are kept.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return nil
}

// PinPaper attaches a saved paper to a project. Pinning twice is a no-op.
func (s *Store) PinPaper(ctx context.Context, projectID string, paperID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT 1 FROM projects WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("%w: project %s", err, projectID)
	}
	if err := requireRow(ctx, tx, `SELECT 1 FROM papers WHERE id = ?`, paperID); err != nil {
		return fmt.Errorf("%w: paper %d", err, paperID)
	}

	now := s.timestamp()
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_papers (project_id, paper_id, pinned_at) VALUES (?, ?, ?)`,
		projectID, paperID, now,
	); err != nil {
		return fmt.Errorf("pinning paper: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`, now, projectID,
	); err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return tx.Commit()
}

// UnpinPaper detaches a paper from a project.
func (s *Store) UnpinPaper(ctx context.Context, projectID string, paperID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM project_papers WHERE project_id = ? AND paper_id = ?`, projectID, paperID)
	if err != nil {
		return fmt.Errorf("unpinning paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: paper %d is not pinned to project %s", ErrNotFound, paperID, projectID)
	}
	return nil
}

// ListProjectPapers returns the papers pinned to a project, oldest pin first.
func (s *Store) ListProjectPapers(ctx context.Context, projectID string) ([]types.Paper, error) {
	if err := requireRow(ctx, s.db, `SELECT 1 FROM projects WHERE id = ?`, projectID); err != nil {
		return nil, fmt.Errorf("%w: project %s", err, projectID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+qualify("p", paperColumns)+`
		 FROM project_papers pp JOIN papers p ON p.id = pp.paper_id
		 WHERE pp.project_id = ?
		 ORDER BY pp.pinned_at, p.id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying project papers: %w", err)
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

func (s *Store) pinnedIDs(ctx context.Context, projectIDs []string) (map[string][]int64, error) {
	out := make(map[string][]int64, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(projectIDs)), ",")
	args := make([]any, len(projectIDs))
	for i, id := range projectIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, paper_id FROM project_papers
		 WHERE project_id IN (`+placeholders+`)
		 ORDER BY pinned_at, paper_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var paperID int64
		if err := rows.Scan(&projectID, &paperID); err != nil {
			return nil, fmt.Errorf("scanning pin: %w", err)
		}
		out[projectID] = append(out[projectID], paperID)
	}
	return out, rows.Err()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireRow returns ErrNotFound when the query yields no row.
func requireRow(ctx context.Context, q queryRower, query string, args ...any) error {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// qualify prefixes each column in a comma-separated list with alias.
func qualify(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func scanProject(row rowScanner) (*types.Project, error) {
	var (
		p                            types.Project
		goal, abstract, ideas, notes sql.NullString
		related, queue               sql.NullString
		createdAt, updatedAt         string
	)
	err := row.Scan(&p.ID, &p.Title, &goal, &abstract, &p.Theme, &p.Contributors,
		&ideas, &notes, &related, &queue, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Goal = goal.String
	p.Abstract = abstract.String
	p.Ideas = ideas.String
	p.Notes = notes.String
	p.Related = related.String
	p.Queue = queue.String
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
