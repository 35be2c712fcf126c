// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/paprly/paprly/pkg/types"
)

// Snapshot is the full contents of the store, as written by Export.
type Snapshot struct {
	Papers   []types.Paper   `json:"papers" yaml:"papers"`
	Projects []types.Project `json:"projects" yaml:"projects"`
}

// Snapshot reads every paper and project.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	papers, err := s.ListPapers(ctx, PaperQuery{})
	if err != nil {
		return nil, fmt.Errorf("querying papers for export: %w", err)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying projects for export: %w", err)
	}
	return &Snapshot{Papers: papers, Projects: projects}, nil
}

// Export writes dir/export.yaml and dir/export.json and returns their paths.
func (s *Store) Export(ctx context.Context, dir string) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	yamlData, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}

	yamlPath := filepath.Join(dir, "export.yaml")
	jsonPath := filepath.Join(dir, "export.json")
	if err := os.WriteFile(yamlPath, yamlData, 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return nil, err
	}
	return []string{yamlPath, jsonPath}, nil
}
