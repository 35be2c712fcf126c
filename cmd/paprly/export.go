// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/cite"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML, JSON and a CSL bibliography",
	Long: `Export writes every paper and project to export.yaml and export.json,
and the saved papers as a CSL-YAML bibliography (references.yaml) for use
with Pandoc or a reference manager.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("dir", "export", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	paths, err := a.store.Export(cmd.Context(), dir)
	if err != nil {
		return err
	}

	snap, err := a.store.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	items := make([]cite.Item, len(snap.Papers))
	for i, p := range snap.Papers {
		items[i] = cite.FromPaper(p)
	}
	refPath := filepath.Join(dir, "references.yaml")
	f, err := os.Create(refPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", refPath, err)
	}
	if err := cite.Write(f, items); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", refPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	paths = append(paths, refPath)

	w := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(w, "wrote", p)
	}
	fmt.Fprintf(w, "%d papers, %d projects\n", len(snap.Papers), len(snap.Projects))
	return nil
}
