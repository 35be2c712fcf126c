// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/ingest"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [input]",
	Short: "Show arXiv metadata for a paper without saving it",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	addOutputFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	meta, err := ingest.NewService(a.arxiv, nil, slog.Default()).Preview(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, outputFormatFor(cmd), meta); done {
		return err
	}

	fmt.Fprintf(w, "arXiv:    %s\n", meta.ArxivID)
	fmt.Fprintf(w, "Title:    %s\n", meta.Title)
	fmt.Fprintf(w, "Authors:  %s\n", strings.Join(meta.Authors, ", "))
	if meta.Year != nil {
		fmt.Fprintf(w, "Year:     %d\n", *meta.Year)
	}
	fmt.Fprintf(w, "URL:      %s\n", meta.URL)
	if meta.PDFURL != "" {
		fmt.Fprintf(w, "PDF:      %s\n", meta.PDFURL)
	}
	if meta.Abstract != "" {
		fmt.Fprintf(w, "\n%s\n", meta.Abstract)
	}
	return nil
}
