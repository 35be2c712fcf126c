// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [inputs...]",
	Short: "Save papers from arXiv links, DOIs or identifiers",
	Long: `Ingest classifies each input, fetches its metadata from arXiv and saves
it to the library. Papers already in the library are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	var added, skipped, failed int
	for _, input := range args {
		p, err := a.ingest.Ingest(cmd.Context(), input)
		switch {
		case err == nil:
			added++
			fmt.Fprintf(w, "added    %-16s %s\n", p.ArxivID, truncate(p.Title, 70))
		case errors.Is(err, ingest.ErrAlreadyAdded):
			skipped++
			fmt.Fprintf(w, "skipped  %-16s already in library\n", input)
		default:
			failed++
			fmt.Fprintf(w, "failed   %-16s %v\n", input, err)
		}
	}

	fmt.Fprintf(w, "\n%d added, %d skipped, %d failed\n", added, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d input(s) failed ingestion", failed)
	}
	return nil
}
