// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/backend"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [paper-id]",
	Short: "Summarize a saved paper's abstract, or --text, with the backend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().String("text", "", "text to summarize instead of a saved paper")
	summarizeCmd.Flags().Int("max-length", 150, "maximum summary length in tokens")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	if (text == "") == (len(args) == 0) {
		return fmt.Errorf("provide either a paper id or --text")
	}
	maxLength, _ := cmd.Flags().GetInt("max-length")

	a, err := openApp(len(args) > 0)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.backend.Enabled() {
		return fmt.Errorf("no backend configured: set backend.url or FASTAPI_URL")
	}

	if len(args) > 0 {
		id, err := parsePaperID(args[0])
		if err != nil {
			return err
		}
		p, err := a.store.GetPaper(cmd.Context(), id)
		if err != nil {
			return err
		}
		text = p.Abstract
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("paper %d has no abstract to summarize", id)
		}
	}

	resp, err := a.backend.Summarize(cmd.Context(), backend.SummarizeRequest{Text: text, MaxLength: maxLength})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Summary)
	return nil
}
