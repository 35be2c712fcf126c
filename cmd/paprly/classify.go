// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/arxiv"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [inputs...]",
	Short: "Resolve inputs to arXiv ids without fetching anything",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	addOutputFlags(classifyCmd)
	rootCmd.AddCommand(classifyCmd)
}

// classifyRow is one line of classify output.
type classifyRow struct {
	Input    string `json:"input" yaml:"input"`
	Kind     string `json:"kind" yaml:"kind"`
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Verified bool   `json:"verified" yaml:"verified"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	rows := make([]classifyRow, 0, len(args))
	for _, input := range args {
		c := arxiv.Classify(input)
		rows = append(rows, classifyRow{Input: input, Kind: c.Kind.String(), ID: c.ID, Verified: c.Verified})
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, outputFormatFor(cmd), rows); done {
		return err
	}

	fmt.Fprintf(w, "%-8s  %-18s  %-8s  %s\n", "Kind", "ID", "Verified", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range rows {
		fmt.Fprintf(w, "%-8s  %-18s  %-8t  %s\n", r.Kind, r.ID, r.Verified, truncate(r.Input, 40))
	}
	return nil
}
