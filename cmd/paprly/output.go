// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

type outputFormat int

const (
	formatTable outputFormat = iota
	formatJSON
	formatYAML
)

// addOutputFlags registers --json and --yaml on cmd.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("yaml", false, "output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func outputFormatFor(cmd *cobra.Command) outputFormat {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return formatJSON
	}
	if v, _ := cmd.Flags().GetBool("yaml"); v {
		return formatYAML
	}
	return formatTable
}

// writeStructured writes v as JSON or YAML. It reports false for the table
// format so the caller can print its own layout.
func writeStructured(w io.Writer, format outputFormat, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
