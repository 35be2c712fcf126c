// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List, show and delete saved papers",
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved papers, newest first",
	RunE:  runPapersList,
}

func runPapersList(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	text, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	papers, err := a.store.ListPapers(cmd.Context(), store.PaperQuery{Text: text, Limit: limit})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, outputFormatFor(cmd), papers); done {
		return err
	}
	formatPaperTable(papers, w)
	return nil
}

func formatPaperTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers saved.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-14s  %-56s  %-20s  %s\n", "ID", "arXiv", "Title", "Authors", "Year")
	fmt.Fprintln(w, strings.Repeat("-", 106))
	for _, p := range papers {
		year := ""
		if p.Year != nil {
			year = strconv.Itoa(*p.Year)
		}
		authors := formatAuthors(p.Authors)
		if authors == "" {
			authors = truncate(p.Contributors, 20)
		}
		fmt.Fprintf(w, "%-5d  %-14s  %-56s  %-20s  %s\n",
			p.ID, p.ArxivID, truncate(p.Title, 56), authors, year)
	}
	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// --- show subcommand ---

var papersShowCmd = &cobra.Command{
	Use:   "show [paper-id]",
	Short: "Show a saved paper with its notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	id, err := parsePaperID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.store.GetPaper(cmd.Context(), id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, outputFormatFor(cmd), p); done {
		return err
	}

	fmt.Fprintf(w, "%s\n\n", p.Title)
	printField(w, "arXiv", p.ArxivID)
	printField(w, "Authors", strings.Join(p.Authors, ", "))
	printField(w, "Contributors", p.Contributors)
	if p.Year != nil {
		printField(w, "Year", strconv.Itoa(*p.Year))
	}
	printField(w, "Published", p.DatePublished)
	printField(w, "URL", p.URL)
	printField(w, "PDF", p.PDFURL)
	printField(w, "Saved", p.CreatedAt.Local().Format("2006-01-02 15:04"))

	for _, section := range []struct{ name, body string }{
		{"Abstract", p.Abstract},
		{"Problem", p.Problem},
		{"Method", p.Method},
		{"Results", p.Results},
		{"Limitations", p.Limitations},
	} {
		if section.body != "" {
			fmt.Fprintf(w, "\n## %s\n%s\n", section.name, section.body)
		}
	}
	return nil
}

func printField(w io.Writer, name, value string) {
	if value != "" {
		fmt.Fprintf(w, "%-13s %s\n", name+":", value)
	}
}

// --- delete subcommand ---

var papersDeleteCmd = &cobra.Command{
	Use:   "delete [paper-id...]",
	Short: "Delete saved papers and unpin them from every project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPapersDelete,
}

func runPapersDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, arg := range args {
		id, err := parsePaperID(arg)
		if err != nil {
			return err
		}
		if err := a.store.DeletePaper(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted paper %d\n", id)
	}
	return nil
}

func parsePaperID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid paper id %q", s)
	}
	return id, nil
}

func init() {
	papersListCmd.Flags().String("query", "", "filter by title, abstract or author")
	papersListCmd.Flags().Int("limit", 0, "maximum number of papers (0 = all)")
	addOutputFlags(papersListCmd)
	addOutputFlags(papersShowCmd)

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersShowCmd)
	papersCmd.AddCommand(papersDeleteCmd)
	rootCmd.AddCommand(papersCmd)
}
