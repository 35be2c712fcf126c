// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/cite"
	"github.com/paprly/paprly/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv for candidate papers",
	Long: `Search queries the arXiv API directly. Free text, author and keyword
filters are ANDed. Requests are spaced to respect arXiv's rate limits.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text query")
	searchCmd.Flags().String("author", "", "filter by author name")
	searchCmd.Flags().String("keywords", "", "filter by keywords (comma-separated)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to return")
	searchCmd.Flags().String("sort", arxiv.SortRelevance, "sort order: relevance, submittedDate, lastUpdatedDate")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	addOutputFlags(searchCmd)
	searchCmd.MarkFlagsMutuallyExclusive("csl", "json", "yaml")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := searchQueryFromFlags(cmd, args)
	if q.IsEmpty() {
		return fmt.Errorf("query required: provide a query, --author, or --keywords")
	}
	switch q.SortBy {
	case arxiv.SortRelevance, arxiv.SortSubmittedDate, arxiv.SortLastUpdated:
	default:
		return fmt.Errorf("unknown sort order %q", q.SortBy)
	}

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.arxiv.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if csl, _ := cmd.Flags().GetBool("csl"); csl {
		items := make([]cite.Item, len(results))
		for i, r := range results {
			items[i] = cite.FromSearchResult(r)
		}
		return cite.Write(w, items)
	}
	if done, err := writeStructured(w, outputFormatFor(cmd), results); done {
		return err
	}
	formatSearchTable(results, w)
	return nil
}

func searchQueryFromFlags(cmd *cobra.Command, args []string) arxiv.Query {
	text, _ := cmd.Flags().GetString("query")
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}
	author, _ := cmd.Flags().GetString("author")
	keywords, _ := cmd.Flags().GetString("keywords")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortBy, _ := cmd.Flags().GetString("sort")

	q := arxiv.Query{
		FreeText:   text,
		Author:     author,
		MaxResults: maxResults,
		SortBy:     sortBy,
	}
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			q.Keywords = append(q.Keywords, k)
		}
	}
	return q
}

func formatSearchTable(results []types.SearchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-56s  %-20s  %-4s  %s\n",
		"Rank", "arXiv", "Title", "Authors", "Year", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	for i, r := range results {
		year := ""
		if !r.Date.IsZero() {
			year = fmt.Sprintf("%d", r.Date.Year())
		}
		fmt.Fprintf(w, "%-4d  %-12s  %-56s  %-20s  %-4s  %.2f\n",
			i+1, r.Identifier, truncate(r.Title, 56), formatAuthors(r.Authors), year, r.RelevanceScore)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 13) + " et al."
	}
}
