package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	category string
	tags     []string
	from     string
	to       string
	sortBy   string
	page     int
	pageSize int
	summary  bool
	json     bool
	seed     string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the knowledge base",
		Long: `Search published articles by keyword.

Matches are literal, case-insensitive substrings of the title, content
or tags. Title and tag matches are boosted. Without a query every
published article is listed.

Examples:
  kbsearch search refund
  kbsearch search "password reset" --category "Technical Support"
  kbsearch search --tag billing --sort date --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Only articles in this category (exact, case-insensitive)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Only articles carrying any of these tags (repeatable)")
	cmd.Flags().StringVar(&opts.from, "from", "", "Updated on or after (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Updated on or before (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", "relevance", "Order: relevance, date, popularity")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number (1-based)")
	cmd.Flags().IntVarP(&opts.pageSize, "page-size", "n", 10, "Results per page (1-100)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Include a one-line summary of the top hit")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the response as JSON")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "Load the corpus from this YAML seed file")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	client, err := kbsearch.New(cmd.Context(), kbsearch.WithSeedFile(opts.seed))
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.Search(cmd.Context(), kbsearch.SearchRequest{
		Query:          query,
		Category:       opts.category,
		Tags:           opts.tags,
		DateFrom:       opts.from,
		DateTo:         opts.to,
		SortBy:         kbsearch.SortBy(opts.sortBy),
		Page:           opts.page,
		PageSize:       opts.pageSize,
		IncludeSummary: opts.summary,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	renderSearch(cmd.OutOrStdout(), query, &resp)
	return nil
}
