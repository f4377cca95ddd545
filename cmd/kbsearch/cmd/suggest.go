package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

type suggestOptions struct {
	limit  int
	recent []string
	json   bool
	seed   string
}

func newSuggestCmd() *cobra.Command {
	var opts suggestOptions

	cmd := &cobra.Command{
		Use:   "suggest <fragment>",
		Short: "Autocomplete a search fragment",
		Long: `Suggest search terms containing a fragment of at least two characters.

Entries from --recent (newest first) come first; corpus terms fill the
rest in alphabetical order.

Examples:
  kbsearch suggest ref
  kbsearch suggest pass --recent "password reset" --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 5, "Maximum number of suggestions")
	cmd.Flags().StringSliceVarP(&opts.recent, "recent", "r", nil, "Recent searches, newest first (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print suggestions as JSON")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "Load the corpus from this YAML seed file")

	return cmd
}

func runSuggest(cmd *cobra.Command, fragment string, opts suggestOptions) error {
	client, err := kbsearch.New(cmd.Context(), kbsearch.WithSeedFile(opts.seed))
	if err != nil {
		return err
	}
	defer client.Close()

	out, err := client.Suggest(cmd.Context(), fragment, opts.limit, opts.recent...)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	renderSuggestions(cmd.OutOrStdout(), fragment, out)
	return nil
}
