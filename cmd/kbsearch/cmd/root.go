// Package cmd provides the CLI commands for kbsearch.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kbsearch/internal/version"
)

// NewRootCmd creates the root command for the kbsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbsearch",
		Short: "Keyword search over a knowledge base",
		Long: `kbsearch ranks knowledge-base articles by keyword relevance and
serves autocomplete suggestions.

Run 'kbsearch serve' for the HTTP API, or query the built-in corpus
directly with 'kbsearch search' and 'kbsearch suggest'.`,
		Version:      version.String(),
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate("kbsearch version {{.Version}}\n")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSuggestCmd())

	return cmd
}

// Execute runs the root command; SIGINT and SIGTERM cancel its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
