// Package cmd provides the CLI commands for bookrec.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hari2309s/recommend-a-book-sub000/pkg/version"
)

// NewRootCmd creates the root command for the bookrec CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookrec",
		Short:   "Semantic book recommendation API server",
		Long: `bookrec serves book recommendations over HTTP, combining query intent
classification, metadata filtering, and semantic vector search.

Run 'bookrec serve' to start the API server.`,
		Version: version.Version,
	}

	cmd.SetVersionTemplate("bookrec version {{.Version}}\n")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
