package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hari2309s/recommend-a-book-sub000/internal/query"
)

// newAnalyzeCmd creates the analyze command, which classifies a query
// without touching any backing service. Useful for debugging intent
// detection.
func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [query]",
		Short: "Show how a query would be classified",
		Long: `Classify a query and print the detected intent, extracted filters,
search hints, and expanded query text as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enhanced := query.Parse(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(enhanced)
		},
	}
}
