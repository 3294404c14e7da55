// ABOUTME: CLI command to search indexed documents
// ABOUTME: Prints ranked chunks with distances in table or JSON format
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/joho/godotenv"
)

var (
	searchTopK int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed documents",
		Long: `Search the indexed documents for chunks semantically similar
to the query. Results are ranked by vector distance, closest first.

Examples:
  docqa search "error handling"
  docqa search --top-k 10 "deployment steps"
  docqa search --format json "API keys"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchTopK, "top-k", 0, "Maximum results to return (default from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	topK := searchTopK
	if topK == 0 {
		topK = cfg.TopK
	}
	if err := validatePositiveInt(topK, "top-k"); err != nil {
		return err
	}

	query := args[0]

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	session, err := openSession(cfg, client)
	if err != nil {
		return err
	}

	results, err := session.Search(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No results for query: %s\n", query)
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		// Table format
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "DISTANCE\tSOURCE\tSEQ\tPREVIEW\n")
		fmt.Fprintf(w, "--------\t------\t---\t-------\n")

		for _, r := range results {
			fmt.Fprintf(w, "%.4f\t%s\t%d\t%s\n",
				r.Distance,
				truncate(r.Meta.SourceID, 30),
				r.Meta.SequenceIndex,
				truncate(r.Text, 60))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
		}
	}

	return nil
}
