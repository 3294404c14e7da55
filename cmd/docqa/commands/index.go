// ABOUTME: CLI command to index documents into the vector index
// ABOUTME: Skips re-ingestion when the persisted index already covers the sources
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/joho/godotenv"
)

var (
	indexForce bool
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file|dir>...",
		Short: "Index documents for semantic search",
		Long: `Index text documents into the local vector index. Directory
arguments are walked for .txt and .md files.

Each document is split into overlapping chunks, embedded via OpenAI,
and stored in a single index artifact. When the persisted index
already covers exactly the given sources, indexing is skipped unless
--force is set.

Examples:
  docqa index report.txt
  docqa index docs/
  docqa index --force report.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIndex,
	}

	cmd.Flags().BoolVar(&indexForce, "force", false, "Rebuild the index even if it is up to date")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sources, err := collectSources(args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .txt or .md files found in the given paths")
	}

	// Staleness check against the persisted manifest: same source set
	// means the index can be reused as-is.
	if !indexForce && !index.IsStale(cfg.IndexPath, sources) {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Index is up to date (%d sources)\n", len(sources))
		}
		return nil
	}

	docs := make([]models.Document, 0, len(sources))
	for _, path := range sources {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, models.Document{SourceID: path, Text: string(data)})
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	chunker, err := newChunker(cfg)
	if err != nil {
		return err
	}

	// Rebuild from scratch so the artifact covers exactly these sources
	session := newSessionWithEmptyStore(chunker, client)
	if err := session.IngestBatch(cmd.Context(), docs); err != nil {
		return fmt.Errorf("indexing documents: %w", err)
	}

	if session.Store().Len() == 0 {
		return fmt.Errorf("no indexable content in the given files")
	}

	if err := saveIndex(session, cfg.IndexPath); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %d chunks from %d file(s) into %s\n",
			session.Store().Len(), len(sources), cfg.IndexPath)
	}
	return nil
}

// collectSources expands directory arguments into the .txt and .md
// files they contain. File arguments pass through unchanged.
func collectSources(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", arg, err)
		}
		if !info.IsDir() {
			sources = append(sources, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".txt", ".md":
				sources = append(sources, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return sources, nil
}
