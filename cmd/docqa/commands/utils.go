// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Session construction, index loading, and small formatting helpers
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/llm"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// newLLMClient builds the OpenAI client from config. Returns an error
// when no API key is configured.
func newLLMClient(cfg *config.Config) (*llm.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
}

// newChunker builds a chunker from the configured window settings.
func newChunker(cfg *config.Config) (*core.Chunker, error) {
	return core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
}

// newSessionWithEmptyStore starts a session over a fresh store, used
// when rebuilding the index from scratch.
func newSessionWithEmptyStore(chunker *core.Chunker, embedder core.Embedder) *core.Session {
	return core.NewSession(chunker, embedder, index.NewStore())
}

// openSession loads the persisted index (or starts empty when none
// exists) and wires it into a retrieval session.
func openSession(cfg *config.Config, embedder core.Embedder) (*core.Session, error) {
	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	store, err := index.Load(cfg.IndexPath)
	if err != nil {
		if !errors.Is(err, index.ErrNotFound) {
			return nil, fmt.Errorf("loading index: %w", err)
		}
		store = index.NewStore()
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Loaded index with %d chunks from %s\n", store.Len(), cfg.IndexPath)
	}

	return core.NewSession(chunker, embedder, store), nil
}

// saveIndex persists the session's store and its sidecar manifest.
func saveIndex(session *core.Session, path string) error {
	if err := session.Store().Save(path); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	if err := session.Store().SaveManifest(path); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}
