// ABOUTME: Main entry point for docqa MCP server with stdio transport
// ABOUTME: Initializes the session, browser, and MCP server with all tools
package main

import (
	"log"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/mcp"
	"github.com/harper/docqa/internal/notes"
	"github.com/harper/docqa/internal/web"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var llmClient *llm.Client
	var embedder core.Embedder
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and answer generation will not work")
	} else {
		llmClient, err = llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI client: %v", err)
		}
		embedder = llmClient
	}

	// Load the persisted index, starting empty when none exists
	store, err := index.Load(cfg.IndexPath)
	if err != nil {
		store = index.NewStore()
	}

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to initialize chunker: %v", err)
	}
	session := core.NewSession(chunker, embedder, store)

	browser := web.NewBrowser(cfg.FetchTimeout, cfg.UserAgent)

	notesManager, err := notes.NewManager(cfg.NotesDir)
	if err != nil {
		log.Fatalf("Failed to initialize notes: %v", err)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Document Q&A",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, session, llmClient, browser, notesManager, cfg.IndexPath)

	// Start server with stdio transport
	log.Println("docqa MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
