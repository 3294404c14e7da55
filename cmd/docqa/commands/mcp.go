// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use the retrieval index via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/mcp"
	"github.com/harper/docqa/internal/notes"
	"github.com/harper/docqa/internal/web"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs docqa as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to index documents, search them, ask
questions, and browse web pages via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  docqa mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "docqa": {
  #       "command": "docqa",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// LLM features are optional; search and indexing need the key too,
	// but tools report that per call instead of refusing to start
	var llmClient *llm.Client
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and answer generation will not work")
	} else {
		llmClient, err = newLLMClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else if verbose {
			log.Println("OpenAI client initialized")
		}
	}

	// A typed nil inside the interface would dodge the handlers' nil
	// checks, so only wrap a live client
	var embedder core.Embedder
	if llmClient != nil {
		embedder = llmClient
	}
	session, err := openSession(cfg, embedder)
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}

	browser := web.NewBrowser(cfg.FetchTimeout, cfg.UserAgent)

	notesManager, err := notes.NewManager(cfg.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to initialize notes: %w", err)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Document Q&A",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, session, llmClient, browser, notesManager, cfg.IndexPath)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("docqa MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
