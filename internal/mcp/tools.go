// ABOUTME: MCP tool definitions and registration for the docqa server
// ABOUTME: Defines JSON schemas for the indexing, retrieval, and browsing tools
package mcp

import (
	"sync"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/notes"
	"github.com/harper/docqa/internal/web"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, session *core.Session, llmClient *llm.Client, browser *web.Browser, notesManager *notes.Manager, indexPath string) *Handlers {
	// Initialize handlers
	handlers := &Handlers{
		session:      session,
		llmClient:    llmClient,
		browser:      browser,
		notesManager: notesManager,
		indexPath:    indexPath,
		mu:           &sync.Mutex{},
	}

	// 1. index_document - Chunk and embed a document into the index
	server.AddTool(mcp.Tool{
		Name:        "index_document",
		Description: "Chunk and embed a document into the retrieval index. The document becomes searchable immediately and the index is persisted to disk.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier for the document source (e.g. a file path or URL)",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full text of the document to index",
				},
			},
			Required: []string{"source_id", "text"},
		},
	}, handlers.IndexDocument)

	// 2. search_documents - Semantic search over indexed chunks
	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Search the indexed documents for chunks semantically similar to the query. Returns the closest chunks with their distances.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: 3)",
					"default":     3,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocuments)

	// 3. ask_question - Answer a question from indexed content
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question using the most relevant indexed chunks as context. Mode 'notes' produces structured markdown notes instead of a direct answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the indexed documents",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of context chunks to retrieve (default: 3)",
					"default":     3,
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Answer mode: 'qa' for a direct answer, 'notes' for structured markdown notes (default: qa)",
				},
				"save_note": map[string]interface{}{
					"type":        "boolean",
					"description": "Save the answer as a markdown note (default: false)",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 4. browse_url - Fetch a web page, optionally answering a question about it
	server.AddTool(mcp.Tool{
		Name:        "browse_url",
		Description: "Fetch a web page and extract its readable text. When a question is given, answer it from the page content without touching the persistent index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "URL of the page to fetch",
				},
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Optional question to answer from the page content",
				},
			},
			Required: []string{"url"},
		},
	}, handlers.BrowseURL)

	return handlers
}
