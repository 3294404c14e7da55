// ABOUTME: MCP tool handler implementations for the docqa server
// ABOUTME: Contains handler implementations with proper error handling for all 4 tools
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/notes"
	"github.com/harper/docqa/internal/web"
	"github.com/mark3labs/mcp-go/mcp"
)

// pageTextLimit caps how much extracted page text a browse_url response
// carries when no question is asked.
const pageTextLimit = 4000

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	session      *core.Session
	llmClient    *llm.Client // nil when no API key is configured
	browser      *web.Browser
	notesManager *notes.Manager
	indexPath    string
	mu           *sync.Mutex // Session is single-threaded; serialize tool calls
}

// IndexDocument handles the index_document tool
func (h *Handlers) IndexDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID, err := request.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError("source_id argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	if h.llmClient == nil {
		return mcp.NewToolResultError("indexing requires an OpenAI API key"), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session.Overridden() {
		return mcp.NewToolResultError("cannot index while ad hoc content is active"), nil
	}

	before := h.session.Store().Len()
	if err := h.session.Ingest(ctx, sourceID, text); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("indexing failed: %v", err)), nil
	}

	if err := h.persistIndex(); err != nil {
		log.Printf("Warning: failed to persist index: %v", err)
	}

	response := map[string]interface{}{
		"source_id":      sourceID,
		"chunks_indexed": h.session.Store().Len() - before,
		"total_chunks":   h.session.Store().Len(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchDocuments handles the search_documents tool
func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	if h.llmClient == nil {
		return mcp.NewToolResultError("search requires an OpenAI API key"), nil
	}

	topK := request.GetInt("top_k", core.DefaultTopK)

	h.mu.Lock()
	results, err := h.session.Search(ctx, query, topK)
	h.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	hits := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		hits = append(hits, map[string]interface{}{
			"text":           r.Text,
			"distance":       r.Distance,
			"source_id":      r.Meta.SourceID,
			"sequence_index": r.Meta.SequenceIndex,
		})
	}

	response := map[string]interface{}{
		"query":   query,
		"results": hits,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	if h.llmClient == nil {
		return mcp.NewToolResultError("answer generation requires an OpenAI API key"), nil
	}

	topK := request.GetInt("top_k", core.DefaultTopK)
	mode := llm.AnswerMode(request.GetString("mode", string(llm.ModeQA)))
	saveNote := request.GetBool("save_note", false)

	h.mu.Lock()
	results, err := h.session.Search(ctx, question, topK)
	h.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultError("no indexed content to answer from"), nil
	}

	contextText := joinChunks(results)
	answer, err := h.llmClient.Answer(ctx, contextText, question, mode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer generation failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"question":    question,
		"answer":      answer,
		"chunks_used": len(results),
	}

	if saveNote && h.notesManager != nil {
		notePath, err := h.notesManager.Save(answer, question)
		if err != nil {
			log.Printf("Warning: failed to save note: %v", err)
		} else {
			response["note_path"] = notePath
		}
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// BrowseURL handles the browse_url tool
func (h *Handlers) BrowseURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url argument is required and must be a string"), nil
	}

	question := request.GetString("question", "")

	page, err := h.browser.Browse(ctx, rawURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("browse failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"url":         page.URL,
		"title":       page.Title,
		"description": page.Description,
	}

	if question == "" {
		text := page.Text
		if len(text) > pageTextLimit {
			text = text[:pageTextLimit]
		}
		response["text"] = text
	} else {
		if h.llmClient == nil {
			return mcp.NewToolResultError("answer generation requires an OpenAI API key"), nil
		}

		// Answer from the page only; the persistent index is swapped out
		// for the duration and restored afterwards.
		var answer string
		h.mu.Lock()
		err = h.session.WithOverride(ctx, page.URL, page.Text, func() error {
			results, err := h.session.Search(ctx, question, core.DefaultTopK)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no readable content on the page")
			}
			answer, err = h.llmClient.Answer(ctx, joinChunks(results), question, llm.ModeQA)
			return err
		})
		h.mu.Unlock()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to answer from page: %v", err)), nil
		}

		response["question"] = question
		response["answer"] = answer
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// persistIndex saves the current store and its manifest next to the
// configured index path. Callers hold h.mu.
func (h *Handlers) persistIndex() error {
	if h.indexPath == "" {
		return nil
	}
	if err := h.session.Store().Save(h.indexPath); err != nil {
		return err
	}
	return h.session.Store().SaveManifest(h.indexPath)
}

// joinChunks assembles retrieved chunk texts into one context block.
func joinChunks(results []models.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n\n")
}
