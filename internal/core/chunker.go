// ABOUTME: Chunker splits document text into overlapping character windows
// ABOUTME: Prefers sentence boundaries when cutting so chunks stay readable
package core

import (
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/models"
)

// Chunker cuts raw text into overlapping chunks of roughly chunkSize
// characters. Overlap must be strictly smaller than the chunk size so
// every window makes forward progress.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker with the given window size and overlap,
// both counted in runes.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into ordered overlapping chunks tagged with sourceID.
// When a window does not reach the end of the text, the cut backtracks to
// the last period or newline in the window, provided that break point lies
// past half the window. Empty input yields no chunks and no error.
func (c *Chunker) Chunk(text, sourceID string) []models.Chunk {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	var chunks []models.Chunk
	start := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := runes[start:end]

		// Back up to a sentence boundary unless this window is the tail.
		if end < len(runes) {
			if bp := lastBreak(window); bp > c.chunkSize/2 {
				window = window[:bp+1]
				end = start + bp + 1
			}
		}

		if trimmed := strings.TrimSpace(string(window)); trimmed != "" {
			chunks = append(chunks, models.Chunk{
				Text:          trimmed,
				SourceID:      sourceID,
				SequenceIndex: len(chunks),
			})
		}

		// A short backtracked window can make end-overlap fall at or
		// before start; force forward progress so chunking always
		// terminates.
		if next := end - c.overlap; next > start {
			start = next
		} else {
			start = end
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// lastBreak returns the index of the last '.' or '\n' in window, or -1.
func lastBreak(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}
