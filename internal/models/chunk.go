// ABOUTME: Core data types for document chunking and retrieval
// ABOUTME: Defines Document, Chunk, ChunkMeta, and SearchResult structures
package models

// Document is a source text to be ingested, identified by its origin
// (a file path or URL).
type Document struct {
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

// Chunk is an ordered text fragment cut from a source document.
// SequenceIndex is zero-based and contiguous within one source.
type Chunk struct {
	Text          string `json:"text"`
	SourceID      string `json:"source_id"`
	SequenceIndex int    `json:"sequence_index"`
}

// ChunkMeta is the per-chunk metadata record stored alongside the index,
// parallel to the chunk text sequence.
type ChunkMeta struct {
	SourceID      string `json:"source_id"`
	SequenceIndex int    `json:"sequence_index"`
}

// SearchResult is one ranked retrieval hit. Distance is squared L2
// distance in the embedding space; smaller is more relevant.
type SearchResult struct {
	Text     string    `json:"text"`
	Distance float64   `json:"distance"`
	Meta     ChunkMeta `json:"metadata"`
}
