// ABOUTME: Store aggregates the vector index with parallel chunk and metadata sequences
// ABOUTME: Provides all-or-nothing appends and snapshot/restore for session overrides
package index

import (
	"fmt"

	"github.com/harper/docqa/internal/models"
)

// Store owns one VectorIndex plus the parallel ordered chunk texts and
// per-chunk metadata. The three sequences always have equal length and
// share the same handle space.
type Store struct {
	chunks  []string
	meta    []models.ChunkMeta
	vectors *VectorIndex
}

// Snapshot captures the store's complete state so it can be swapped out
// and later restored as a unit.
type Snapshot struct {
	chunks  []string
	meta    []models.ChunkMeta
	vectors *VectorIndex
}

// Same reports whether two snapshots reference the identical underlying
// state: the same vector index and the same backing arrays.
func (s Snapshot) Same(o Snapshot) bool {
	if s.vectors != o.vectors || len(s.chunks) != len(o.chunks) || len(s.meta) != len(o.meta) {
		return false
	}
	if len(s.chunks) > 0 && &s.chunks[0] != &o.chunks[0] {
		return false
	}
	if len(s.meta) > 0 && &s.meta[0] != &o.meta[0] {
		return false
	}
	return true
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{vectors: NewVectorIndex()}
}

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Dimension returns the embedding dimension, or 0 while empty.
func (s *Store) Dimension() int {
	return s.vectors.Dimension()
}

// Append adds one ingestion batch. The three slices must be parallel;
// on any error the store is left unmodified.
func (s *Store) Append(chunks []string, meta []models.ChunkMeta, vectors [][]float64) error {
	if len(chunks) != len(meta) || len(chunks) != len(vectors) {
		return fmt.Errorf("parallel sequence mismatch: %d chunks, %d metadata, %d vectors",
			len(chunks), len(meta), len(vectors))
	}
	// VectorIndex.Add validates every dimension before mutating, so a
	// failure here leaves chunks and metadata untouched as well.
	if err := s.vectors.Add(vectors); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunks...)
	s.meta = append(s.meta, meta...)
	return nil
}

// Search runs a k-nearest query and joins each hit against the chunk and
// metadata sequences. Handles beyond the chunk sequence are dropped
// rather than faulting; they can only appear after a corrupted load.
func (s *Store) Search(query []float64, k int) ([]models.SearchResult, error) {
	hits, err := s.vectors.Search(query, k)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Handle >= len(s.chunks) {
			continue
		}
		results = append(results, models.SearchResult{
			Text:     s.chunks[h.Handle],
			Distance: h.Distance,
			Meta:     s.meta[h.Handle],
		})
	}
	return results, nil
}

// ChunkAt returns the chunk text for a handle.
func (s *Store) ChunkAt(handle int) string {
	return s.chunks[handle]
}

// MetaAt returns the metadata record for a handle.
func (s *Store) MetaAt(handle int) models.ChunkMeta {
	return s.meta[handle]
}

// SourceIDs returns the distinct source identifiers in the store, in
// first-seen order.
func (s *Store) SourceIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range s.meta {
		if !seen[m.SourceID] {
			seen[m.SourceID] = true
			ids = append(ids, m.SourceID)
		}
	}
	return ids
}

// TakeSnapshot captures the current chunks, metadata, and vector index.
// The snapshot holds the live references; the caller swaps in fresh
// state with Replace and later hands the snapshot back to Restore.
func (s *Store) TakeSnapshot() Snapshot {
	return Snapshot{chunks: s.chunks, meta: s.meta, vectors: s.vectors}
}

// Replace installs entirely new content, discarding the current state.
// Callers needing the old state back must TakeSnapshot first.
func (s *Store) Replace(chunks []string, meta []models.ChunkMeta, vectors *VectorIndex) error {
	if len(chunks) != len(meta) || len(chunks) != vectors.Count() {
		return fmt.Errorf("parallel sequence mismatch: %d chunks, %d metadata, %d vectors",
			len(chunks), len(meta), vectors.Count())
	}
	s.chunks = chunks
	s.meta = meta
	s.vectors = vectors
	return nil
}

// Restore reinstates a snapshot taken earlier, reference-identical.
func (s *Store) Restore(snap Snapshot) {
	s.chunks = snap.chunks
	s.meta = snap.meta
	s.vectors = snap.vectors
}
