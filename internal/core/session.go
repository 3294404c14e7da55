// ABOUTME: RetrievalSession orchestrates chunking, embedding, indexing, and search
// ABOUTME: Implements the scoped override swap that keeps the durable index clean
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
)

// DefaultTopK is the number of results returned when the caller does not
// ask for a specific k.
const DefaultTopK = 3

var (
	// ErrProviderFailure is returned when the embedding provider errors
	// or returns a vector count that disagrees with the chunk count.
	ErrProviderFailure = errors.New("embedding provider failure")

	// ErrOverrideActive is returned by BeginOverride while an override is
	// already installed; overrides do not nest.
	ErrOverrideActive = errors.New("override already active")

	// ErrNoOverride is returned by EndOverride with nothing to restore.
	ErrNoOverride = errors.New("no active override")
)

// Embedder converts strings to fixed-dimension vectors, one per input,
// in input order. The session treats the provider as a black box.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Session ties the chunker, the embedding provider, and the index store
// together. It is designed for single-threaded synchronous use: one
// ingestion batch or query runs to completion before the next begins.
type Session struct {
	chunker  *Chunker
	embedder Embedder
	store    *index.Store
	override *overrideState
}

type overrideState struct {
	handle   string
	snapshot index.Snapshot
}

// NewSession creates a session over an existing store. The store may be
// freshly created or loaded from a persisted artifact.
func NewSession(chunker *Chunker, embedder Embedder, store *index.Store) *Session {
	return &Session{chunker: chunker, embedder: embedder, store: store}
}

// Store exposes the underlying index store for persistence.
func (s *Session) Store() *index.Store {
	return s.store
}

// Overridden reports whether ad hoc content is currently installed.
func (s *Session) Overridden() bool {
	return s.override != nil
}

// Ingest chunks, embeds, and indexes a single document.
func (s *Session) Ingest(ctx context.Context, sourceID, text string) error {
	return s.IngestBatch(ctx, []models.Document{{SourceID: sourceID, Text: text}})
}

// IngestBatch ingests documents in the given order. The whole batch is
// staged first and appended to the store in one step, so a failure on
// any document leaves the store unmodified. Documents that chunk to
// nothing are skipped; that is degenerate input, not an error.
func (s *Session) IngestBatch(ctx context.Context, docs []models.Document) error {
	var (
		texts   []string
		meta    []models.ChunkMeta
		vectors [][]float64
	)

	for _, doc := range docs {
		chunks := s.chunker.Chunk(doc.Text, doc.SourceID)
		if len(chunks) == 0 {
			continue
		}

		batch := make([]string, len(chunks))
		for i, ch := range chunks {
			batch[i] = ch.Text
		}

		embedded, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("%w: embedding %s: %v", ErrProviderFailure, doc.SourceID, err)
		}
		if len(embedded) == 0 || len(embedded) != len(chunks) {
			return fmt.Errorf("%w: %s: got %d vectors for %d chunks",
				ErrProviderFailure, doc.SourceID, len(embedded), len(chunks))
		}

		for i, ch := range chunks {
			texts = append(texts, ch.Text)
			meta = append(meta, models.ChunkMeta{SourceID: ch.SourceID, SequenceIndex: ch.SequenceIndex})
			vectors = append(vectors, embedded[i])
		}
	}

	if len(texts) == 0 {
		return nil
	}
	return s.store.Append(texts, meta, vectors)
}

// Search embeds the query and returns up to k ranked results. k <= 0
// falls back to DefaultTopK. An empty index yields an empty result set.
func (s *Session) Search(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	if s.store.Len() == 0 {
		return nil, nil
	}

	embedded, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ErrProviderFailure, err)
	}
	if len(embedded) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for one query", ErrProviderFailure, len(embedded))
	}

	return s.store.Search(embedded[0], k)
}

// BeginOverride swaps the durable store content for ad hoc text (for
// example one fetched web page) and returns an override handle. The
// durable state is captured as a single snapshot before any mutation.
// Overrides do not nest.
func (s *Session) BeginOverride(ctx context.Context, sourceID, text string) (string, error) {
	if s.override != nil {
		return "", ErrOverrideActive
	}

	chunks := s.chunker.Chunk(text, sourceID)
	if len(chunks) == 0 {
		return "", fmt.Errorf("no indexable content in %s", sourceID)
	}

	batch := make([]string, len(chunks))
	for i, ch := range chunks {
		batch[i] = ch.Text
	}
	embedded, err := s.embedder.EmbedBatch(ctx, batch)
	if err != nil {
		return "", fmt.Errorf("%w: embedding %s: %v", ErrProviderFailure, sourceID, err)
	}
	if len(embedded) != len(chunks) {
		return "", fmt.Errorf("%w: %s: got %d vectors for %d chunks",
			ErrProviderFailure, sourceID, len(embedded), len(chunks))
	}

	texts := make([]string, len(chunks))
	meta := make([]models.ChunkMeta, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
		meta[i] = models.ChunkMeta{SourceID: ch.SourceID, SequenceIndex: ch.SequenceIndex}
	}
	vi := index.NewVectorIndex()
	if err := vi.Add(embedded); err != nil {
		return "", err
	}

	snapshot := s.store.TakeSnapshot()
	if err := s.store.Replace(texts, meta, vi); err != nil {
		return "", err
	}

	handle := uuid.New().String()
	s.override = &overrideState{handle: handle, snapshot: snapshot}
	return handle, nil
}

// EndOverride restores the durable store state captured by BeginOverride.
func (s *Session) EndOverride() error {
	if s.override == nil {
		return ErrNoOverride
	}
	s.store.Restore(s.override.snapshot)
	s.override = nil
	return nil
}

// WithOverride runs fn against the ad hoc content and restores the
// durable store on every exit path: normal return, error, or panic.
func (s *Session) WithOverride(ctx context.Context, sourceID, text string, fn func() error) error {
	if _, err := s.BeginOverride(ctx, sourceID, text); err != nil {
		return err
	}
	defer func() { _ = s.EndOverride() }()
	return fn()
}
