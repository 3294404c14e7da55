// ABOUTME: SQLite persistence for the index store using modernc.org/sqlite
// ABOUTME: Saves chunks, metadata, and vectors as one atomic artifact
package index

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/docqa/internal/models"
	_ "modernc.org/sqlite"
)

// schema holds the artifact layout: one chunk row per handle plus a
// singleton row describing the index as a whole.
const schema = `
CREATE TABLE IF NOT EXISTS index_info (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    dimension INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chunks (
    handle INTEGER PRIMARY KEY,
    source_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL
);
`

// Save serializes the store to a single SQLite artifact at path. The
// artifact is written to a temporary sibling first and renamed into
// place, so an interrupted save never clobbers the previous one.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing stale temp artifact: %w", err)
	}

	if err := s.writeArtifact(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("installing index artifact: %w", err)
	}
	return nil
}

func (s *Store) writeArtifact(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening index artifact: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"INSERT INTO index_info (id, dimension, chunk_count, created_at) VALUES (1, ?, ?, ?)",
		s.vectors.Dimension(), s.Len(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("writing index info: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO chunks (handle, source_id, seq, content, vector) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for handle := 0; handle < s.Len(); handle++ {
		m := s.meta[handle]
		blob := vectorToBlob(s.vectors.vectorAt(handle))
		if _, err := stmt.Exec(handle, m.SourceID, m.SequenceIndex, s.chunks[handle], blob); err != nil {
			return fmt.Errorf("writing chunk %d: %w", handle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing artifact: %w", err)
	}
	return nil
}

// Load reads a previously saved artifact into a new Store. It returns
// ErrNotFound when nothing exists at path and ErrCorrupt when the
// artifact cannot be parsed or its component lengths disagree.
func Load(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking index artifact: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer func() { _ = db.Close() }()

	var dimension, count int
	err = db.QueryRow("SELECT dimension, chunk_count FROM index_info WHERE id = 1").
		Scan(&dimension, &count)
	if err != nil {
		return nil, fmt.Errorf("%w: reading index info: %v", ErrCorrupt, err)
	}
	if dimension <= 0 && count > 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrCorrupt, dimension)
	}

	rows, err := db.Query("SELECT handle, source_id, seq, content, vector FROM chunks ORDER BY handle ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: reading chunks: %v", ErrCorrupt, err)
	}
	defer func() { _ = rows.Close() }()

	store := NewStore()
	expected := 0
	for rows.Next() {
		var (
			handle, seq int
			sourceID    string
			content     string
			blob        []byte
		)
		if err := rows.Scan(&handle, &sourceID, &seq, &content, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk row: %v", ErrCorrupt, err)
		}
		if handle != expected {
			return nil, fmt.Errorf("%w: handle %d out of order, want %d", ErrCorrupt, handle, expected)
		}
		if len(blob) != dimension*8 {
			return nil, fmt.Errorf("%w: chunk %d vector has %d bytes, want %d",
				ErrCorrupt, handle, len(blob), dimension*8)
		}
		meta := models.ChunkMeta{SourceID: sourceID, SequenceIndex: seq}
		if err := store.Append([]string{content}, []models.ChunkMeta{meta}, [][]float64{blobToVector(blob)}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		expected++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", ErrCorrupt, err)
	}

	// The len invariant is revalidated against the recorded count, never
	// assumed from the artifact.
	if store.Len() != count {
		return nil, fmt.Errorf("%w: artifact records %d chunks, found %d", ErrCorrupt, count, store.Len())
	}
	return store, nil
}

// vectorToBlob encodes a vector as little-endian float64 bytes.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector decodes little-endian float64 bytes into a vector.
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
