// ABOUTME: Sidecar manifest recording which sources a saved index covers
// ABOUTME: Fingerprint comparison decides whether re-ingestion is needed
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Manifest is the small sidecar record written next to the index
// artifact. It is consulted before loading to detect staleness.
type Manifest struct {
	Fingerprint string    `json:"fingerprint"`
	SourceIDs   []string  `json:"source_ids"`
	Dimension   int       `json:"dimension"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ManifestPath returns the sidecar location for an index artifact path.
func ManifestPath(indexPath string) string {
	return indexPath + ".manifest.json"
}

// Fingerprint derives a stable hash from a set of source identifiers.
// The ids are deduplicated and sorted first, so permutations and
// duplicates of the same set always produce the same fingerprint.
func Fingerprint(sourceIDs []string) string {
	seen := make(map[string]bool, len(sourceIDs))
	unique := make([]string, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	sum := sha256.Sum256([]byte(strings.Join(unique, "\n")))
	return hex.EncodeToString(sum[:])
}

// SaveManifest writes the sidecar record for an index saved at indexPath.
func (s *Store) SaveManifest(indexPath string) error {
	ids := s.SourceIDs()
	m := Manifest{
		Fingerprint: Fingerprint(ids),
		SourceIDs:   ids,
		Dimension:   s.Dimension(),
		ChunkCount:  s.Len(),
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(ManifestPath(indexPath), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the sidecar record for an index artifact.
func LoadManifest(indexPath string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(indexPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ManifestPath(indexPath))
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest unparseable: %v", ErrCorrupt, err)
	}
	return &m, nil
}

// IsStale reports whether the index persisted at path needs rebuilding
// for the given source set: true when no manifest exists, when the
// fingerprints differ, or when the artifact itself fails to load. In all
// three cases the caller must re-ingest rather than trust stale data.
func IsStale(path string, sourceIDs []string) bool {
	m, err := LoadManifest(path)
	if err != nil {
		return true
	}
	if m.Fingerprint != Fingerprint(sourceIDs) {
		return true
	}
	if _, err := Load(path); err != nil {
		return true
	}
	return false
}
