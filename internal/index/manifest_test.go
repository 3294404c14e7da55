// ABOUTME: Tests for the fingerprint sidecar and staleness detection
// ABOUTME: Verifies permutation invariance and all three stale conditions
package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/docqa/internal/models"
)

func TestFingerprint_PermutationInvariant(t *testing.T) {
	a := Fingerprint([]string{"a.txt", "b.txt", "c.txt"})
	b := Fingerprint([]string{"c.txt", "a.txt", "b.txt"})
	if a != b {
		t.Errorf("fingerprint differs under permutation: %s vs %s", a, b)
	}
}

func TestFingerprint_DuplicateInvariant(t *testing.T) {
	a := Fingerprint([]string{"a.txt", "b.txt"})
	b := Fingerprint([]string{"a.txt", "b.txt", "a.txt", "b.txt", "b.txt"})
	if a != b {
		t.Errorf("fingerprint differs under duplicates: %s vs %s", a, b)
	}
}

func TestFingerprint_DifferentSetsDiffer(t *testing.T) {
	a := Fingerprint([]string{"a.txt"})
	b := Fingerprint([]string{"a.txt", "b.txt"})
	if a == b {
		t.Error("distinct source sets produced the same fingerprint")
	}
}

func TestManifest_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	s := buildTestStore(t)

	if err := s.SaveManifest(path); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Fingerprint != Fingerprint([]string{"a.txt", "b.txt"}) {
		t.Errorf("fingerprint = %s, want fingerprint of {a.txt, b.txt}", m.Fingerprint)
	}
	if m.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", m.ChunkCount)
	}
	if m.Dimension != 4 {
		t.Errorf("Dimension = %d, want 4", m.Dimension)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "index.db"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoadManifest_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	if err := os.WriteFile(ManifestPath(path), []byte("{broken"), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	_, err := LoadManifest(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("error = %v, want ErrCorrupt", err)
	}
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	s := buildTestStore(t)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.SaveManifest(path); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	tests := []struct {
		name      string
		sourceIDs []string
		want      bool
	}{
		{"matching set", []string{"a.txt", "b.txt"}, false},
		{"matching set permuted", []string{"b.txt", "a.txt"}, false},
		{"matching set with duplicates", []string{"a.txt", "a.txt", "b.txt"}, false},
		{"source added", []string{"a.txt", "b.txt", "c.txt"}, true},
		{"source removed", []string{"a.txt"}, true},
		{"disjoint set", []string{"other.txt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(path, tt.sourceIDs); got != tt.want {
				t.Errorf("IsStale(%v) = %v, want %v", tt.sourceIDs, got, tt.want)
			}
		})
	}
}

func TestIsStale_NoManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	s := buildTestStore(t)
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !IsStale(path, []string{"a.txt", "b.txt"}) {
		t.Error("IsStale = false with no manifest, want true")
	}
}

func TestIsStale_UnloadableArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	s := NewStore()
	if err := s.Append([]string{"x"}, []models.ChunkMeta{{SourceID: "a.txt", SequenceIndex: 0}}, [][]float64{{1}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.SaveManifest(path); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}
	// Manifest matches but the artifact is garbage.
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("writing garbage artifact: %v", err)
	}

	if !IsStale(path, []string{"a.txt"}) {
		t.Error("IsStale = false for unloadable artifact, want true")
	}
}
