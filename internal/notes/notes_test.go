// ABOUTME: Tests for the markdown notes manager
// ABOUTME: Covers filename sanitization, frontmatter, listing order, and round-trips
package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces become underscores", "meeting notes today", "meeting_notes_today"},
		{"invalid chars removed", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"empty falls back", "", "untitled"},
		{"only invalid chars falls back", `<>:"/\|?*`, "untitled"},
		{"plain title unchanged", "summary", "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_LengthCap(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := SanitizeFilename(long)
	if len([]rune(got)) != 50 {
		t.Errorf("sanitized length = %d, want 50", len([]rune(got)))
	}
}

func TestSave_WithTitle(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	path, err := m.Save("note body here", "My Note")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if filepath.Base(path) != "My_Note.md" {
		t.Errorf("filename = %s, want My_Note.md", filepath.Base(path))
	}

	content, err := m.Read(path)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !strings.HasPrefix(content, "---\ntitle: My Note\n") {
		t.Errorf("note should start with frontmatter title, got:\n%s", content)
	}
	if !strings.Contains(content, "created: ") {
		t.Error("frontmatter should include a created timestamp")
	}
	if !strings.HasSuffix(content, "note body here") {
		t.Error("note should end with the body content")
	}
}

func TestSave_WithoutTitle(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	path, err := m.Save("anonymous body", "")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "note_") || !strings.HasSuffix(base, ".md") {
		t.Errorf("untitled note filename = %s, want note_<timestamp>.md", base)
	}

	content, err := m.Read(path)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !strings.Contains(content, "title: Untitled Note") {
		t.Error("untitled note should use the Untitled Note title")
	}
}

func TestNewManager_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "notes")

	if _, err := NewManager(dir); err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("notes directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("notes path should be a directory")
	}
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	older, err := m.Save("first", "older")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	newer, err := m.Save("second", "newer")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Force distinct mtimes so ordering is deterministic
	now := time.Now()
	os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour))
	os.Chtimes(newer, now, now)

	// A non-markdown file should be ignored
	os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644)

	paths, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("List() returned %d notes, want 2", len(paths))
	}
	if paths[0] != newer {
		t.Errorf("paths[0] = %s, want the newer note %s", paths[0], newer)
	}
	if paths[1] != older {
		t.Errorf("paths[1] = %s, want the older note %s", paths[1], older)
	}
}

func TestList_EmptyDirectory(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	paths, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("List() returned %d notes, want 0", len(paths))
	}
}

func TestRead_Missing(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	if _, err := m.Read(filepath.Join(m.Dir(), "missing.md")); err == nil {
		t.Error("Read() should fail for a missing note")
	}
}
