// ABOUTME: Notes manager for saving and organizing markdown notes
// ABOUTME: Writes notes with a frontmatter header into a flat notes directory
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxFilenameLength caps sanitized titles before the .md extension
const maxFilenameLength = 50

// Manager saves and lists markdown notes in a single directory.
type Manager struct {
	dir string
}

// NewManager creates a notes manager rooted at dir, creating the
// directory if needed.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		dir = "notes"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory %s: %w", dir, err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the notes directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Save writes a note with a frontmatter header and returns its path.
// An empty title falls back to a timestamped filename.
func (m *Manager) Save(content, title string) (string, error) {
	now := time.Now()

	var filename string
	if title != "" {
		filename = SanitizeFilename(title) + ".md"
	} else {
		filename = fmt.Sprintf("note_%s.md", now.Format("20060102_150405"))
	}

	displayTitle := title
	if displayTitle == "" {
		displayTitle = "Untitled Note"
	}

	header := fmt.Sprintf("---\ntitle: %s\ncreated: %s\n---\n\n",
		displayTitle, now.Format("2006-01-02 15:04:05"))

	path := filepath.Join(m.dir, filename)
	if err := os.WriteFile(path, []byte(header+content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save note %s: %w", path, err)
	}

	return path, nil
}

// List returns the paths of all notes, newest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes in %s: %w", m.dir, err)
	}

	type note struct {
		path    string
		modTime time.Time
	}

	var found []note
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, note{
			path:    filepath.Join(m.dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].modTime.Equal(found[j].modTime) {
			return found[i].modTime.After(found[j].modTime)
		}
		return found[i].path < found[j].path
	})

	paths := make([]string, len(found))
	for i, n := range found {
		paths[i] = n.path
	}
	return paths, nil
}

// Read returns the full content of a note file.
func (m *Manager) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read note %s: %w", path, err)
	}
	return string(data), nil
}

// SanitizeFilename converts a title to a safe filename: filesystem
// metacharacters are removed, spaces become underscores, and the
// result is capped at 50 characters.
func SanitizeFilename(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		case ' ':
			return '_'
		}
		return r
	}, title)

	runes := []rune(cleaned)
	if len(runes) > maxFilenameLength {
		cleaned = string(runes[:maxFilenameLength])
	}

	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
