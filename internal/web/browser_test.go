// ABOUTME: Tests for web page fetching and HTML text extraction
// ABOUTME: Uses httptest servers; no external network access
package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Sample &amp; Page</title>
<meta name="description" content="A test page">
<meta name="keywords" content="go, testing">
<style>body { color: red; }</style>
<script>console.log("hidden");</script>
</head>
<body>
<nav><a href="/">Home</a></nav>
<header>Site Header</header>
<h1>Welcome</h1>
<p>First paragraph with  extra   spaces.</p>
<p>Second &lt;escaped&gt; paragraph.</p>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/page", true},
		{"http://example.com", true},
		{"example.com", false},
		{"/relative/path", false},
		{"", false},
		{"ftp://files.example.com/doc.txt", true},
	}

	for _, tt := range tests {
		if got := IsValidURL(tt.url); got != tt.valid {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.valid)
		}
	}
}

func TestExtractText(t *testing.T) {
	text := ExtractText(samplePage)

	if !strings.Contains(text, "Welcome") {
		t.Error("extracted text should contain heading content")
	}
	if !strings.Contains(text, "First paragraph with extra spaces.") {
		t.Errorf("spaces should be collapsed, got:\n%s", text)
	}
	if !strings.Contains(text, "Second <escaped> paragraph.") {
		t.Error("HTML entities should be decoded")
	}
	if strings.Contains(text, "console.log") {
		t.Error("script content should be removed")
	}
	if strings.Contains(text, "color: red") {
		t.Error("style content should be removed")
	}
	if strings.Contains(text, "Home") {
		t.Error("nav content should be removed")
	}
	if strings.Contains(text, "Site Header") {
		t.Error("header content should be removed")
	}
	if strings.Contains(text, "Copyright") {
		t.Error("footer content should be removed")
	}
}

func TestExtractText_Empty(t *testing.T) {
	if got := ExtractText(""); got != "" {
		t.Errorf("ExtractText(\"\") = %q, want empty", got)
	}
	if got := ExtractText("<script>only()</script>"); got != "" {
		t.Errorf("script-only input should extract nothing, got %q", got)
	}
}

func TestExtractMetadata(t *testing.T) {
	title, desc, keys := ExtractMetadata(samplePage)

	if title != "Sample & Page" {
		t.Errorf("title = %q, want %q", title, "Sample & Page")
	}
	if desc != "A test page" {
		t.Errorf("description = %q, want %q", desc, "A test page")
	}
	if keys != "go, testing" {
		t.Errorf("keywords = %q, want %q", keys, "go, testing")
	}
}

func TestExtractMetadata_Missing(t *testing.T) {
	title, desc, keys := ExtractMetadata("<html><body>no head</body></html>")
	if title != "" || desc != "" || keys != "" {
		t.Errorf("missing metadata should be empty, got %q %q %q", title, desc, keys)
	}
}

func TestBrowse(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	b := NewBrowser(5*time.Second, "docqa-test/1.0")

	page, err := b.Browse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Browse() failed: %v", err)
	}

	if gotAgent != "docqa-test/1.0" {
		t.Errorf("User-Agent = %q, want docqa-test/1.0", gotAgent)
	}
	if page.URL != srv.URL {
		t.Errorf("page.URL = %q, want %q", page.URL, srv.URL)
	}
	if page.Title != "Sample & Page" {
		t.Errorf("page.Title = %q", page.Title)
	}
	if !strings.Contains(page.Text, "Welcome") {
		t.Error("page text should contain body content")
	}
}

func TestBrowse_InvalidURL(t *testing.T) {
	b := NewBrowser(0, "")
	if _, err := b.Browse(context.Background(), "not a url"); err == nil {
		t.Error("Browse() should fail for an invalid URL")
	}
}

func TestBrowse_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewBrowser(5*time.Second, "")
	if _, err := b.Browse(context.Background(), srv.URL); err == nil {
		t.Error("Browse() should fail on a 404 response")
	}
}

func TestBrowse_NoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><script>x()</script></head></html>"))
	}))
	defer srv.Close()

	b := NewBrowser(5*time.Second, "")
	if _, err := b.Browse(context.Background(), srv.URL); err == nil {
		t.Error("Browse() should fail when no text can be extracted")
	}
}
