// ABOUTME: Web page fetching and text extraction for ad hoc browsing
// ABOUTME: Strips boilerplate HTML and pulls title/description/keywords metadata
package web

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent when no user agent is configured
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// maxBodySize caps how much of a response we read (4 MB)
	maxBodySize = 4 << 20
)

// Page is the extracted content of a browsed URL.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Text        string `json:"text"`
}

// Browser fetches web pages and extracts readable text.
type Browser struct {
	client    *http.Client
	userAgent string
}

// NewBrowser creates a browser with the given fetch timeout and user
// agent. Zero values fall back to defaults.
func NewBrowser(timeout time.Duration, userAgent string) *Browser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Browser{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// IsValidURL reports whether the URL has both a scheme and a host.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Browse fetches the URL and returns the extracted page. It fails when
// the URL is invalid, the fetch errors, or no readable text remains
// after stripping markup.
func (b *Browser) Browse(ctx context.Context, rawURL string) (*Page, error) {
	htmlContent, err := b.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text := ExtractText(htmlContent)
	if text == "" {
		return nil, fmt.Errorf("no text content extracted from %s", rawURL)
	}

	title, description, keywords := ExtractMetadata(htmlContent)

	return &Page{
		URL:         rawURL,
		Title:       title,
		Description: description,
		Keywords:    keywords,
		Text:        text,
	}, nil
}

// Fetch retrieves the raw HTML of a URL.
func (b *Browser) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !IsValidURL(rawURL) {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}

	return string(body), nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescTag   = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]*>`)
	metaKeysTag   = regexp.MustCompile(`(?is)<meta[^>]+name=["']keywords["'][^>]*>`)
	metaContent   = regexp.MustCompile(`(?is)content=["']([^"']*)["']`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	navTag        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag     = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// ExtractText strips markup and boilerplate sections from HTML,
// returning readable text with one non-empty line per block.
func ExtractText(content string) string {
	// Remove script, style, nav, header, and footer sections entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines so text stays readable
	content = blockElements.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	// Trim each line and drop empty ones
	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// ExtractMetadata pulls the title, meta description, and meta keywords
// from HTML. Missing fields come back empty.
func ExtractMetadata(content string) (title, description, keywords string) {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		title = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if tag := metaDescTag.FindString(content); tag != "" {
		if m := metaContent.FindStringSubmatch(tag); len(m) > 1 {
			description = strings.TrimSpace(html.UnescapeString(m[1]))
		}
	}
	if tag := metaKeysTag.FindString(content); tag != "" {
		if m := metaContent.FindStringSubmatch(tag); len(m) > 1 {
			keywords = strings.TrimSpace(html.UnescapeString(m[1]))
		}
	}
	return title, description, keywords
}
