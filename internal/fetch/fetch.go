// Package fetch downloads service documentation over HTTP for the
// mapping pipeline, reducing HTML pages to plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const (
	// minRequestInterval limits requests to 10/sec max to avoid rate limiting
	minRequestInterval = 100 * time.Millisecond

	// maxDocumentBytes caps how much of a remote document is read
	maxDocumentBytes = 4 << 20
)

const docCacheTTL = 1 * time.Hour

// docCache provides per-URL TTL caching for fetched documents
var docCacheMu sync.RWMutex
var docCacheEntries = make(map[string]docCacheEntry)

type docCacheEntry struct {
	text      string
	fetchedAt time.Time
}

// Client fetches documentation pages with basic rate limiting
type Client struct {
	httpClient  *http.Client
	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a new fetch client with default settings
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// rateLimitedGet performs a rate-limited HTTP GET request
func (c *Client) rateLimitedGet(ctx context.Context, url string) (*http.Response, error) {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < minRequestInterval {
		time.Sleep(minRequestInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// Document fetches a documentation page and returns its text content.
// HTML responses are reduced to visible text. Results are cached per
// URL with a 1-hour TTL.
func (c *Client) Document(ctx context.Context, url string) (string, error) {
	// Check cache
	docCacheMu.RLock()
	if entry, ok := docCacheEntries[url]; ok && time.Since(entry.fetchedAt) < docCacheTTL {
		docCacheMu.RUnlock()
		return entry.text, nil
	}
	docCacheMu.RUnlock()

	resp, err := c.rateLimitedGet(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch documentation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxDocumentBytes)

	var text string
	if isHTML(resp.Header.Get("Content-Type")) {
		text, err = ExtractText(body)
		if err != nil {
			return "", fmt.Errorf("failed to parse documentation page: %w", err)
		}
	} else {
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("failed to read documentation: %w", err)
		}
		text = string(raw)
	}

	// Store in cache
	docCacheMu.Lock()
	docCacheEntries[url] = docCacheEntry{text: text, fetchedAt: time.Now()}
	docCacheMu.Unlock()

	return text, nil
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

// ExtractText reduces an HTML document to its visible text. Script and
// style elements are skipped; block boundaries become newlines.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				b.WriteString(trimmed)
				b.WriteByte(' ')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "tr", "br",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "table", "ul", "ol":
		return true
	}
	return false
}
