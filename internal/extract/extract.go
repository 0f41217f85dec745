// Package extract pulls readable article text out of web pages.
package extract

import (
	"context"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/abelbrown/newsreel/internal/logging"
)

// Extractor fetches a page and strips it down to article text.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

// New creates an article extractor.
func New() *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; newsreel/1.0)",
	}
}

// Text returns the extracted article text for rawURL. Any failure (bad URL,
// network error, non-200, unparseable markup) returns "" so the caller can
// fall back to whatever description the feed carried. No retry.
func (e *Extractor) Text(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		logging.Warn("article extraction skipped", "url", rawURL, "error", "invalid URL")
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		logging.Warn("article fetch failed", "url", rawURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("article fetch failed", "url", rawURL, "status", resp.StatusCode)
		return ""
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		logging.Warn("article parse failed", "url", rawURL, "error", err)
		return ""
	}

	return article.TextContent
}
