// Package youtube resolves video IDs from the URL formats people actually
// paste, classifies links against the hostnames we treat as YouTube, and
// fetches caption transcripts.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Hostnames dispatched to transcript fetching. The match is exact: regional
// aliases like youtube.co.uk are routed to article extraction instead, which
// quietly yields nothing. Documented behavior, kept as-is.
var youtubeHosts = map[string]bool{
	"www.youtube.com": true,
	"youtube.com":     true,
	"youtu.be":        true,
	"m.youtube.com":   true,
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

// IsYouTubeURL reports whether the URL's hostname is on the allow-list.
func IsYouTubeURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return youtubeHosts[u.Hostname()]
}

// ExtractVideoID pulls the video ID out of watch, short, embed, and /v/
// URLs. Returns "" when no pattern matches.
func ExtractVideoID(rawURL string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Title builds a readable placeholder title from a video URL.
func Title(rawURL string) string {
	if id := ExtractVideoID(rawURL); id != "" {
		return "YouTube Video " + id
	}
	return "YouTube Video"
}

// Client fetches caption transcripts via the timedtext endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	language   string
}

// NewClient creates a transcript client for English captions.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   "https://www.youtube.com/api/timedtext",
		language:   "en",
	}
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript returns the caption text of the video at rawURL, with the
// caption runs joined by single spaces.
func (c *Client) Transcript(ctx context.Context, rawURL string) (string, error) {
	id := ExtractVideoID(rawURL)
	if id == "" {
		return "", fmt.Errorf("no video ID in URL %s", rawURL)
	}

	q := url.Values{}
	q.Set("v", id)
	q.Set("lang", c.language)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript for %s: status %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse transcript for %s: %w", id, err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, text := range tt.Texts {
		if s := strings.TrimSpace(html.UnescapeString(text.Body)); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no captions for video %s", id)
	}
	return strings.Join(parts, " "), nil
}
