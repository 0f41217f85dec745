package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rssDoc(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test Feed</title>
<link>https://example.com</link>
<description>test</description>
%s
</channel></rss>`, items)
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testFetcher(now time.Time) *Fetcher {
	f := NewFetcher()
	f.now = func() time.Time { return now }
	return f
}

func TestFetchFiltersOldItems(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour).Format(time.RFC1123Z)
	stale := now.Add(-80 * time.Hour).Format(time.RFC1123Z)

	srv := serveFeed(t, rssDoc(fmt.Sprintf(`
<item><title>Recent</title><link>https://example.com/1</link><pubDate>%s</pubDate></item>
<item><title>Stale</title><link>https://example.com/2</link><pubDate>%s</pubDate></item>`, recent, stale)))

	entries, err := testFetcher(now).Fetch(context.Background(), srv.URL, 48*time.Hour)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Title != "Recent" {
		t.Errorf("kept %q, want %q", entries[0].Title, "Recent")
	}
}

func TestFetchUsesNowWhenUndated(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	srv := serveFeed(t, rssDoc(`
<item><title>No date</title><link>https://example.com/1</link></item>`))

	entries, err := testFetcher(now).Fetch(context.Background(), srv.URL, 48*time.Hour)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Published != now.Format(time.RFC3339) {
		t.Errorf("Published = %q, want current time %q", entries[0].Published, now.Format(time.RFC3339))
	}
}

func TestFetchNormalizesEntries(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	pub := now.Add(-time.Hour)

	srv := serveFeed(t, rssDoc(fmt.Sprintf(`
<item>
  <title>Story</title>
  <link>https://example.com/story</link>
  <pubDate>%s</pubDate>
  <description>Body text</description>
</item>`, pub.Format(time.RFC1123Z))))

	entries, err := testFetcher(now).Fetch(context.Background(), srv.URL, 48*time.Hour)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	got := entries[0]
	if got.Title != "Story" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Link != "https://example.com/story" {
		t.Errorf("Link = %q", got.Link)
	}
	if got.Published != pub.Format(time.RFC3339) {
		t.Errorf("Published = %q, want %q", got.Published, pub.Format(time.RFC3339))
	}
	if got.Description != "Body text" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestFetchErrorOnBadFeed(t *testing.T) {
	srv := serveFeed(t, "this is not xml")

	_, err := testFetcher(time.Now()).Fetch(context.Background(), srv.URL, 48*time.Hour)
	if err == nil {
		t.Fatal("expected parse error for malformed feed")
	}
}
