package podcast

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{42 * time.Second, "00:42"},
		{5*time.Minute + 3*time.Second, "05:03"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour, "01:00:00"},
		{2*time.Hour + 7*time.Minute + 9*time.Second, "02:07:09"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderFeed(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	feed := Feed{
		Title:       "Tech Daily",
		Description: "Automated technology news",
		Author:      "Newsreel",
		Email:       "news@example.com",
		Link:        "https://example.com/podcast",
		ImageURL:    "https://example.com/art.png",
	}

	episodes := []Episode{{
		Title:       "Tech - 2025-06-10",
		Description: "Automated news curation for Tech on 2025-06-10",
		AudioURL:    "https://example.com/audio/episode.mp3",
		FileSize:    123456,
		Duration:    4*time.Minute + 5*time.Second,
		PublishDate: now,
		GUID:        "Tech-2025-06-10",
	}}

	data, err := feed.Render(episodes, now)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	xml := string(data)

	for _, want := range []string{
		`<rss version="2.0"`,
		`xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"`,
		"<title>Tech Daily</title>",
		"<language>en-us</language>",
		"<copyright>© 2025 Newsreel</copyright>",
		"<lastBuildDate>Tue, 10 Jun 2025 14:30:00 +0000</lastBuildDate>",
		"<itunes:author>Newsreel</itunes:author>",
		"<itunes:explicit>no</itunes:explicit>",
		`<itunes:category text="News">`,
		`<itunes:image href="https://example.com/art.png">`,
		"<itunes:email>news@example.com</itunes:email>",
		`<enclosure url="https://example.com/audio/episode.mp3" length="123456" type="audio/mpeg">`,
		`<guid isPermaLink="false">Tech-2025-06-10</guid>`,
		"<pubDate>Tue, 10 Jun 2025 14:30:00 +0000</pubDate>",
		"<itunes:duration>04:05</itunes:duration>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("feed missing %q\n%s", want, xml)
		}
	}
}

func TestRenderFeedGUIDFallsBackToAudioURL(t *testing.T) {
	feed := Feed{Title: "T", Author: "A"}
	data, err := feed.Render([]Episode{{AudioURL: "https://example.com/e.mp3"}}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<guid isPermaLink="false">https://example.com/e.mp3</guid>`) {
		t.Error("guid should fall back to the audio URL")
	}
}

func TestWriteFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podcasts", "tech", "podcast.rss")
	feed := Feed{Title: "Tech Daily", Author: "Newsreel"}

	if err := feed.WriteFeed(path, nil, time.Now()); err != nil {
		t.Fatalf("WriteFeed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Error("feed file should start with an XML declaration")
	}
}

func TestEpisodeMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.mp3")
	if err := os.WriteFile(path, []byte("not real mp3 frames"), 0644); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	ep := EpisodeMetadata("Tech", path, "https://example.com/audio/", now)

	if ep.Title != "Tech - 2025-06-10" {
		t.Errorf("Title = %q", ep.Title)
	}
	if ep.GUID != "Tech-2025-06-10" {
		t.Errorf("GUID = %q", ep.GUID)
	}
	if ep.AudioURL != "https://example.com/audio/episode.mp3" {
		t.Errorf("AudioURL = %q", ep.AudioURL)
	}
	if ep.FileSize == 0 {
		t.Error("FileSize should reflect the file on disk")
	}
	if ep.Duration != 0 {
		t.Errorf("undecodable file should give zero duration, got %v", ep.Duration)
	}
}

func TestEpisodeMetadataMissingFile(t *testing.T) {
	ep := EpisodeMetadata("Tech", filepath.Join(t.TempDir(), "absent.mp3"), "https://example.com", time.Now())
	if ep.FileSize != 0 || ep.Duration != 0 {
		t.Errorf("missing file should give zero size and duration, got %d, %v", ep.FileSize, ep.Duration)
	}
}
