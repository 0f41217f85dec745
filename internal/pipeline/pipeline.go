// Package pipeline runs the per-topic gather, summarize, render, and
// publish sequence.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/archive"
	"github.com/abelbrown/newsreel/internal/audio"
	"github.com/abelbrown/newsreel/internal/blog"
	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/feeds"
	"github.com/abelbrown/newsreel/internal/logging"
	"github.com/abelbrown/newsreel/internal/podcast"
	"github.com/abelbrown/newsreel/internal/sources"
	"github.com/abelbrown/newsreel/internal/summary"
	"github.com/abelbrown/newsreel/internal/youtube"
)

// Each segment aims at roughly one spoken minute.
const segmentWordTarget = 150

// Spoken text is clipped before synthesis so no clip runs long.
const speechWordLimit = 180

// FeedFetcher pulls recent entries from one feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, since time.Duration) ([]feeds.Entry, error)
}

// WeatherFetcher produces presented forecast summaries per location.
type WeatherFetcher interface {
	Fetch(ctx context.Context, locations []config.Location, provider string) ([]feeds.Entry, error)
}

// Extractor pulls readable article text from a URL. Failures surface as
// empty text.
type Extractor interface {
	Text(ctx context.Context, url string) string
}

// TranscriptFetcher resolves a video URL to its spoken transcript.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, url string) (string, error)
}

// Summarizer condenses text to roughly maxWords.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxWords int) string
}

// Synthesizer writes spoken audio for text to an MP3 path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// Uploader publishes an episode file to the hosting archive.
type Uploader interface {
	Upload(ctx context.Context, path string, meta archive.Metadata, dryRun bool) bool
	AudioURL(identifier, filename string) string
}

// Episode records one published episode for feed generation.
type Episode struct {
	Topic      string
	Slug       string
	Path       string
	Identifier string
	BaseURL    string
}

// Pipeline wires the collaborators for one run. Construct one per run;
// the tracker accumulates usage across all topics.
type Pipeline struct {
	Feeds       FeedFetcher
	Weather     WeatherFetcher
	Extract     Extractor
	Transcripts TranscriptFetcher
	Summarizer  Summarizer
	Speech      Synthesizer
	Uploader    Uploader
	Tracker     *summary.Tracker
	Credentials config.Credentials

	OutboxDir  string
	ContentDir string
	SourcesDir string

	now func() time.Time
}

func (p *Pipeline) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now().UTC()
}

// Sanitize makes a topic name safe for use in file paths.
func Sanitize(name string) string {
	return topicSlugger.Replace(name)
}

var topicSlugger = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_", " ", "_",
)

// Run processes each topic in order, then writes the per-episode feeds,
// the blog index, and the token usage report. Topics are independent: a
// failing source, entry, or segment is logged and skipped. Only
// configuration problems (an unsupported weather provider) abort the run.
func (p *Pipeline) Run(ctx context.Context, topics []config.Topic, since time.Duration) error {
	if err := os.MkdirAll(p.OutboxDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var episodes []Episode
	var posts []blog.IndexEntry

	for _, topic := range topics {
		episode, post, err := p.processTopic(ctx, topic, since)
		if err != nil {
			return err
		}
		if episode != nil {
			episodes = append(episodes, *episode)
		}
		if post != nil {
			posts = append(posts, *post)
		}
	}

	for _, e := range episodes {
		p.writeEpisodeFeed(e)
	}

	if p.ContentDir != "" && len(posts) > 0 {
		index := blog.FormatIndex(posts, p.clock())
		path := filepath.Join(p.ContentDir, "index.md")
		if err := os.WriteFile(path, []byte(index), 0644); err != nil {
			logging.Warn("blog index write failed", "error", err)
		}
	}

	if p.Tracker != nil {
		path := filepath.Join(p.OutboxDir, "token_usage_report.txt")
		if err := p.Tracker.SaveReport(path); err != nil {
			logging.Warn("usage report write failed", "error", err)
		}
	}

	return nil
}

func (p *Pipeline) processTopic(ctx context.Context, topic config.Topic, since time.Duration) (*Episode, *blog.IndexEntry, error) {
	slug := Sanitize(topic.Name)
	logging.Info("processing topic",
		"topic", topic.Name, "cap", topic.ArticleCap, "segments", topic.Segments)

	var summaries []blog.Summary
	if topic.Type == config.TypeWeather {
		entries, err := p.Weather.Fetch(ctx, topic.Locations, topic.Provider)
		if err != nil {
			return nil, nil, fmt.Errorf("topic %s: %w", topic.Name, err)
		}
		// Forecast entries are already presented summaries; they skip
		// dedupe, capping, and summarization.
		for _, e := range entries {
			summaries = append(summaries, blog.Summary{Title: e.Title, Summary: e.Description, Link: e.Link})
		}
	} else {
		entries := p.gather(ctx, topic, since)
		entries = feeds.Dedupe(entries)
		entries = feeds.Cap(entries, topic.ArticleCap)
		summaries = p.summarize(ctx, entries, topic.Segments)
	}

	post := p.renderBlog(topic.Name, slug, summaries)

	clips := p.synthesize(ctx, slug, summaries)
	if len(clips) == 0 {
		logging.Info("no audio clips produced, skipping episode", "topic", topic.Name)
		return nil, post, nil
	}

	episodePath := filepath.Join(p.OutboxDir, "podcasts", slug, "episode.mp3")
	if err := audio.Concat(clips, episodePath); err != nil {
		logging.Warn("episode assembly failed", "topic", topic.Name, "error", err)
		return nil, post, nil
	}
	logging.Info("created episode", "topic", topic.Name, "path", episodePath)

	episode := p.publish(ctx, topic.Name, slug, episodePath)
	return episode, post, nil
}

// gather unions feed entries with stub entries from the sources
// directory: manual URLs with empty bodies, video URLs with titles
// resolved from their IDs.
func (p *Pipeline) gather(ctx context.Context, topic config.Topic, since time.Duration) []feeds.Entry {
	var entries []feeds.Entry
	for _, src := range topic.Sources {
		got, err := p.Feeds.Fetch(ctx, src, since)
		if err != nil {
			logging.Warn("feed ingest failed", "source", src, "error", err)
			continue
		}
		entries = append(entries, got...)
	}

	if p.SourcesDir != "" {
		listing := sources.Scan(p.SourcesDir)
		for _, u := range listing.URLs {
			entries = append(entries, feeds.Entry{Link: u})
		}
		for _, u := range listing.YouTubeURLs {
			entries = append(entries, feeds.Entry{Title: youtube.Title(u), Link: u})
		}
	}

	return entries
}

// summarize turns at most segments entries into segment summaries,
// dispatching video links to transcript fetch and everything else to
// article extraction. An entry whose text cannot be obtained is dropped.
func (p *Pipeline) summarize(ctx context.Context, entries []feeds.Entry, segments int) []blog.Summary {
	if len(entries) > segments {
		entries = entries[:segments]
	}

	var out []blog.Summary
	for _, e := range entries {
		var text string
		if youtube.IsYouTubeURL(e.Link) {
			transcript, err := p.Transcripts.Transcript(ctx, e.Link)
			if err != nil {
				logging.Warn("transcript fetch failed", "link", e.Link, "error", err)
				continue
			}
			text = transcript
		} else {
			text = p.Extract.Text(ctx, e.Link)
		}
		if strings.TrimSpace(text) == "" {
			logging.Warn("no text for entry, dropping", "link", e.Link)
			continue
		}

		s := p.Summarizer.Summarize(ctx, text, segmentWordTarget)
		out = append(out, blog.Summary{Title: e.Title, Summary: s, Link: e.Link})
	}

	return out
}

// renderBlog writes the working draft to the outbox and, when a content
// directory is configured, a dated front-matter copy for the site.
func (p *Pipeline) renderBlog(name, slug string, summaries []blog.Summary) *blog.IndexEntry {
	now := p.clock()

	draft := filepath.Join(p.OutboxDir, slug+".md")
	if err := os.WriteFile(draft, []byte(blog.FormatTopic(name, summaries)), 0644); err != nil {
		logging.Warn("draft write failed", "topic", name, "error", err)
	} else {
		logging.Info("wrote draft", "topic", name, "path", draft)
	}

	if p.ContentDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.ContentDir, 0755); err != nil {
		logging.Warn("content directory unavailable", "error", err)
		return nil
	}

	file := fmt.Sprintf("%s-%s.md", now.UTC().Format("2006-01-02"), slug)
	post := blog.FormatPost(name, summaries, now)
	if err := os.WriteFile(filepath.Join(p.ContentDir, file), []byte(post), 0644); err != nil {
		logging.Warn("post write failed", "topic", name, "error", err)
		return nil
	}

	return &blog.IndexEntry{Name: name, File: file, Date: now}
}

// synthesize produces one numbered clip per segment. Numbering starts at
// 01; a failed segment is dropped, shortening the episode.
func (p *Pipeline) synthesize(ctx context.Context, slug string, summaries []blog.Summary) []string {
	dir := filepath.Join(p.OutboxDir, "podcasts", slug)

	var clips []string
	for i, s := range summaries {
		text := s.Summary
		if strings.TrimSpace(text) == "" {
			text = s.Title
		}
		text = summary.TruncateWords(text, speechWordLimit)

		clip := filepath.Join(dir, fmt.Sprintf("%02d.mp3", i+1))
		if err := p.Speech.Synthesize(ctx, text, clip); err != nil {
			logging.Warn("speech synthesis failed", "segment", i+1, "error", err)
			continue
		}
		clips = append(clips, clip)
	}

	return clips
}

// publish uploads the episode, dry-running when no archive credentials
// are configured, and records it for feed generation on success.
func (p *Pipeline) publish(ctx context.Context, name, slug, episodePath string) *Episode {
	if p.Uploader == nil {
		return nil
	}

	now := p.clock()
	identifier := archive.Identifier(slug, now)
	meta := archive.Metadata{
		Identifier:  identifier,
		Title:       fmt.Sprintf("%s - %s", name, now.UTC().Format("2006-01-02")),
		Description: fmt.Sprintf("Automated news curation for %s", name),
		Mediatype:   "audio",
		Collection:  "opensource_audio",
	}

	dryRun := !p.Credentials.HasArchive()
	if !p.Uploader.Upload(ctx, episodePath, meta, dryRun) {
		return nil
	}

	return &Episode{
		Topic:      name,
		Slug:       slug,
		Path:       episodePath,
		Identifier: identifier,
		BaseURL:    p.Uploader.AudioURL(identifier, ""),
	}
}

// writeEpisodeFeed puts a single-item podcast feed beside the episode
// audio.
func (p *Pipeline) writeEpisodeFeed(e Episode) {
	now := p.clock()
	feed := podcast.Feed{
		Title:       e.Topic + " Podcast",
		Description: "Automated news curation for " + e.Topic,
		Author:      "Newsreel",
		Link:        e.BaseURL,
	}
	item := podcast.EpisodeMetadata(e.Topic, e.Path, e.BaseURL, now)

	path := filepath.Join(filepath.Dir(e.Path), "podcast.rss")
	if err := feed.WriteFeed(path, []podcast.Episode{item}, now); err != nil {
		logging.Warn("feed write failed", "topic", e.Topic, "error", err)
		return
	}
	logging.Info("wrote podcast feed", "topic", e.Topic, "path", path)
}
