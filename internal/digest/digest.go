// Package digest builds a keyless plain-text email digest of recent
// entries across all topics.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/feeds"
	"github.com/abelbrown/newsreel/internal/logging"
)

// Descriptions longer than this are clamped with a trailing ellipsis.
const maxDescriptionChars = 300

// FeedFetcher pulls recent entries from one feed URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, since time.Duration) ([]feeds.Entry, error)
}

// Build renders the digest body: a generation header, then one section
// per topic listing entries up to the topic's article cap. A dead feed
// contributes nothing; a topic with no items still gets its section.
func Build(ctx context.Context, topics []config.Topic, fetcher FeedFetcher, now time.Time) string {
	var parts []string
	total := 0

	for _, t := range topics {
		lookback := t.LookbackHours
		if lookback <= 0 {
			lookback = 48
		}
		since := time.Duration(lookback) * time.Hour

		parts = append(parts, fmt.Sprintf("=== %s ===", t.Name))

		collected := 0
		for _, src := range t.Sources {
			entries, err := fetcher.Fetch(ctx, src, since)
			if err != nil {
				logging.Warn("digest feed fetch failed", "source", src, "error", err)
				continue
			}
			for _, e := range entries {
				if collected >= t.ArticleCap {
					break
				}
				parts = append(parts, formatItem(e))
				collected++
				total++
			}
		}

		if collected == 0 {
			parts = append(parts, "(no recent items)")
		}
		parts = append(parts, "")
	}

	header := fmt.Sprintf("News digest generated %s UTC\nTotal items: %d\n",
		now.UTC().Format("2006-01-02T15:04:05"), total)
	return header + strings.Join(parts, "\n")
}

func formatItem(e feeds.Entry) string {
	title := e.Title
	if title == "" {
		title = "(no title)"
	}

	desc := strings.TrimSpace(e.Description)
	if len(desc) > maxDescriptionChars {
		desc = desc[:maxDescriptionChars-3] + "..."
	}

	return fmt.Sprintf("- %s\n  %s\n  %s\n  %s", title, e.Link, e.Published, desc)
}
