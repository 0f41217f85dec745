package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// Fetcher pulls entries from RSS/Atom feeds. A shared rate limiter paces
// outbound requests so a topic with many feeds on one host stays polite.
type Fetcher struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
	now     func() time.Time
}

// NewFetcher creates a feed fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		now:     time.Now,
	}
}

// Fetch parses the feed at url and returns entries published within the
// last since hours. Item timestamps are resolved published first, then
// updated, then the current time as a last resort. A single malformed item
// never fails the whole feed; gofeed already skips what it cannot parse.
func (f *Fetcher) Fetch(ctx context.Context, url string, since time.Duration) ([]Entry, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	now := f.now().UTC()
	cutoff := now.Add(-since)

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := now
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}

		if published.Before(cutoff) {
			continue
		}

		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			Published:   published.Format(time.RFC3339),
			Description: item.Description,
		})
	}

	return entries, nil
}
