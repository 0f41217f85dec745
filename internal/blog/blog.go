// Package blog renders segment summaries as Markdown posts.
package blog

import (
	"fmt"
	"strings"
	"time"
)

// Summary is one summarized entry destined for one blog section.
type Summary struct {
	Title   string
	Summary string
	Link    string
}

// FormatTopic renders a topic heading followed by one section per summary,
// in input order. Input order is newest-first by the time it reaches the
// renderer and must be preserved.
func FormatTopic(name string, summaries []Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", name)

	if len(summaries) == 0 {
		b.WriteString("_No recent items._\n")
		return b.String()
	}

	for _, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(no title)"
		}
		if s.Link != "" {
			fmt.Fprintf(&b, "## [%s](%s)\n\n", title, s.Link)
		} else {
			fmt.Fprintf(&b, "## %s\n\n", title)
		}
		if s.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(s.Summary))
		}
	}

	return b.String()
}

// FormatPost wraps FormatTopic output in the front matter a static-site
// generator expects.
func FormatPost(name string, summaries []Summary, date time.Time) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", name)
	fmt.Fprintf(&b, "date: %s\n", date.UTC().Format("2006-01-02"))
	b.WriteString("---\n\n")
	b.WriteString(FormatTopic(name, summaries))

	return b.String()
}

// FormatIndex renders an index page linking each post file.
func FormatIndex(posts []IndexEntry, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Newsreel Blog\n\n")
	fmt.Fprintf(&b, "*Last updated: %s*\n\n", now.UTC().Format("2006-01-02 15:04 UTC"))
	b.WriteString("## Latest Posts\n\n")

	for _, p := range posts {
		fmt.Fprintf(&b, "- [%s](%s) - %s\n", p.Name, p.File, p.Date.Format("2006-01-02 15:04"))
	}

	return b.String()
}

// IndexEntry is one post on the blog index.
type IndexEntry struct {
	Name string
	File string
	Date time.Time
}
