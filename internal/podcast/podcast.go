// Package podcast renders RSS 2.0 feeds with the iTunes extensions that
// podcast directories require.
package podcast

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/audio"
)

const itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"

// Episode holds the per-item feed fields.
type Episode struct {
	Title       string
	Description string
	AudioURL    string
	FileSize    int64
	Duration    time.Duration
	PublishDate time.Time
	GUID        string
}

// Feed holds the channel-level fields.
type Feed struct {
	Title       string
	Description string
	Author      string
	Email       string
	Link        string
	ImageURL    string
	Language    string
	Category    string
	Explicit    bool
}

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ITunesNS  string     `xml:"xmlns:itunes,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	Channel   channelXML `xml:"channel"`
}

type channelXML struct {
	Title         string      `xml:"title"`
	Description   string      `xml:"description"`
	Link          string      `xml:"link"`
	Language      string      `xml:"language"`
	Copyright     string      `xml:"copyright"`
	LastBuildDate string      `xml:"lastBuildDate"`
	Author        string      `xml:"itunes:author"`
	Summary       string      `xml:"itunes:summary"`
	Explicit      string      `xml:"itunes:explicit"`
	Category      categoryXML `xml:"itunes:category"`
	Image         imageXML    `xml:"itunes:image"`
	Owner         ownerXML    `xml:"itunes:owner"`
	Items         []itemXML   `xml:"item"`
}

type categoryXML struct {
	Text string `xml:"text,attr"`
}

type imageXML struct {
	Href string `xml:"href,attr"`
}

type ownerXML struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email"`
}

type itemXML struct {
	Title       string       `xml:"title"`
	Description string       `xml:"description"`
	Enclosure   enclosureXML `xml:"enclosure"`
	GUID        guidXML      `xml:"guid"`
	PubDate     string       `xml:"pubDate"`
	Duration    string       `xml:"itunes:duration"`
	Explicit    string       `xml:"itunes:explicit"`
}

type enclosureXML struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type guidXML struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Render produces the feed XML for the given episodes. now stamps
// lastBuildDate and the copyright year.
func (f Feed) Render(episodes []Episode, now time.Time) ([]byte, error) {
	language := f.Language
	if language == "" {
		language = "en-us"
	}
	category := f.Category
	if category == "" {
		category = "News"
	}

	doc := rssXML{
		Version:   "2.0",
		ITunesNS:  itunesNS,
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		AtomNS:    "http://www.w3.org/2005/Atom",
		Channel: channelXML{
			Title:         f.Title,
			Description:   f.Description,
			Link:          f.Link,
			Language:      language,
			Copyright:     fmt.Sprintf("© %d %s", now.UTC().Year(), f.Author),
			LastBuildDate: rfc2822(now),
			Author:        f.Author,
			Summary:       f.Description,
			Explicit:      yesNo(f.Explicit),
			Category:      categoryXML{Text: category},
			Image:         imageXML{Href: f.ImageURL},
			Owner:         ownerXML{Name: f.Author, Email: f.Email},
		},
	}

	for _, ep := range episodes {
		guid := ep.GUID
		if guid == "" {
			guid = ep.AudioURL
		}
		doc.Channel.Items = append(doc.Channel.Items, itemXML{
			Title:       ep.Title,
			Description: ep.Description,
			Enclosure: enclosureXML{
				URL:    ep.AudioURL,
				Length: ep.FileSize,
				Type:   "audio/mpeg",
			},
			GUID:     guidXML{IsPermaLink: "false", Value: guid},
			PubDate:  rfc2822(ep.PublishDate),
			Duration: FormatDuration(ep.Duration),
			Explicit: "no",
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteFeed renders the feed and writes it to path.
func (f Feed) WriteFeed(path string, episodes []Episode, now time.Time) error {
	data, err := f.Render(episodes, now)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create feed directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

// EpisodeMetadata builds an Episode for the MP3 at path, hosted under
// baseURL. A missing or undecodable file yields zero size and duration
// rather than an error.
func EpisodeMetadata(topicName, path, baseURL string, now time.Time) Episode {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	var duration time.Duration
	if d, err := audio.Duration(path); err == nil {
		duration = d
	}

	date := now.UTC().Format("2006-01-02")
	return Episode{
		Title:       fmt.Sprintf("%s - %s", topicName, date),
		Description: fmt.Sprintf("Automated news curation for %s on %s", topicName, date),
		AudioURL:    strings.TrimRight(baseURL, "/") + "/" + filepath.Base(path),
		FileSize:    size,
		Duration:    duration,
		PublishDate: now,
		GUID:        fmt.Sprintf("%s-%s", topicName, date),
	}
}

// FormatDuration renders a duration as HH:MM:SS, or MM:SS under an hour.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func rfc2822(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 +0000")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
