package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/feeds"
)

type stubFetcher struct {
	entries map[string][]feeds.Entry
}

func (s stubFetcher) Fetch(ctx context.Context, url string, since time.Duration) ([]feeds.Entry, error) {
	e, ok := s.entries[url]
	if !ok {
		return nil, fmt.Errorf("feed unreachable")
	}
	return e, nil
}

var digestNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestBuildDigest(t *testing.T) {
	fetcher := stubFetcher{entries: map[string][]feeds.Entry{
		"https://example.com/tech": {
			{Title: "Go release", Link: "https://example.com/go", Published: "2025-06-10T08:00:00Z", Description: "A new Go version."},
			{Title: "", Link: "https://example.com/x", Published: "2025-06-10T07:00:00Z"},
		},
	}}
	topics := []config.Topic{
		{Name: "Tech", Sources: []string{"https://example.com/tech"}, ArticleCap: 30, LookbackHours: 48},
		{Name: "Dead Topic", Sources: []string{"https://example.com/dead"}, ArticleCap: 30},
	}

	body := Build(context.Background(), topics, fetcher, digestNow)

	if !strings.HasPrefix(body, "News digest generated 2025-06-10T12:00:00 UTC\nTotal items: 2\n") {
		t.Errorf("header wrong:\n%s", body)
	}
	for _, want := range []string{
		"=== Tech ===",
		"- Go release\n  https://example.com/go\n  2025-06-10T08:00:00Z\n  A new Go version.",
		"- (no title)",
		"=== Dead Topic ===\n(no recent items)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("digest missing %q:\n%s", want, body)
		}
	}
}

func TestBuildRespectsArticleCap(t *testing.T) {
	var entries []feeds.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, feeds.Entry{Title: fmt.Sprintf("Item %d", i), Link: fmt.Sprintf("l%d", i)})
	}
	fetcher := stubFetcher{entries: map[string][]feeds.Entry{"f": entries}}
	topics := []config.Topic{{Name: "T", Sources: []string{"f"}, ArticleCap: 3}}

	body := Build(context.Background(), topics, fetcher, digestNow)

	if !strings.Contains(body, "Total items: 3") {
		t.Errorf("cap not applied:\n%s", body)
	}
	if strings.Contains(body, "Item 3") {
		t.Errorf("items past the cap should be dropped:\n%s", body)
	}
}

func TestBuildClampsLongDescriptions(t *testing.T) {
	long := strings.Repeat("x", 400)
	fetcher := stubFetcher{entries: map[string][]feeds.Entry{
		"f": {{Title: "T", Link: "l", Description: long}},
	}}
	topics := []config.Topic{{Name: "T", Sources: []string{"f"}, ArticleCap: 30}}

	body := Build(context.Background(), topics, fetcher, digestNow)

	want := strings.Repeat("x", 297) + "..."
	if !strings.Contains(body, want) {
		t.Error("long description should be clamped to 300 chars with ellipsis")
	}
	if strings.Contains(body, strings.Repeat("x", 298)) {
		t.Error("clamped description kept too much text")
	}
}

func TestMessageRender(t *testing.T) {
	msg := Message{
		From:    "news@example.com",
		To:      "reader@example.com",
		Subject: "Daily News Digest",
		Body:    "hello",
	}

	got := string(msg.Render(digestNow))

	for _, want := range []string{
		"From: news@example.com\r\n",
		"To: reader@example.com\r\n",
		"Subject: Daily News Digest\r\n",
		"Date: Tue, 10 Jun 2025 12:00:00 +0000\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r\n\r\nhello") {
		t.Errorf("body should follow a blank line:\n%q", got)
	}
}

func TestDeliverPrefersSMTP(t *testing.T) {
	m := NewMailer(config.Credentials{SMTPHost: "mail.example.com"}, t.TempDir())
	m.smtpSend = func(Message) error { return nil }
	m.sendmailSend = func(Message) error {
		t.Error("sendmail should not run when smtp succeeds")
		return nil
	}

	method, err := m.Deliver(Message{To: "r@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if method != "smtp" {
		t.Errorf("method = %q, want smtp", method)
	}
}

func TestDeliverFallsBackToSendmail(t *testing.T) {
	m := NewMailer(config.Credentials{SMTPHost: "mail.example.com"}, t.TempDir())
	m.smtpSend = func(Message) error { return fmt.Errorf("connection refused") }
	m.sendmailSend = func(Message) error { return nil }

	method, err := m.Deliver(Message{To: "r@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if method != "sendmail" {
		t.Errorf("method = %q, want sendmail", method)
	}
}

func TestDeliverWritesEMLAsLastResort(t *testing.T) {
	outbox := t.TempDir()
	m := NewMailer(config.Credentials{}, outbox)
	m.now = func() time.Time { return digestNow }
	m.smtpSend = func(Message) error {
		t.Error("smtp should not run without a configured host")
		return nil
	}
	m.sendmailSend = func(Message) error { return fmt.Errorf("sendmail not found") }

	method, err := m.Deliver(Message{From: "a@example.com", To: "b@example.com", Subject: "S", Body: "B"})
	if err != nil {
		t.Fatal(err)
	}

	want := "news_digest_20250610T120000Z.eml"
	if !strings.HasSuffix(method, want) {
		t.Errorf("method = %q, want path ending in %q", method, want)
	}
}
