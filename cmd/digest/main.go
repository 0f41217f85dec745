// Command digest builds the keyless plain-text news digest and emails it,
// falling back from SMTP to sendmail to an .eml file in the outbox.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/digest"
	"github.com/abelbrown/newsreel/internal/feeds"
	"github.com/abelbrown/newsreel/internal/logging"
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	topicsPath := flag.String("topics", "topics.yaml", "path to the topics configuration file")
	to := flag.String("to", os.Getenv("NEWS_TO_EMAIL"), "recipient email (or set NEWS_TO_EMAIL)")
	from := flag.String("from", envOrDefault("NEWS_FROM_EMAIL", "news@example.com"), "sender email address")
	outbox := flag.String("outbox", "outbox", "directory for the .eml fallback")
	subject := flag.String("subject", "Daily News Digest", "email subject")
	flag.Parse()

	logging.Init()

	if *to == "" {
		fmt.Fprintln(os.Stderr, "recipient email required: pass --to or set NEWS_TO_EMAIL")
		os.Exit(2)
	}

	topics, err := config.LoadTopics(*topicsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load topics: %v\n", err)
		os.Exit(2)
	}

	body := digest.Build(context.Background(), topics, feeds.NewFetcher(), time.Now())

	mailer := digest.NewMailer(config.CredentialsFromEnv(), *outbox)
	method, err := mailer.Deliver(digest.Message{
		From:    *from,
		To:      *to,
		Subject: *subject,
		Body:    body,
	})
	if err != nil {
		logging.Fatal("digest delivery failed", "error", err)
	}
	logging.Info("digest delivered", "to", *to, "via", method)
}
