package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/abelbrown/newsreel/internal/archive"
	"github.com/abelbrown/newsreel/internal/audio"
	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/extract"
	"github.com/abelbrown/newsreel/internal/feeds"
	"github.com/abelbrown/newsreel/internal/logging"
	"github.com/abelbrown/newsreel/internal/pipeline"
	"github.com/abelbrown/newsreel/internal/summary"
	"github.com/abelbrown/newsreel/internal/weather"
	"github.com/abelbrown/newsreel/internal/youtube"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	topicsPath := flag.String("topics", "topics.yaml", "path to the topics configuration file")
	since := flag.Int("since", 48, "lookback window in hours")
	sourcesDir := flag.String("sources", "sources", "directory of manual source files")
	outboxDir := flag.String("outbox", "outbox", "directory for drafts, episodes, and reports")
	contentDir := flag.String("content", "content", "directory for published blog posts")
	flag.Parse()

	logging.Init()

	topics, err := config.LoadTopics(*topicsPath)
	if err != nil {
		logging.Fatal("failed to load topics", "path", *topicsPath, "error", err)
	}

	creds := config.CredentialsFromEnv()
	tracker := summary.NewTracker()

	// Backends are tried in order; ones without credentials report
	// themselves unavailable and are skipped.
	summarizer := summary.NewWaterfall(tracker,
		summary.NewHuggingFace(creds.HuggingFaceKey, ""),
		summary.NewOpenAI(creds.OpenAIKey, ""),
	)

	p := &pipeline.Pipeline{
		Feeds:       feeds.NewFetcher(),
		Weather:     weather.NewFetcher(),
		Extract:     extract.New(),
		Transcripts: youtube.NewClient(),
		Summarizer:  summarizer,
		Speech:      audio.NewSpeech(),
		Uploader: archive.NewUploader(archive.Credentials{
			AccessKey: creds.ArchiveAccessKey,
			Secret:    creds.ArchiveSecret,
		}),
		Tracker:     tracker,
		Credentials: creds,
		OutboxDir:   *outboxDir,
		ContentDir:  *contentDir,
		SourcesDir:  *sourcesDir,
	}

	if err := p.Run(context.Background(), topics, time.Duration(*since)*time.Hour); err != nil {
		logging.Fatal("run aborted", "error", err)
	}

	printUsageSummary(tracker)
}

func printUsageSummary(t *summary.Tracker) {
	fmt.Println(headingStyle.Render("Token usage"))
	fmt.Printf("  API calls:     %s\n",
		valueStyle.Render(fmt.Sprintf("%d (%d failed)", t.APICalls, t.FailedCalls)))
	fmt.Printf("  Input tokens:  %s\n",
		valueStyle.Render(fmt.Sprintf("~%d", t.TotalInputTokens)))
	fmt.Printf("  Output tokens: %s\n",
		valueStyle.Render(fmt.Sprintf("~%d", t.TotalOutputTokens)))
}
