package summary

import (
	"context"
	"strings"

	"github.com/abelbrown/newsreel/internal/logging"
)

// Waterfall tries its backends in order and falls back to a deterministic
// local truncation that cannot fail. Construct one per run.
type Waterfall struct {
	backends []Backend
	tracker  *Tracker
}

// NewWaterfall creates a summarizer over the given backends, tried in the
// order supplied.
func NewWaterfall(tracker *Tracker, backends ...Backend) *Waterfall {
	return &Waterfall{backends: backends, tracker: tracker}
}

// Summarize returns a bounded-length summary of text. Unconfigured backends
// are skipped; a failing backend is recorded and the next one is tried; the
// naive fallback always produces a result. Never returns an error.
func (w *Waterfall) Summarize(ctx context.Context, text string, maxWords int) string {
	text = TruncateWords(text, maxInputWords)

	for _, b := range w.backends {
		if !b.Available() {
			continue
		}
		out, err := b.Summarize(ctx, text, maxWords)
		if err != nil {
			w.tracker.RecordCall(text, "", b.Name(), false)
			logging.Warn("summarizer backend failed", "backend", b.Name(), "error", err)
			continue
		}
		w.tracker.RecordCall(text, out, b.Name(), true)
		return out
	}

	out := NaiveSummary(text)
	w.tracker.RecordCall(text, out, "naive", true)
	return out
}

// NaiveSummary returns the first three '.'-separated sentences of text. The
// trailing period is restored whenever the split produced at least three
// parts, mirroring the truncation check rather than a grammatical one.
func NaiveSummary(text string) string {
	const sentences = 3
	parts := strings.Split(text, ".")

	n := sentences
	if len(parts) < n {
		n = len(parts)
	}
	out := strings.TrimSpace(strings.Join(parts[:n], "."))
	if len(parts) >= sentences {
		out += "."
	}
	return out
}

// TruncateWords clips text to at most n whitespace-separated words.
func TruncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}
