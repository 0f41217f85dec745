package summary

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// BackendUsage is the per-backend slice of the accumulator.
type BackendUsage struct {
	InputTokens  int
	OutputTokens int
	Calls        int
}

// Tracker accumulates estimated token usage across one run. It is built
// fresh per run and handed to whoever needs it; nothing here is global.
// The pipeline is single-threaded, so access is unsynchronized.
type Tracker struct {
	TotalInputTokens  int
	TotalOutputTokens int
	APICalls          int
	FailedCalls       int
	byBackend         map[string]*BackendUsage
}

// NewTracker creates an empty usage tracker.
func NewTracker() *Tracker {
	return &Tracker{byBackend: make(map[string]*BackendUsage)}
}

// EstimateTokens approximates token count as words x 0.75, which is close
// enough for English prose and a cost ceiling for anything else.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 0.75)
}

// RecordCall records one summarization attempt, successful or not.
func (t *Tracker) RecordCall(inputText, outputText, backend string, success bool) {
	in := EstimateTokens(inputText)
	out := 0
	if outputText != "" {
		out = EstimateTokens(outputText)
	}

	t.TotalInputTokens += in
	t.TotalOutputTokens += out
	t.APICalls++
	if !success {
		t.FailedCalls++
	}

	u, ok := t.byBackend[backend]
	if !ok {
		u = &BackendUsage{}
		t.byBackend[backend] = u
	}
	u.InputTokens += in
	u.OutputTokens += out
	u.Calls++
}

// Usage returns the per-backend breakdown.
func (t *Tracker) Usage(backend string) (BackendUsage, bool) {
	u, ok := t.byBackend[backend]
	if !ok {
		return BackendUsage{}, false
	}
	return *u, true
}

// Report renders the accumulated usage as text.
func (t *Tracker) Report() string {
	total := t.TotalInputTokens + t.TotalOutputTokens
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Token Usage Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total API Calls: %d\n", t.APICalls)
	fmt.Fprintf(&b, "Failed Calls: %d\n", t.FailedCalls)
	fmt.Fprintf(&b, "Total Input Tokens: %d\n", t.TotalInputTokens)
	fmt.Fprintf(&b, "Total Output Tokens: %d\n", t.TotalOutputTokens)
	fmt.Fprintf(&b, "Total Tokens: %d\n\n", total)

	if len(t.byBackend) > 0 {
		fmt.Fprintln(&b, "Usage by Backend:")
		names := make([]string, 0, len(t.byBackend))
		for name := range t.byBackend {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			u := t.byBackend[name]
			fmt.Fprintf(&b, "  %s:\n", name)
			fmt.Fprintf(&b, "    Calls: %d\n", u.Calls)
			fmt.Fprintf(&b, "    Input Tokens: %d\n", u.InputTokens)
			fmt.Fprintf(&b, "    Output Tokens: %d\n", u.OutputTokens)
			fmt.Fprintf(&b, "    Total Tokens: %d\n", u.InputTokens+u.OutputTokens)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "Estimated Costs (approximate):")
	fmt.Fprintln(&b, "  Hugging Face Inference API: FREE (with rate limits)")
	fmt.Fprintf(&b, "  OpenAI GPT-3.5-Turbo: ~$%.4f\n", float64(total)/1000*0.002)
	fmt.Fprintln(&b, "    (assuming $0.002 per 1K tokens average)")
	fmt.Fprintln(&b, rule)

	return b.String()
}

// SaveReport writes the usage report to path, prefixed with a timestamp.
func (t *Tracker) SaveReport(path string) error {
	header := fmt.Sprintf("Token Usage Report - %s\n", time.Now().UTC().Format(time.RFC3339))
	return os.WriteFile(path, []byte(header+t.Report()), 0644)
}
