package summary

import "context"

// Backend is one summarization engine in the waterfall.
type Backend interface {
	// Name returns the backend name used for token accounting.
	Name() string

	// Available returns true if the backend is configured and ready.
	Available() bool

	// Summarize condenses text to roughly maxWords words.
	Summarize(ctx context.Context, text string, maxWords int) (string, error)
}

// maxInputWords bounds request cost: input is clipped before any network
// call regardless of which backend handles it.
const maxInputWords = 3000
