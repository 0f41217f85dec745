// Package audio turns segment text into MP3 clips and splices clips into
// episodes.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// translate_tts accepts short utterances only; longer text is synthesized
// chunk by chunk and the MP3 payloads appended.
const maxUtteranceChars = 200

// Speech synthesizes text into MP3 files via the Google Translate TTS
// endpoint.
type Speech struct {
	httpClient *http.Client
	endpoint   string
	language   string
	userAgent  string
}

// NewSpeech creates an English speech synthesizer.
func NewSpeech() *Speech {
	return &Speech{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   "https://translate.google.com/translate_tts",
		language:   "en",
		userAgent:  "Mozilla/5.0 (compatible; newsreel/1.0)",
	}
}

// Synthesize writes spoken audio for text to outPath as MP3.
func (s *Speech) Synthesize(ctx context.Context, text, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to synthesize")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create clip directory: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create clip file: %w", err)
	}
	defer out.Close()

	for _, chunk := range chunkText(text, maxUtteranceChars) {
		if err := s.fetchChunk(ctx, chunk, out); err != nil {
			os.Remove(outPath)
			return err
		}
	}

	return nil
}

func (s *Speech) fetchChunk(ctx context.Context, chunk string, out io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", s.language)
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, "GET", s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts error (status %d)", resp.StatusCode)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write clip: %w", err)
	}
	return nil
}

// chunkText splits text into pieces of at most maxChars, breaking on word
// boundaries. A single word longer than maxChars becomes its own chunk.
func chunkText(text string, maxChars int) []string {
	words := strings.Fields(text)

	var chunks []string
	var current strings.Builder
	for _, w := range words {
		if current.Len() > 0 && current.Len()+1+len(w) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
