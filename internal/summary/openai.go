package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAI summarizes via the chat completions endpoint.
type OpenAI struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenAI creates an OpenAI chat-completion backend.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAI{
		apiKey:   apiKey,
		model:    model,
		endpoint: "https://api.openai.com/v1/chat/completions",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Available() bool {
	return o.apiKey != ""
}

func (o *OpenAI) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if !o.Available() {
		return "", fmt.Errorf("openai backend not configured")
	}

	body := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a concise summarizer."},
			{"role": "user", "content": fmt.Sprintf("Summarize the following article in about %d words:\n\n%s", maxWords, text)},
		},
		"max_tokens":  300,
		"temperature": 0.2,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	return result.Choices[0].Message.Content, nil
}
