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

// HuggingFace summarizes via the hosted inference API for small seq2seq
// models.
type HuggingFace struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewHuggingFace creates a Hugging Face inference backend.
func NewHuggingFace(apiKey, model string) *HuggingFace {
	if model == "" {
		model = "google/flan-t5-small"
	}
	return &HuggingFace{
		apiKey:   apiKey,
		model:    model,
		endpoint: "https://api-inference.huggingface.co/models/",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HuggingFace) Name() string {
	return "huggingface"
}

func (h *HuggingFace) Available() bool {
	return h.apiKey != ""
}

func (h *HuggingFace) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if !h.Available() {
		return "", fmt.Errorf("huggingface backend not configured")
	}

	body := map[string]any{
		"inputs":  fmt.Sprintf("Summarize in about %d words: %s", maxWords, text),
		"options": map[string]any{"wait_for_model": true},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.endpoint+h.model, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
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

	return parseHFResponse(respBody)
}

// The inference API answers in a few shapes depending on the model family:
// a list of generated_text objects, a single summary_text object, or a bare
// string.
func parseHFResponse(body []byte) (string, error) {
	var asList []struct {
		GeneratedText string `json:"generated_text"`
		SummaryText   string `json:"summary_text"`
	}
	if err := json.Unmarshal(body, &asList); err == nil && len(asList) > 0 {
		if asList[0].GeneratedText != "" {
			return asList[0].GeneratedText, nil
		}
		if asList[0].SummaryText != "" {
			return asList[0].SummaryText, nil
		}
	}

	var asObject struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(body, &asObject); err == nil && asObject.SummaryText != "" {
		return asObject.SummaryText, nil
	}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil && asString != "" {
		return asString, nil
	}

	return "", fmt.Errorf("unrecognized response shape: %s", string(body))
}
