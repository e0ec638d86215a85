package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const summarySystemPrompt = `You summarize meeting transcripts. Reply with a single JSON object and nothing else, using exactly these keys:
{"title": string, "date": "YYYY-MM-DD", "summary": string, "decisions": [string], "actionItems": [{"owner": string, "task": string}], "openQuestions": [string], "keyPoints": [string]}`

const repairSystemPrompt = `The following text was supposed to be a single JSON object but is malformed or wrapped in prose. Reply with the corrected JSON object and nothing else. Do not add fields or commentary.`

// HTTPSummarizer calls an Anthropic-style messages API for summarization and
// JSON repair.
type HTTPSummarizer struct {
	BaseURL string // e.g. https://api.anthropic.com
	APIKey  string
	Model   string
	Client  *http.Client // optional; a 5-minute-timeout client is used when nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, timeline, meetingDate string) (string, error) {
	prompt := fmt.Sprintf("Meeting date: %s\n\nTimeline:\n%s", meetingDate, timeline)
	return s.complete(ctx, summarySystemPrompt, prompt)
}

// RepairJSON makes the single repair attempt over the original raw model
// output. The pipeline never calls this more than once per run.
func (s *HTTPSummarizer) RepairJSON(ctx context.Context, raw string) (string, error) {
	return s.complete(ctx, repairSystemPrompt, raw)
}

func (s *HTTPSummarizer) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := messagesRequest{
		Model:     s.Model,
		MaxTokens: 4096,
		System:    system,
		Messages:  []message{{Role: "user", Content: user}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling summarization API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarization API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp messagesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parsing API response: %w", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from summarization API")
	}
	return text, nil
}
