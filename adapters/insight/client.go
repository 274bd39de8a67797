package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sheetlens/internal/config"
	"sheetlens/ports"
)

// OpenAIClient implements ports.InsightGenerator against an OpenAI-style
// chat completions endpoint. The context deadline bounds the request; any
// failure is reported to the caller, which substitutes the local fallback.
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewOpenAIClient creates a client from config
func NewOpenAIClient(cfg config.InsightConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}, nil
}

// Generate sends the serialized analysis summary and returns the model's
// free-text insights.
func (c *OpenAIClient) Generate(ctx context.Context, req ports.InsightRequest) (string, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: c.Model,
		Messages: []msg{
			{Role: "system", Content: "You are a data analyst. Summarize the dataset analysis below as short, concrete markdown bullet points."},
			{Role: "user", Content: prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("insight request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("insight http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("insight response missing choices")
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("insight response empty")
	}
	return content, nil
}

// buildPrompt serializes the engine output subset as the request payload
func buildPrompt(req ports.InsightRequest) (string, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Dataset analysis summary:\n\n```json\n%s\n```\n\nWrite 3-6 insight bullet points about data quality, notable distributions, and strong correlations.", payload), nil
}

// MockGenerator is an InsightGenerator for tests
type MockGenerator struct {
	Response string
	Err      error
}

func (m *MockGenerator) Generate(ctx context.Context, req ports.InsightRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
