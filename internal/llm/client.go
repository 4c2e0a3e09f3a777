// Package llm talks to an OpenAI-compatible chat completions endpoint to score the
// free-text notes of mood entries.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second

	// maxNotesChars caps the prompt size sent for one analysis
	maxNotesChars = 8000
	maxConcerns   = 5

	maxExplanationRunes = 500
)

// ErrUnavailable is returned when the endpoint cannot produce a usable analysis
var ErrUnavailable = errors.New("language analysis unavailable")

const systemPrompt = `You assess the emotional risk expressed in a person's private mood journal notes. ` +
	`Respond with JSON only (no markdown, no code fences): ` +
	`{"score": 0-100 where higher means more concerning language such as hopelessness or self-harm, ` +
	`"concerns": up to 5 short phrases naming what is concerning, ` +
	`"explanation": one or two sentences for the person, written with care}.`

// Config configures the client
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is an OpenAI-compatible chat completions client
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new client, filling defaults for empty config fields
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type analysisResult struct {
	Score       *float64 `json:"score"`
	Concerns    []string `json:"concerns"`
	Explanation string   `json:"explanation"`
}

// Analyze scores the given notes. No notes yields (nil, nil): there is nothing to analyze.
func (c *Client) Analyze(ctx context.Context, notes []string) (*models.LanguageSignal, error) {
	text := joinNotes(notes)
	if text == "" {
		return nil, nil
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := sonic.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	return parseAnalysis(chatResp.Choices[0].Message.Content)
}

// parseAnalysis decodes the model's JSON reply, tolerating a markdown code fence
func parseAnalysis(content string) (*models.LanguageSignal, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var result analysisResult
	if err := sonic.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}
	if result.Score == nil {
		return nil, fmt.Errorf("%w: reply has no score", ErrUnavailable)
	}

	score := *result.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	concerns := make([]string, 0, len(result.Concerns))
	for _, c := range result.Concerns {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		concerns = append(concerns, c)
		if len(concerns) == maxConcerns {
			break
		}
	}

	explanation := strings.TrimSpace(result.Explanation)
	if utf8.RuneCountInString(explanation) > maxExplanationRunes {
		explanation = string([]rune(explanation)[:maxExplanationRunes-3]) + "..."
	}

	return &models.LanguageSignal{
		Score:       score,
		Concerns:    concerns,
		Explanation: explanation,
	}, nil
}

// joinNotes drops blank notes and keeps the most recent text within maxNotesChars.
// Notes are expected oldest first.
func joinNotes(notes []string) string {
	kept := make([]string, 0, len(notes))
	size := 0
	for i := len(notes) - 1; i >= 0; i-- {
		n := strings.TrimSpace(notes[i])
		if n == "" {
			continue
		}
		if size+len(n) > maxNotesChars {
			break
		}
		size += len(n)
		kept = append(kept, n)
	}

	// restore chronological order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n---\n")
}

// NoopAnalyzer is used when no language endpoint is configured. It always reports the
// dimension as unavailable.
type NoopAnalyzer struct{}

// Analyze always returns (nil, nil)
func (NoopAnalyzer) Analyze(context.Context, []string) (*models.LanguageSignal, error) {
	return nil, nil
}
