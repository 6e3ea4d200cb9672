// Package llm is the boundary to the OpenAI text-completion oracle. The
// service treats it as a black box that returns text: either a single line in
// the transaction grammar (extraction) or a Telegram-flavored report
// (analysis). Two response envelope versions are in the wild, so decoding
// tolerates both.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoContent is returned when the oracle response carried no extractable
// text payload in any known envelope shape.
var ErrNoContent = errors.New("no text content in llm response")

// Config holds the oracle connection settings
type Config struct {
	APIKey       string
	BaseURL      string
	ExtractModel string
	AnalyzeModel string
}

// Client calls the OpenAI HTTP API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new Client
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Enabled reports whether an API key is configured. Handlers refuse AI
// endpoints when it is not.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// ExtractTransaction asks the oracle to reduce a bank SMS or similar free
// text to a single line matching the transaction grammar
// ("Amount CurrencyCode Name" or "Amount Name").
func (c *Client) ExtractTransaction(ctx context.Context, message string) (string, error) {
	body := map[string]any{
		"model": c.cfg.ExtractModel,
		"messages": []map[string]any{
			{"role": "system", "content": extractSystemPrompt},
			{"role": "user", "content": BuildExtractPrompt(message)},
		},
		"temperature": 0.3,
		"max_tokens":  100,
	}

	raw, err := c.post(ctx, c.endpoint("/chat/completions"), body)
	if err != nil {
		return "", err
	}
	return DecodeText(raw)
}

// Analyze sends a fully built analysis prompt through the responses endpoint
// and returns the generated report.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": c.cfg.AnalyzeModel,
		"input": prompt,
	}

	raw, err := c.post(ctx, c.endpoint("/responses"), body)
	if err != nil {
		return "", err
	}
	return DecodeText(raw)
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("openai response body close error")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, errorMessage(raw))
	}
	return raw, nil
}

// errorMessage pulls error.message out of an OpenAI error body, falling back
// to a truncated raw dump.
func errorMessage(raw []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	s := string(raw)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// DecodeText extracts the text payload from either known response envelope:
// chat/completions (choices[0].message.content) or the responses API
// (output[].content[] with type "output_text").
func DecodeText(raw []byte) (string, error) {
	var chat struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &chat); err == nil && len(chat.Choices) > 0 {
		if text := strings.TrimSpace(chat.Choices[0].Message.Content); text != "" {
			return text, nil
		}
	}

	var responses struct {
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &responses); err == nil {
		for _, out := range responses.Output {
			for _, content := range out.Content {
				if content.Type == "output_text" {
					if text := strings.TrimSpace(content.Text); text != "" {
						return text, nil
					}
				}
			}
		}
	}

	return "", ErrNoContent
}
