package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chemtrack/sds-extractor/internal/llm/transport"
)

const apiVersion = "2023-06-01"

// Complete sends a single-turn message and returns the concatenated text
// blocks of the reply. Throttle handling lives in the caller's retry
// policy; this method makes exactly one request.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()

	body := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"system":      system,
		"messages": []map[string]any{
			{"role": "user", "content": user},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/messages"
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	raw, _, err := transport.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var msg struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.log.Error("llm.anthropic.decode_error", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty content in anthropic response")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	c.log.Info("llm.anthropic.ok",
		"model", c.cfg.Model,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(b.String()), nil
}
