package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chemtrack/sds-extractor/internal/llm/transport"
)

// Complete sends a single-turn chat completion and returns the reply text.
// response_format pins JSON output so recovery rarely has to dig.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, _, err := transport.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.openai.decode_error", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}

	c.log.Info("llm.openai.ok",
		"model", c.cfg.Model,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
