package llm

import (
	"log/slog"

	"github.com/chemtrack/sds-extractor/internal/llm/anthropic"
	"github.com/chemtrack/sds-extractor/internal/llm/openai"
)

// NewCompleter builds the provider client from config. OpenAI wins when
// both keys are set; Anthropic is the fallback. Selection happens once,
// here, so every strategy in a run talks to the same provider.
func NewCompleter(cfg Config, log *slog.Logger) (Completer, error) {
	if log == nil {
		log = slog.Default()
	}
	switch {
	case cfg.OpenAIKey != "":
		log.Info("llm.provider.selected", "provider", "openai", "model", cfg.OpenAIModel)
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIKey,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
		}, log), nil
	case cfg.AnthropicKey != "":
		log.Info("llm.provider.selected", "provider", "anthropic", "model", cfg.AnthropicModel)
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicKey,
			Model:       cfg.AnthropicModel,
			Temperature: cfg.Temperature,
		}, log), nil
	default:
		return nil, ErrNoProvider
	}
}
