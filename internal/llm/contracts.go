// Package llm holds the model-provider abstraction: prompt construction,
// reply recovery, retry policy, and the provider-neutral Completer
// contract the extraction strategies depend on.
package llm

import (
	"context"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Completer is a single-turn chat completion. Implementations return the
// raw text of the model reply; JSON recovery happens in this package.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Provider() string
}

// Config selects and configures a provider. Provider choice is explicit
// configuration, never probed from the process environment at call time.
type Config struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	Temperature    float32
}

// Result is one model-extraction outcome with enough provenance for the
// pipeline to record how the data was obtained.
type Result struct {
	Record   sds.Record
	Provider string
	Strategy string
	Degraded bool
	Attempts int
}
