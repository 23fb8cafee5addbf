package llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoProvider means no API key was configured for any provider.
	ErrNoProvider = errors.New("no model provider configured")

	// ErrParseFailed means the model reply contained no recoverable JSON.
	ErrParseFailed = errors.New("failed to parse model response")
)

// Failure kinds drive the retry policy.
const (
	KindTransient   = "transient"
	KindRateLimited = "rate_limited"
	KindFatal       = "fatal"
)

// CallError wraps a provider failure with its classification and how many
// attempts were made before giving up.
type CallError struct {
	Kind     string
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("model call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err carries a rate-limit signal, either as
// a classified CallError or as raw provider text.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var ce *CallError
	if errors.As(err, &ce) && ce.Kind == KindRateLimited {
		return true
	}
	return rateLimitSignal(err.Error())
}

// rateLimitSignal matches the provider wordings that indicate throttling.
func rateLimitSignal(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "429") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "rate limit")
}
