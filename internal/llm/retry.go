package llm

import (
	"context"
	"log/slog"
	"time"
)

// BackoffPolicy is the retry schedule for a throttle-prone provider.
// Rate-limit hits back off linearly (Step x attempt number); other
// transient failures wait a short fixed delay. InitialDelay runs before
// the first attempt as a pre-emptive pause.
type BackoffPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	RateLimitStep time.Duration
	TransientWait time.Duration
}

// DefaultBackoff mirrors the production schedule for the Anthropic API.
var DefaultBackoff = BackoffPolicy{
	MaxAttempts:   10,
	InitialDelay:  3 * time.Second,
	RateLimitStep: 10 * time.Second,
	TransientWait: 2 * time.Second,
}

// Do runs call under the policy and reports how many attempts were made.
// Every wait honors ctx cancellation. The returned error on exhaustion is
// a CallError carrying the attempt count and the classification of the
// last failure.
func (p BackoffPolicy) Do(ctx context.Context, log *slog.Logger, call func(ctx context.Context) (string, error)) (string, int, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := sleepCtx(ctx, p.InitialDelay); err != nil {
		return "", 0, err
	}

	var lastErr error
	lastKind := KindTransient
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		log.Info("llm.call.attempt", "attempt", attempt, "max_attempts", p.MaxAttempts)

		out, err := call(ctx)
		if err == nil {
			return out, attempt, nil
		}
		if ctx.Err() != nil {
			return "", attempt, ctx.Err()
		}

		lastErr = err
		lastKind = KindTransient
		var wait time.Duration
		if rateLimitSignal(err.Error()) {
			lastKind = KindRateLimited
			wait = p.RateLimitStep * time.Duration(attempt)
			log.Warn("llm.call.rate_limited", "attempt", attempt, "wait", wait.String(), "error", err)
		} else {
			wait = p.TransientWait
			log.Warn("llm.call.error", "attempt", attempt, "wait", wait.String(), "error", err)
		}

		if attempt == p.MaxAttempts {
			break
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return "", attempt, err
		}
	}

	log.Error("llm.call.exhausted", "attempts", p.MaxAttempts, "error", lastErr)
	return "", p.MaxAttempts, &CallError{Kind: lastKind, Attempts: p.MaxAttempts, Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
