package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/extract"
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Extractor is the direct model-extraction strategy. A throttled run
// degrades to the local pattern extractor exactly once instead of
// erroring out.
type Extractor struct {
	completer Completer
	policy    BackoffPolicy
	overrides []extract.Override
	log       *slog.Logger
}

func NewExtractor(completer Completer, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		completer: completer,
		policy:    DefaultBackoff,
		overrides: extract.DefaultOverrides,
		log:       log,
	}
}

func (e *Extractor) Completer() Completer { return e.completer }

// WithPolicy replaces the retry schedule. Tests shrink the waits.
func (e *Extractor) WithPolicy(p BackoffPolicy) *Extractor {
	e.policy = p
	return e
}

// Complete runs one completion under the provider's policy. The Anthropic
// API throttles aggressively, so its calls go through the backoff
// schedule; OpenAI calls are made once.
func (e *Extractor) Complete(ctx context.Context, system, user string) (string, int, error) {
	if e.completer.Provider() == "anthropic" {
		return e.policy.Do(ctx, e.log, func(ctx context.Context) (string, error) {
			return e.completer.Complete(ctx, system, user)
		})
	}
	reply, err := e.completer.Complete(ctx, system, user)
	return reply, 1, err
}

// Extract runs the full-document extraction and post-processes the reply
// into a normalized record. A rate-limited call falls back to LightExtract
// once; any other failure surfaces to the caller for step-down handling.
func (e *Extractor) Extract(ctx context.Context, text, filename string) (Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.log.Info("llm.extract.start",
		"req_id", rid,
		"provider", e.completer.Provider(),
		"text_len", len(text),
		"file", filename,
	)

	prompt := BuildExtractionPrompt(text, filename)
	reply, attempts, err := e.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		if IsRateLimited(err) {
			e.log.Warn("llm.extract.rate_limited_fallback",
				"req_id", rid, "attempts", attempts, "error", err)
			res := e.LightExtract(text, filename)
			res.Attempts = attempts
			return res, nil
		}
		e.log.Error("llm.extract.failed",
			"req_id", rid, "attempts", attempts, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}

	doc, err := DecodeModelJSON(reply)
	if err != nil {
		e.log.Error("llm.extract.parse_failed",
			"req_id", rid, "reply_len", len(reply),
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}
	if verr := ValidateRecordJSON(doc); verr != nil {
		e.log.Warn("llm.extract.schema_mismatch", "req_id", rid, "error", verr)
	}

	rec := RecordFromJSON(doc)
	extract.ApplyOverrides(text, rec, e.overrides)
	rec = normalize.Record(rec)

	e.log.Info("llm.extract.ok",
		"req_id", rid,
		"provider", e.completer.Provider(),
		"attempts", attempts,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		Record:   rec,
		Provider: e.completer.Provider(),
		Strategy: string(constants.StrategyDirect),
		Attempts: attempts,
	}, nil
}

// LightExtract is the no-network degradation path: the pattern extractor
// produces the record and the result is tagged with its source file.
func (e *Extractor) LightExtract(text, filename string) Result {
	e.log.Info("llm.extract.light_mode", "file", filename)
	rec := extract.ExtractPatternBased(text, e.overrides)
	rec = normalize.Record(rec)
	if filename != "" {
		rec[sds.FieldSourceFile] = filename
	}
	return Result{
		Record:   rec,
		Provider: e.completer.Provider(),
		Strategy: string(constants.StrategyPattern),
		Degraded: true,
		Attempts: 1,
	}
}
