// Package extractfields is the end-to-end run for one document: strategy
// dispatch, step-down on failure, persistence, and audit history.
package extractfields

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/consolidate"
	"github.com/chemtrack/sds-extractor/internal/extract"
	"github.com/chemtrack/sds-extractor/internal/repository"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Pipeline wires the local orchestrator, the model consolidator, and the
// repositories. Consolidator may be nil when no provider is configured;
// model strategies then step straight down to the local path.
type Pipeline struct {
	orch         *extract.Orchestrator
	consolidator *consolidate.Consolidator
	register     *repository.RegisterRepository
	history      *repository.HistoryRepository
	log          *slog.Logger
}

// Options select how one document is processed.
type Options struct {
	Strategy  constants.Strategy
	LightMode bool
	Persist   bool
}

// Outcome reports what a run produced and how.
type Outcome struct {
	Record     sds.Record
	Method     string
	Provider   string
	Degraded   bool
	Attempts   int
	RegisterID int64
}

func New(
	orch *extract.Orchestrator,
	consolidator *consolidate.Consolidator,
	register *repository.RegisterRepository,
	history *repository.HistoryRepository,
	log *slog.Logger,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		orch:         orch,
		consolidator: consolidator,
		register:     register,
		history:      history,
		log:          log,
	}
}

// ProcessText extracts a canonical record from one document's text. The
// step-down chain guarantees a record comes back: a failed model strategy
// degrades to single-shot model extraction, then to the local extractors,
// and finally to an empty canonical record. Extraction never errors; only
// persistence can.
func (p *Pipeline) ProcessText(ctx context.Context, text, filename string, opts Options) (Outcome, error) {
	runID := uuid.New().String()
	start := time.Now()

	p.log.Info("pipeline.run.start",
		"run_id", runID,
		"file", filename,
		"strategy", string(opts.Strategy),
		"light", opts.LightMode,
		"text_len", len(text),
	)

	out := p.extract(ctx, runID, text, filename, opts)

	if opts.Persist && p.register != nil {
		id, err := p.register.Insert(ctx, out.Record, filename)
		if err != nil {
			p.recordHistory(ctx, filename, out, false)
			return out, err
		}
		out.RegisterID = id
	}
	p.recordHistory(ctx, filename, out, true)

	p.log.Info("pipeline.run.done",
		"run_id", runID,
		"file", filename,
		"method", out.Method,
		"degraded", out.Degraded,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Pipeline) extract(ctx context.Context, runID, text, filename string, opts Options) Outcome {
	strategy := opts.Strategy

	if strategy.IsLocal() {
		return p.extractLocal(runID, text, strategy)
	}

	if p.consolidator != nil {
		res, err := p.consolidator.Extract(ctx, text, filename, strategy, opts.LightMode)
		if err == nil {
			return Outcome{
				Record:   res.Record,
				Method:   res.Strategy,
				Provider: res.Provider,
				Degraded: res.Degraded,
				Attempts: res.Attempts,
			}
		}
		p.log.Warn("pipeline.step_down.model_failed",
			"run_id", runID, "strategy", string(strategy), "error", err)

		// Multi-call strategies step down to the single-shot call before
		// giving up on the model entirely.
		if strategy != constants.StrategyDirect {
			res, err = p.consolidator.Extract(ctx, text, filename, constants.StrategyDirect, opts.LightMode)
			if err == nil {
				return Outcome{
					Record:   res.Record,
					Method:   res.Strategy,
					Provider: res.Provider,
					Degraded: true,
					Attempts: res.Attempts,
				}
			}
			p.log.Warn("pipeline.step_down.direct_failed", "run_id", runID, "error", err)
		}
	} else {
		p.log.Warn("pipeline.step_down.no_provider", "run_id", runID, "strategy", string(strategy))
	}

	out := p.extractLocal(runID, text, constants.StrategyAutomatic)
	out.Degraded = true
	return out
}

func (p *Pipeline) extractLocal(runID, text string, strategy constants.Strategy) Outcome {
	rec, err := p.orch.Extract(text, strategy)
	if err != nil {
		// Unknown strategy cannot happen through config validation; an
		// empty canonical record is the terminal step-down.
		p.log.Error("pipeline.step_down.local_failed", "run_id", runID, "error", err)
		empty := sds.NewRecord()
		return Outcome{Record: empty, Method: string(constants.StrategyAutomatic), Degraded: true}
	}
	return Outcome{Record: rec, Method: string(strategy)}
}

func (p *Pipeline) recordHistory(ctx context.Context, filename string, out Outcome, success bool) {
	if p.history == nil {
		return
	}
	fields := make(map[string]bool, len(sds.Fields))
	for _, f := range sds.Fields {
		fields[f] = out.Record[f] != ""
	}
	additional := map[string]string{}
	if out.Provider != "" {
		additional["provider"] = out.Provider
	}
	if out.Degraded {
		additional["degraded"] = "true"
	}
	err := p.history.Add(ctx, repository.HistoryEntry{
		Filename:   filename,
		Method:     out.Method,
		Success:    success,
		Fields:     fields,
		Additional: additional,
	})
	if err != nil {
		p.log.Warn("pipeline.history_failed", "file", filename, "error", err)
	}
}
