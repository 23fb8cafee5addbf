package consolidate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/normalize"
)

const multiPassStrategy = constants.StrategyMultiPass

// Consolidator dispatches the model-backed strategies over one extractor,
// so every pass in a run shares the provider and retry policy.
type Consolidator struct {
	ex  *llm.Extractor
	log *slog.Logger
}

func New(ex *llm.Extractor, log *slog.Logger) *Consolidator {
	if log == nil {
		log = slog.Default()
	}
	return &Consolidator{ex: ex, log: log}
}

// Extract runs the named model strategy. Light mode short-circuits every
// strategy to the degraded local path.
func (c *Consolidator) Extract(ctx context.Context, text, filename string, strategy constants.Strategy, light bool) (llm.Result, error) {
	c.log.Info("consolidate.start",
		"strategy", string(strategy),
		"light", light,
		"text_len", len(text),
	)

	if light {
		return c.ex.LightExtract(text, filename), nil
	}

	switch strategy {
	case constants.StrategyDirect:
		return c.ex.Extract(ctx, text, filename)

	case constants.StrategyHierarchical:
		rec := c.Hierarchical(ctx, text)
		rec = normalize.Record(rec)
		return llm.Result{
			Record:   rec,
			Provider: c.ex.Completer().Provider(),
			Strategy: string(constants.StrategyHierarchical),
			Attempts: 1,
		}, nil

	case constants.StrategySpecialized:
		res, err := c.Specialized(ctx, text, filename)
		if err != nil {
			return llm.Result{}, err
		}
		res.Strategy = string(constants.StrategySpecialized)
		return res, nil

	case constants.StrategyMultiPass:
		return c.MultiPass(ctx, text, filename)

	default:
		return llm.Result{}, fmt.Errorf("unknown model strategy %q", strategy)
	}
}
