package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// minUsableLen is the merge threshold: a candidate value shorter than this
// after trimming is treated as noise and loses to the other strategy.
const minUsableLen = 3

// Orchestrator runs the local extraction strategies and merges their
// output. It holds no per-document state and is safe for concurrent use.
type Orchestrator struct {
	Overrides []Override
	Log       *slog.Logger
}

func New(log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		Overrides: DefaultOverrides,
		Log:       log,
	}
}

// Extract produces a normalized record using the requested local strategy.
// Automatic runs both extractors and keeps, per field, the pattern value
// when it is usable, else the section value when usable, else empty.
func (o *Orchestrator) Extract(text string, strategy constants.Strategy) (sds.Record, error) {
	o.Log.Info("extract.local.start",
		slog.String("strategy", string(strategy)),
		slog.Int("text_len", len(text)),
	)

	var rec sds.Record
	switch strategy {
	case constants.StrategyPattern:
		rec = ExtractPatternBased(text, o.Overrides)
	case constants.StrategySection:
		rec = ExtractSectionBased(text)
		ApplyOverrides(text, rec, o.Overrides)
	case constants.StrategyAutomatic:
		pattern := ExtractPatternBased(text, o.Overrides)
		section := ExtractSectionBased(text)
		rec = mergeAutomatic(pattern, section)
		ApplyOverrides(text, rec, o.Overrides)
	default:
		return nil, fmt.Errorf("unknown local strategy %q", strategy)
	}

	rec = normalize.Record(rec)
	o.Log.Info("extract.local.done",
		slog.String("strategy", string(strategy)),
		slog.Int("fields_filled", filledCount(rec)),
	)
	return rec, nil
}

func mergeAutomatic(pattern, section sds.Record) sds.Record {
	merged := sds.NewRecord()
	for _, field := range sds.Fields {
		pv := strings.TrimSpace(pattern[field])
		sv := strings.TrimSpace(section[field])
		switch {
		case len(pv) > minUsableLen:
			merged[field] = pv
		case len(sv) > minUsableLen:
			merged[field] = sv
		}
	}
	// Aggregates only the pattern extractor produces.
	merged[sds.FieldHazardStatement] = pattern[sds.FieldHazardStatement]
	merged[sds.FieldPrecautionary] = pattern[sds.FieldPrecautionary]
	return merged
}

func filledCount(rec sds.Record) int {
	n := 0
	for _, field := range sds.Fields {
		if rec[field] != "" {
			n++
		}
	}
	return n
}
