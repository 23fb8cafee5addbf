package consolidate

import (
	"context"

	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Hierarchical runs the section-by-section strategy: a structure hint on
// the document head, then identification, hazard, first-aid, firefighting,
// and physical-property passes folded into one record. The structure hint
// is advisory; a failed hint changes nothing downstream.
func (c *Consolidator) Hierarchical(ctx context.Context, text string) sds.Record {
	if hint := c.pass(ctx, "structure", structureSystem, structurePrompt+"\n\n", head(text, structureWindow)); hint != nil {
		c.log.Info("consolidate.structure_hint", "sections", len(hint))
	}

	rec := sds.NewRecord()

	if id := c.identityPass(ctx, text); id != nil {
		for _, field := range []string{
			sds.FieldProductName,
			sds.FieldCASNumber,
			sds.FieldChemicalID,
			sds.FieldSupplier,
		} {
			if v, ok := id[field]; ok {
				rec[field] = normalize.FlattenValue(v)
			}
		}
	}

	if hz := c.hazardPass(ctx, text); hz != nil {
		if v, ok := hz["GHS Classification"]; ok {
			rec[sds.FieldHealthHazards] = normalize.FlattenValue(v)
		}
		if v, ok := hz["Hazard Statements"]; ok {
			rec[sds.FieldHazardStatement] = normalize.FlattenValue(v)
		}
	}

	if fa := c.firstAidPass(ctx, text); fa != nil {
		rec[sds.FieldFirstAid] = flattenPairs(fa)
	}
	if ff := c.firefightingPass(ctx, text); ff != nil {
		rec[sds.FieldFirefighting] = flattenPairs(ff)
	}

	if props := c.propertiesPass(ctx, text); props != nil {
		applyProperties(rec, props)
	}

	return rec
}

// propertyFields maps pass keys onto canonical fields; the remaining
// property keys (pH, density, solubility) have no register column.
var propertyFields = []string{
	sds.FieldAppearance,
	sds.FieldColour,
	sds.FieldOdour,
	sds.FieldFlashPoint,
}

// applyProperties fills empty record fields from the physical-properties
// pass, never replacing a value an earlier pass produced.
func applyProperties(rec sds.Record, props map[string]any) {
	for _, field := range propertyFields {
		if rec[field] != "" {
			continue
		}
		if v, ok := props[field]; ok {
			rec[field] = normalize.FlattenValue(v)
		}
	}
}

// Specialized is direct extraction upgraded with the first-aid and
// firefighting passes replacing the single-shot values.
func (c *Consolidator) Specialized(ctx context.Context, text, filename string) (llm.Result, error) {
	res, err := c.ex.Extract(ctx, text, filename)
	if err != nil {
		return llm.Result{}, err
	}

	if fa := c.firstAidPass(ctx, text); fa != nil {
		if v := flattenPairs(fa); v != "" {
			res.Record[sds.FieldFirstAid] = normalize.Value(v)
		}
	}
	if ff := c.firefightingPass(ctx, text); ff != nil {
		if v := flattenPairs(ff); v != "" {
			res.Record[sds.FieldFirefighting] = normalize.Value(v)
		}
	}
	return res, nil
}
