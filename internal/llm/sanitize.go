package llm

import (
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// extraKeys are non-canonical keys a model reply may legitimately carry;
// they are preserved rather than dropped.
var extraKeys = []string{
	sds.FieldHazardStatement,
	sds.FieldPrecautionary,
	sds.FieldSourceFile,
}

// RecordFromJSON coerces a decoded model reply into a flat record: lists
// join with "; ", nested objects render as "Key: value" pairs, and every
// canonical field is guaranteed present. Unknown keys are discarded.
func RecordFromJSON(doc map[string]any) sds.Record {
	rec := sds.NewRecord()
	for _, field := range sds.Fields {
		if v, ok := doc[field]; ok {
			rec[field] = normalize.FlattenValue(v)
		}
	}
	for _, key := range extraKeys {
		if v, ok := doc[key]; ok {
			rec[key] = normalize.FlattenValue(v)
		}
	}
	return rec
}
