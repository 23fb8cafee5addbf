package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// BuildRecordJSONSchema returns the JSON-Schema for a model reply: every
// canonical field is a string key, extra keys are tolerated because models
// often echo the source filename or hazard statements alongside.
func BuildRecordJSONSchema() map[string]any {
	props := make(map[string]any, len(sds.Fields))
	for _, field := range sds.Fields {
		props[field] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		raw, err := json.Marshal(BuildRecordJSONSchema())
		if err != nil {
			recordSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.schema.json", bytes.NewReader(raw)); err != nil {
			recordSchemaErr = err
			return
		}
		recordSchema, recordSchemaErr = compiler.Compile("record.schema.json")
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecordJSON checks a decoded model reply against the record
// schema. Validation is advisory: callers log failures and coerce values
// instead of rejecting the reply outright.
func ValidateRecordJSON(doc map[string]any) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("record schema: %w", err)
	}
	return nil
}
