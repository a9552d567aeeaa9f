// Package llm validates and converts generative-model output into
// payslip records.
package llm

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaJSON = `{
  "type": "object",
  "properties": {
    "mes_ano": {"type": ["string", "null"]},
    "proventos": {
      "type": ["object", "null"],
      "additionalProperties": {"type": ["number", "null"]}
    },
    "base_fgts": {"type": ["number", "null"]}
  },
  "required": ["mes_ano", "proventos", "base_fgts"]
}`

var recordSchema = jsonschema.MustCompileString("payslip-record.json", recordSchemaJSON)

// ValidateRecordJSON checks model output against the record schema.
func ValidateRecordJSON(doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := recordSchema.Validate(v); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
