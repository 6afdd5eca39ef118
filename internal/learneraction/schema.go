package learneraction

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const backendSchemaURL = "schema://learner-action.json"

// backendSchema describes the envelope of a backend learner action dict.
// Kind-specific argument checks happen in FromBackendDict.
var backendSchema = map[string]any{
	"type":     "object",
	"required": []any{"action_type", "action_customization_args", "schema_version"},
	"properties": map[string]any{
		"action_type": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"action_customization_args": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":     "object",
				"required": []any{"value"},
			},
		},
		"schema_version": map[string]any{
			"type":    "integer",
			"minimum": 1,
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ValidateBackendJSON checks raw JSON against the learner action schema.
func ValidateBackendJSON(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return validateValue(parsed)
}

func validateValue(v any) error {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(backendSchemaURL, backendSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(backendSchemaURL)
	})
	if compileErr != nil {
		return fmt.Errorf("compile learner action schema: %w", compileErr)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("learner action schema validation failed: %w", err)
	}
	return nil
}
