package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model completion must satisfy. Only the top-level shape is constrained
// strictly; specification values are permissive because the merger and the
// spec validator do the real filtering.
func BuildRecordJSONSchema() map[string]any {
	specValue := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"value":         map[string]any{"type": []any{"string", "number"}},
					"unit":          map[string]any{"type": "string"},
					"numeric_value": map[string]any{"type": "number"},
				},
			},
		},
	}
	titled := func(extra ...string) map[string]any {
		props := map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		}
		for _, k := range extra {
			props[k] = map[string]any{"type": "string"}
		}
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object", "properties": props},
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"basic_info": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string"},
					"code":        map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
					"base_price":  map[string]any{"type": "number", "minimum": 0.0},
					"description": map[string]any{"type": "string"},
				},
			},
			"specifications": map[string]any{
				"type":                 "object",
				"additionalProperties": specValue,
			},
			"features":              titled(),
			"application_scenarios": titled(),
			"accessories":           titled("name"),
			"certificates":          titled("name", "issuer"),
			"support_info": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contact_info": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"sales_email":   map[string]any{"type": "string"},
							"support_email": map[string]any{"type": "string"},
							"sales_phone":   map[string]any{"type": "string"},
							"support_phone": map[string]any{"type": "string"},
						},
					},
				},
			},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []any{"basic_info", "specifications"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
