package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates a decoded configuration object against the schema
// registered for its widget kind.
type ConfigValidator interface {
	Validate(kind WidgetKind, payload map[string]any) error
}

// JSONSchemaValidator compiles per-kind schemas once and validates payloads.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	schemas  map[WidgetKind]map[string]any
	compiled map[WidgetKind]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5 and the
// built-in widget schemas.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		schemas:  ConfigSchemas(),
		compiled: make(map[WidgetKind]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the kind's schema. Kinds without a
// schema are accepted as-is.
func (v *JSONSchemaValidator) Validate(kind WidgetKind, payload map[string]any) error {
	schema, err := v.schemaFor(kind)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s failed validation: %v", ErrMalformedConfig, kind, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(kind WidgetKind) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[kind]
	raw, known := v.schemas[kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	if !known {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(kind) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", kind, err)
	}
	v.mu.Lock()
	v.compiled[kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// ConfigSchemas returns the JSON schema for each widget kind.
func ConfigSchemas() map[WidgetKind]map[string]any {
	str := map[string]any{"type": "string"}
	return map[WidgetKind]map[string]any{
		KindKPI: {
			"type": "object",
			"properties": map[string]any{
				"type":        map[string]any{"const": string(KindKPI)},
				"title":       str,
				"metricValue": map[string]any{"type": []string{"number", "string", "null"}},
				"value":       map[string]any{"type": []string{"number", "null"}},
				"metricLabel": str,
				"prefix":      str,
				"suffix":      str,
				"dataUrl":     str,
			},
		},
		KindNotes: {
			"type": "object",
			"properties": map[string]any{
				"type":    map[string]any{"const": string(KindNotes)},
				"title":   str,
				"content": str,
			},
		},
		KindChart: {
			"type": "object",
			"properties": map[string]any{
				"type":  map[string]any{"const": string(KindChart)},
				"title": str,
				"chartType": map[string]any{
					"type": "string",
					"enum": []string{string(ChartLine), string(ChartBar), string(ChartPie), string(ChartArea)},
				},
				"dataUrl": str,
			},
		},
		KindDataTable: {
			"type": "object",
			"properties": map[string]any{
				"type":    map[string]any{"const": string(KindDataTable)},
				"title":   str,
				"dataUrl": str,
				"columns": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"key", "header"},
						"properties": map[string]any{
							"key":    str,
							"header": str,
						},
					},
				},
			},
		},
	}
}
