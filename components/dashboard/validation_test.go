package dashboard

import (
	"errors"
	"testing"
)

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(KindChart, map[string]any{"type": "Chart", "chartType": "line"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	err := validator.Validate(KindChart, map[string]any{"type": "Chart", "chartType": "radar"})
	if err == nil {
		t.Fatalf("expected validation error for unsupported chart type")
	}
	if !errors.Is(err, ErrMalformedConfig) {
		t.Fatalf("expected ErrMalformedConfig, got %v", err)
	}
}

func TestJSONSchemaValidatorRequiresColumnKeys(t *testing.T) {
	validator := NewJSONSchemaValidator()
	payload := map[string]any{
		"type":    "DataTable",
		"columns": []any{map[string]any{"header": "Name"}},
	}
	if err := validator.Validate(KindDataTable, payload); err == nil {
		t.Fatalf("expected validation error for column without key")
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(KindNotes, nil); err != nil {
		t.Fatalf("unexpected error validating config: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
	if err := validator.Validate(KindNotes, map[string]any{"content": "hello"}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to remain 1 entry, got %d", len(validator.compiled))
	}
}

func TestJSONSchemaValidatorSkipsUnknownKinds(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(WidgetKind("Gauge"), map[string]any{"anything": 1}); err != nil {
		t.Fatalf("expected unknown kinds to pass, got %v", err)
	}
}
