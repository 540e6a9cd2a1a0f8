package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var defaultValidator ConfigValidator = NewJSONSchemaValidator()

// DecodeConfig turns a stored configuration into its typed variant. The type
// tag is injected when absent; a tag that disagrees with kind is rejected.
func DecodeConfig(kind WidgetKind, raw []byte) (WidgetConfig, error) {
	return decodeConfig(defaultValidator, kind, raw)
}

func decodeConfig(validator ConfigValidator, kind WidgetKind, raw []byte) (WidgetConfig, error) {
	payload := map[string]any{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
		}
		if payload == nil {
			payload = map[string]any{}
		}
	}
	if tag, ok := payload["type"]; ok {
		value, isString := tag.(string)
		if !isString || value != string(kind) {
			return nil, fmt.Errorf("%w: declared %v, widget is %s", ErrConfigKindMismatch, tag, kind)
		}
	} else {
		payload["type"] = string(kind)
	}
	if !kind.Known() {
		return UnknownConfig{Type: kind}, nil
	}
	if validator != nil {
		if err := validator.Validate(kind, payload); err != nil {
			return nil, err
		}
	}
	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	var cfg WidgetConfig
	switch kind {
	case KindKPI:
		var c KPIConfig
		err = json.Unmarshal(normalized, &c)
		cfg = c
	case KindNotes:
		var c NotesConfig
		err = json.Unmarshal(normalized, &c)
		cfg = c
	case KindChart:
		var c ChartConfig
		err = json.Unmarshal(normalized, &c)
		cfg = c
	case KindDataTable:
		var c DataTableConfig
		err = json.Unmarshal(normalized, &c)
		cfg = c
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return cfg, nil
}

// ParseWidgetRecord converts a stored record into a Widget. A configuration
// that parses but fails schema validation keeps its decoded fields; one that
// cannot be decoded at all is replaced by FallbackConfig. Both are reported
// on logger.
func ParseWidgetRecord(record WidgetRecord, logger *zap.Logger) Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	kind, known := ParseWidgetKind(record.Type)
	if !known {
		logger.Warn("widget has unsupported type",
			zap.String("widget_id", record.ID),
			zap.String("type", record.Type),
		)
	}
	cfg, err := DecodeConfig(kind, record.Configuration)
	if err != nil && !errors.Is(err, ErrConfigKindMismatch) {
		if lenient, lerr := decodeConfig(nil, kind, record.Configuration); lerr == nil {
			logger.Warn("widget configuration failed validation, keeping decoded fields",
				zap.String("widget_id", record.ID),
				zap.String("type", record.Type),
				zap.Error(err),
			)
			cfg, err = lenient, nil
		}
	}
	if err != nil {
		logger.Warn("widget configuration rejected, using fallback",
			zap.String("widget_id", record.ID),
			zap.String("type", record.Type),
			zap.Error(err),
		)
		cfg = FallbackConfig(kind)
	}
	return Widget{
		ID:          record.ID,
		DashboardID: record.DashboardID,
		Kind:        kind,
		Grid:        record.Grid().Normalize(),
		Config:      cfg,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// RecordFromWidget serializes a widget for storage.
func RecordFromWidget(w Widget) (WidgetRecord, error) {
	cfg := w.Config
	if cfg == nil {
		cfg = FallbackConfig(w.Kind)
	}
	if cfg.Kind() != w.Kind {
		return WidgetRecord{}, fmt.Errorf("%w: widget %s is %s, configuration is %s", ErrConfigKindMismatch, w.ID, w.Kind, cfg.Kind())
	}
	raw, err := EncodeConfig(cfg)
	if err != nil {
		return WidgetRecord{}, err
	}
	return WidgetRecord{
		ID:            w.ID,
		DashboardID:   w.DashboardID,
		Type:          string(w.Kind),
		GridX:         w.Grid.X,
		GridY:         w.Grid.Y,
		GridWidth:     w.Grid.Width,
		GridHeight:    w.Grid.Height,
		Configuration: raw,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}, nil
}
