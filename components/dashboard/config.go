package dashboard

import "encoding/json"

// WidgetConfig is the type-specific settings payload attached to a widget.
// The set of implementations is closed; switch on the concrete type to handle
// every kind plus the UnknownConfig fallback.
type WidgetConfig interface {
	Kind() WidgetKind
	ConfigTitle() string
	isWidgetConfig()
}

// KPIConfig configures a key performance indicator card.
type KPIConfig struct {
	Title       string   `json:"title,omitempty"`
	MetricValue any      `json:"metricValue,omitempty"`
	Value       *float64 `json:"value,omitempty"`
	MetricLabel string   `json:"metricLabel,omitempty"`
	Prefix      string   `json:"prefix,omitempty"`
	Suffix      string   `json:"suffix,omitempty"`
	DataURL     string   `json:"dataUrl,omitempty"`
}

// NotesConfig configures a free-text notes widget.
type NotesConfig struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChartConfig configures a chart placeholder.
type ChartConfig struct {
	Title     string    `json:"title,omitempty"`
	ChartType ChartType `json:"chartType,omitempty"`
	DataURL   string    `json:"dataUrl,omitempty"`
}

// TableColumn is one ordered column of a data table.
type TableColumn struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// DataTableConfig configures a data table placeholder.
type DataTableConfig struct {
	Title   string        `json:"title,omitempty"`
	DataURL string        `json:"dataUrl,omitempty"`
	Columns []TableColumn `json:"columns,omitempty"`
}

// UnknownConfig carries only the type tag of a widget whose kind is not supported.
type UnknownConfig struct {
	Type WidgetKind `json:"type"`
}

func (KPIConfig) Kind() WidgetKind       { return KindKPI }
func (NotesConfig) Kind() WidgetKind     { return KindNotes }
func (ChartConfig) Kind() WidgetKind     { return KindChart }
func (DataTableConfig) Kind() WidgetKind { return KindDataTable }
func (c UnknownConfig) Kind() WidgetKind { return c.Type }

func (c KPIConfig) ConfigTitle() string       { return c.Title }
func (c NotesConfig) ConfigTitle() string     { return c.Title }
func (c ChartConfig) ConfigTitle() string     { return c.Title }
func (c DataTableConfig) ConfigTitle() string { return c.Title }
func (UnknownConfig) ConfigTitle() string     { return "" }

func (KPIConfig) isWidgetConfig()       {}
func (NotesConfig) isWidgetConfig()     {}
func (ChartConfig) isWidgetConfig()     {}
func (DataTableConfig) isWidgetConfig() {}
func (UnknownConfig) isWidgetConfig()   {}

// MarshalJSON always writes the type tag next to the variant fields.
func (c KPIConfig) MarshalJSON() ([]byte, error) {
	type alias KPIConfig
	return json.Marshal(struct {
		Type WidgetKind `json:"type"`
		alias
	}{KindKPI, alias(c)})
}

func (c NotesConfig) MarshalJSON() ([]byte, error) {
	type alias NotesConfig
	return json.Marshal(struct {
		Type WidgetKind `json:"type"`
		alias
	}{KindNotes, alias(c)})
}

func (c ChartConfig) MarshalJSON() ([]byte, error) {
	type alias ChartConfig
	return json.Marshal(struct {
		Type WidgetKind `json:"type"`
		alias
	}{KindChart, alias(c)})
}

func (c DataTableConfig) MarshalJSON() ([]byte, error) {
	type alias DataTableConfig
	return json.Marshal(struct {
		Type WidgetKind `json:"type"`
		alias
	}{KindDataTable, alias(c)})
}

// DefaultConfig returns the configuration given to a widget freshly picked
// from the palette.
func DefaultConfig(kind WidgetKind) WidgetConfig {
	switch kind {
	case KindKPI:
		return KPIConfig{Title: "New KPI"}
	case KindNotes:
		return NotesConfig{Title: "New Note"}
	case KindChart:
		return ChartConfig{Title: "New Chart", ChartType: ChartBar}
	case KindDataTable:
		return DataTableConfig{Title: "New Table"}
	default:
		return UnknownConfig{Type: kind}
	}
}

// FallbackConfig returns the minimal configuration for a kind: the variant
// with nothing but its type tag.
func FallbackConfig(kind WidgetKind) WidgetConfig {
	switch kind {
	case KindKPI:
		return KPIConfig{}
	case KindNotes:
		return NotesConfig{}
	case KindChart:
		return ChartConfig{}
	case KindDataTable:
		return DataTableConfig{}
	default:
		return UnknownConfig{Type: kind}
	}
}

// EncodeConfig serializes a configuration including its type tag.
func EncodeConfig(cfg WidgetConfig) ([]byte, error) {
	if cfg == nil {
		return nil, ErrMalformedConfig
	}
	return json.Marshal(cfg)
}

func configTitleOr(cfg WidgetConfig, fallback string) string {
	if cfg != nil {
		if title := cfg.ConfigTitle(); title != "" {
			return title
		}
	}
	return fallback
}
