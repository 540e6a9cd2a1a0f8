package dashboard

import (
	"fmt"

	"go.uber.org/zap"
)

// EditorState is the configuration editor's lifecycle state.
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorOpen
)

func (s EditorState) String() string {
	if s == EditorOpen {
		return "open"
	}
	return "closed"
}

const (
	editorClosedMessage = "No widget selected."
	notSetLabel         = "(Not set)"
)

// EditorField is one labelled value in an editor section.
type EditorField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// EditorSection groups the fields shown for a widget kind.
type EditorSection struct {
	Title  string        `json:"title"`
	Fields []EditorField `json:"fields"`
}

// EditorView is what the configuration dialog displays.
type EditorView struct {
	State       string          `json:"state"`
	WidgetID    string          `json:"widgetId,omitempty"`
	Kind        WidgetKind      `json:"type,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Message     string          `json:"message,omitempty"`
	Sections    []EditorSection `json:"sections,omitempty"`
}

// ConfigEditor is the open/save/cancel flow for a single widget's
// configuration. It reads and writes through the Arrangement it wraps.
type ConfigEditor struct {
	arrangement *Arrangement
	logger      *zap.Logger
	state       EditorState
	widgetID    string
}

// NewConfigEditor builds a closed editor over the arrangement.
func NewConfigEditor(arrangement *Arrangement, logger *zap.Logger) *ConfigEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigEditor{arrangement: arrangement, logger: logger}
}

// State reports whether the editor is open.
func (e *ConfigEditor) State() EditorState {
	return e.state
}

// WidgetID returns the widget being edited, empty when closed.
func (e *ConfigEditor) WidgetID() string {
	return e.widgetID
}

// Open selects the widget to configure. Unknown ids leave the editor closed.
func (e *ConfigEditor) Open(widgetID string) bool {
	if _, ok := e.arrangement.Find(widgetID); !ok {
		e.logger.Warn("configure ignored, widget not found", zap.String("widget_id", widgetID))
		return false
	}
	e.state = EditorOpen
	e.widgetID = widgetID
	return true
}

// Cancel closes the editor without touching the widget.
func (e *ConfigEditor) Cancel() {
	e.close()
}

// Save writes cfg to the open widget and closes the editor. A nil cfg saves
// the widget's current configuration unchanged.
func (e *ConfigEditor) Save(cfg WidgetConfig) error {
	if e.state != EditorOpen {
		return ErrEditorClosed
	}
	widget, ok := e.arrangement.Find(e.widgetID)
	if !ok {
		e.logger.Warn("save ignored, widget no longer present", zap.String("widget_id", e.widgetID))
		e.close()
		return nil
	}
	if cfg == nil {
		cfg = widget.Config
	}
	if cfg == nil {
		cfg = FallbackConfig(widget.Kind)
	}
	if _, err := e.arrangement.UpdateConfiguration(widget.ID, cfg); err != nil {
		return err
	}
	e.close()
	return nil
}

func (e *ConfigEditor) close() {
	e.state = EditorClosed
	e.widgetID = ""
}

// View describes the dialog for the current state.
func (e *ConfigEditor) View() EditorView {
	if e.state != EditorOpen {
		return EditorView{State: EditorClosed.String(), Title: "Configure Widget", Message: editorClosedMessage}
	}
	widget, ok := e.arrangement.Find(e.widgetID)
	if !ok {
		return EditorView{State: EditorClosed.String(), Title: "Configure Widget", Message: editorClosedMessage}
	}
	return editorViewFor(widget)
}

func editorViewFor(w Widget) EditorView {
	view := EditorView{
		State:       EditorOpen.String(),
		WidgetID:    w.ID,
		Kind:        w.Kind,
		Title:       "Configure " + configTitleOr(w.Config, string(w.Kind)),
		Description: fmt.Sprintf("Modify the settings for your %s widget below. Click save when done.", w.Kind),
	}
	switch w.Kind {
	case KindKPI:
		if cfg, ok := w.Config.(KPIConfig); ok {
			view.Sections = []EditorSection{{
				Title: "KPI Configuration",
				Fields: []EditorField{
					titleField(cfg.Title),
					{Key: "metricLabel", Label: "Metric Label", Value: orNotSet(cfg.MetricLabel)},
					{Key: "prefix", Label: "Prefix", Value: orNotSet(cfg.Prefix)},
					{Key: "suffix", Label: "Suffix", Value: orNotSet(cfg.Suffix)},
					dataURLField(cfg.DataURL),
				},
			}}
		}
	case KindNotes:
		if cfg, ok := w.Config.(NotesConfig); ok {
			view.Sections = []EditorSection{{
				Title: "Notes Configuration",
				Fields: []EditorField{
					titleField(cfg.Title),
					{Key: "content", Label: "Content", Value: cfg.Content},
				},
			}}
		}
	case KindChart:
		if cfg, ok := w.Config.(ChartConfig); ok {
			view.Sections = []EditorSection{{
				Title: "Chart Configuration",
				Fields: []EditorField{
					titleField(cfg.Title),
					dataURLField(cfg.DataURL),
					{Key: "chartType", Label: "Chart Type", Value: orNotSet(string(cfg.ChartType))},
				},
			}}
		}
	case KindDataTable:
		if cfg, ok := w.Config.(DataTableConfig); ok {
			fields := []EditorField{titleField(cfg.Title), dataURLField(cfg.DataURL)}
			for _, col := range cfg.Columns {
				fields = append(fields, EditorField{Key: "column." + col.Key, Label: "Column", Value: col.Header})
			}
			view.Sections = []EditorSection{{Title: "Data Table Configuration", Fields: fields}}
		}
	default:
		view.Message = fmt.Sprintf("No specific configuration available for widget type: %s", w.Kind)
	}
	return view
}

func titleField(title string) EditorField {
	return EditorField{Key: "title", Label: "Title", Value: title}
}

func dataURLField(url string) EditorField {
	return EditorField{Key: "dataUrl", Label: "Data URL", Value: orNotSet(url)}
}

func orNotSet(value string) string {
	if value == "" {
		return notSetLabel
	}
	return value
}
