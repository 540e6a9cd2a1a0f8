package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ettle/strcase"
)

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

const (
	// EmptyDashboardMessage is shown instead of a grid with no widgets.
	EmptyDashboardMessage = "Dashboard is empty. Add widgets using the palette."

	// GridTemplate renders a whole dashboard grid.
	GridTemplate = "dashboard"

	unknownTemplate   = "widgets/unknown"
	kpiValueFallback  = "N/A"
	kpiLabelFallback  = "Metric Label"
	tablePreviewCols  = 3
	tableTitleDefault = "Data Table"
)

// WidgetView is the render-ready form of a widget.
type WidgetView struct {
	ID        string         `json:"id"`
	Kind      WidgetKind     `json:"type"`
	Template  string         `json:"template"`
	Title     string         `json:"title"`
	GridClass string         `json:"gridClass"`
	Data      map[string]any `json:"data"`
}

// GridView is the render-ready form of a dashboard grid.
type GridView struct {
	Empty        bool         `json:"empty"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	Items        []WidgetView `json:"items"`
}

// TemplateFor returns the template that renders widgets of kind.
func TemplateFor(kind WidgetKind) string {
	if !kind.Known() {
		return unknownTemplate
	}
	return "widgets/" + strcase.ToSnake(string(kind))
}

// ViewFor maps a widget onto the view its renderer consumes. Widgets whose
// kind is not one of the four supported types get the unknown placeholder.
func ViewFor(w Widget) WidgetView {
	view := WidgetView{
		ID:        w.ID,
		Kind:      w.Kind,
		Template:  TemplateFor(w.Kind),
		Title:     configTitleOr(w.Config, string(w.Kind)),
		GridClass: gridClass(w.Grid),
		Data:      map[string]any{},
	}
	switch cfg := w.Config.(type) {
	case KPIConfig:
		view.Data["value"] = kpiDisplayValue(cfg)
		view.Data["label"] = stringOr(cfg.MetricLabel, kpiLabelFallback)
		view.Data["prefix"] = cfg.Prefix
		view.Data["suffix"] = cfg.Suffix
		view.Data["dataUrl"] = cfg.DataURL
	case NotesConfig:
		view.Data["content"] = cfg.Content
		view.Data["placeholder"] = "Type your notes here..."
	case ChartConfig:
		chartType := cfg.ChartType
		if chartType == "" {
			chartType = ChartBar
		}
		view.Data["chartType"] = string(chartType)
		view.Data["label"] = strings.ToUpper(string(chartType[:1])) + string(chartType[1:]) + " Chart Area"
		view.Data["dataUrl"] = cfg.DataURL
	case DataTableConfig:
		view.Title = stringOr(cfg.Title, tableTitleDefault)
		cols := cfg.Columns
		if len(cols) > tablePreviewCols {
			cols = cols[:tablePreviewCols]
		}
		view.Data["columns"] = append([]TableColumn{}, cols...)
		view.Data["totalColumns"] = len(cfg.Columns)
		view.Data["dataUrl"] = cfg.DataURL
	default:
		view.Template = unknownTemplate
		view.Data["message"] = fmt.Sprintf("Unknown Widget Type: %s", w.Kind)
	}
	return view
}

// GridViewFor maps an ordered widget list onto a grid view.
func GridViewFor(widgets []Widget) GridView {
	if len(widgets) == 0 {
		return GridView{Empty: true, EmptyMessage: EmptyDashboardMessage, Items: []WidgetView{}}
	}
	items := make([]WidgetView, len(widgets))
	for i, w := range widgets {
		items[i] = ViewFor(w)
	}
	return GridView{Items: items}
}

func kpiDisplayValue(cfg KPIConfig) string {
	switch v := cfg.MetricValue.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return formatNumber(v)
	case int:
		return fmt.Sprintf("%d", v)
	}
	if cfg.Value != nil {
		return formatNumber(*cfg.Value)
	}
	return kpiValueFallback
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func gridClass(r GridRect) string {
	r = r.Normalize()
	return fmt.Sprintf("col-span-%d row-span-%d", r.Width, r.Height)
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// WidgetRenderer renders widget fragments through a Renderer, memoizing the
// output per widget configuration.
type WidgetRenderer struct {
	renderer Renderer
	cache    RenderCache
}

// NewWidgetRenderer wraps renderer with the optional cache.
func NewWidgetRenderer(renderer Renderer, cache RenderCache) *WidgetRenderer {
	return &WidgetRenderer{renderer: renderer, cache: cache}
}

// RenderFragment renders a single widget.
func (r *WidgetRenderer) RenderFragment(w Widget) (string, error) {
	if r == nil || r.renderer == nil {
		return "", fmt.Errorf("dashboard: renderer not configured")
	}
	view := ViewFor(w)
	render := func() (string, error) {
		return r.renderer.Render(view.Template, map[string]any{"widget": view})
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(fragmentKey(w), render)
}

// RenderGrid renders the full grid into out.
func (r *WidgetRenderer) RenderGrid(widgets []Widget, out io.Writer) error {
	if r == nil || r.renderer == nil {
		return fmt.Errorf("dashboard: renderer not configured")
	}
	grid := GridViewFor(widgets)
	fragments := make([]string, 0, len(widgets))
	for _, w := range widgets {
		html, err := r.RenderFragment(w)
		if err != nil {
			return fmt.Errorf("dashboard: render widget %s: %w", w.ID, err)
		}
		fragments = append(fragments, html)
	}
	var buf bytes.Buffer
	if _, err := r.renderer.Render(GridTemplate, map[string]any{
		"grid":      grid,
		"fragments": fragments,
	}, &buf); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}
