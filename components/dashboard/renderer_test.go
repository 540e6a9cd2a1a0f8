package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateForKinds(t *testing.T) {
	assert.Equal(t, "widgets/kpi", TemplateFor(KindKPI))
	assert.Equal(t, "widgets/notes", TemplateFor(KindNotes))
	assert.Equal(t, "widgets/chart", TemplateFor(KindChart))
	assert.Equal(t, "widgets/data_table", TemplateFor(KindDataTable))
	assert.Equal(t, "widgets/unknown", TemplateFor(WidgetKind("Gauge")))
}

func TestViewForKPI(t *testing.T) {
	value := 12.5
	cases := []struct {
		name string
		cfg  KPIConfig
		want string
	}{
		{name: "metric string", cfg: KPIConfig{MetricValue: "$1k"}, want: "$1k"},
		{name: "metric number", cfg: KPIConfig{MetricValue: float64(42)}, want: "42"},
		{name: "value", cfg: KPIConfig{Value: &value}, want: "12.5"},
		{name: "missing", cfg: KPIConfig{}, want: "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := ViewFor(Widget{ID: "k", Kind: KindKPI, Grid: GridRect{Width: 3, Height: 1}, Config: tc.cfg})
			assert.Equal(t, tc.want, view.Data["value"])
			assert.Equal(t, "Metric Label", view.Data["label"])
			assert.Equal(t, "KPI", view.Title)
			assert.Equal(t, "col-span-3 row-span-1", view.GridClass)
		})
	}
}

func TestViewForDataTableLimitsColumns(t *testing.T) {
	view := ViewFor(Widget{ID: "t", Kind: KindDataTable, Config: DataTableConfig{Columns: []TableColumn{
		{Key: "a", Header: "A"}, {Key: "b", Header: "B"}, {Key: "c", Header: "C"}, {Key: "d", Header: "D"},
	}}})
	assert.Equal(t, "Data Table", view.Title)
	cols := view.Data["columns"].([]TableColumn)
	assert.Len(t, cols, 3)
	assert.Equal(t, 4, view.Data["totalColumns"])
}

func TestViewForChartDefaults(t *testing.T) {
	view := ViewFor(Widget{ID: "c", Kind: KindChart, Config: ChartConfig{}})
	assert.Equal(t, "bar", view.Data["chartType"])
	assert.Equal(t, "Bar Chart Area", view.Data["label"])

	view = ViewFor(Widget{ID: "c", Kind: KindChart, Config: ChartConfig{ChartType: ChartPie, Title: "Share"}})
	assert.Equal(t, "Pie Chart Area", view.Data["label"])
	assert.Equal(t, "Share", view.Title)
}

func TestViewForUnknownFallsBack(t *testing.T) {
	view := ViewFor(Widget{ID: "u", Kind: WidgetKind("Gauge"), Config: UnknownConfig{Type: "Gauge"}})
	assert.Equal(t, "widgets/unknown", view.Template)
	assert.Equal(t, "Unknown Widget Type: Gauge", view.Data["message"])

	view = ViewFor(Widget{ID: "n", Kind: KindNotes})
	assert.Equal(t, "widgets/unknown", view.Template)
}

func TestGridViewForEmpty(t *testing.T) {
	grid := GridViewFor(nil)
	assert.True(t, grid.Empty)
	assert.Equal(t, "Dashboard is empty. Add widgets using the palette.", grid.EmptyMessage)
	assert.Empty(t, grid.Items)

	grid = GridViewFor(sampleWidgets("a", "b"))
	assert.False(t, grid.Empty)
	assert.Len(t, grid.Items, 2)
}

func TestWidgetRendererCachesFragments(t *testing.T) {
	renderer := &stubRenderer{}
	wr := NewWidgetRenderer(renderer, NewFragmentCache(time.Minute))
	w := Widget{ID: "n", Kind: KindNotes, Grid: GridRect{Width: 4, Height: 2}, Config: NotesConfig{Content: "a"}}

	html, err := wr.RenderFragment(w)
	require.NoError(t, err)
	assert.Equal(t, "<widgets/notes>", html)
	_, err = wr.RenderFragment(w)
	require.NoError(t, err)
	assert.Len(t, renderer.templates, 1)

	w.Config = NotesConfig{Content: "b"}
	_, err = wr.RenderFragment(w)
	require.NoError(t, err)
	assert.Len(t, renderer.templates, 2)
}

func TestWidgetRendererSurfacesErrors(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("boom")}
	wr := NewWidgetRenderer(renderer, nil)
	_, err := wr.RenderFragment(Widget{ID: "k", Kind: KindKPI, Config: KPIConfig{}})
	assert.Error(t, err)

	var nilRenderer *WidgetRenderer
	_, err = nilRenderer.RenderFragment(Widget{})
	assert.Error(t, err)
}
