package dashboard

var defaultPalette = []PaletteEntry{
	{Kind: KindKPI, Name: "KPI Card", Description: "Display a key performance indicator value.", Icon: "hash"},
	{Kind: KindNotes, Name: "Notes", Description: "A simple text area for quick notes.", Icon: "sticky-note"},
	{Kind: KindChart, Name: "Chart Placeholder", Description: "Display data visually (placeholder).", Icon: "bar-chart-big"},
	{Kind: KindDataTable, Name: "Data Table Placeholder", Description: "Display tabular data (placeholder).", Icon: "table"},
}

// DefaultPalette returns the built-in palette entries in display order.
func DefaultPalette() []PaletteEntry {
	return append([]PaletteEntry{}, defaultPalette...)
}

// SeedWidget describes a widget placed on the starter dashboard.
type SeedWidget struct {
	Kind   WidgetKind
	Grid   GridRect
	Config WidgetConfig
}

var defaultSeedWidgets = []SeedWidget{
	{
		Kind:   KindKPI,
		Grid:   GridRect{Width: 3, Height: 1},
		Config: KPIConfig{Title: "Revenue", MetricValue: "$12,400", MetricLabel: "This month"},
	},
	{
		Kind:   KindKPI,
		Grid:   GridRect{Width: 3, Height: 1},
		Config: KPIConfig{Title: "Active Users", MetricValue: float64(318), MetricLabel: "Last 7 days"},
	},
	{
		Kind:   KindNotes,
		Grid:   GridRect{Width: 6, Height: 2},
		Config: NotesConfig{Title: "Team Notes", Content: "Drag widgets to rearrange them."},
	},
	{
		Kind:   KindChart,
		Grid:   GridRect{Width: 6, Height: 2},
		Config: ChartConfig{Title: "Signups", ChartType: ChartLine},
	},
	{
		Kind: KindDataTable,
		Grid: GridRect{Width: 6, Height: 2},
		Config: DataTableConfig{
			Title: "Recent Orders",
			Columns: []TableColumn{
				{Key: "id", Header: "Order"},
				{Key: "customer", Header: "Customer"},
				{Key: "total", Header: "Total"},
				{Key: "status", Header: "Status"},
			},
		},
	},
}

// DefaultSeedWidgets returns the widgets placed on a starter dashboard.
func DefaultSeedWidgets() []SeedWidget {
	return append([]SeedWidget{}, defaultSeedWidgets...)
}
