package dashboard

import "strings"

// WidgetKind is the closed set of widget types a dashboard can hold.
type WidgetKind string

const (
	KindKPI       WidgetKind = "KPI"
	KindNotes     WidgetKind = "Notes"
	KindChart     WidgetKind = "Chart"
	KindDataTable WidgetKind = "DataTable"
)

var knownKinds = []WidgetKind{KindKPI, KindNotes, KindChart, KindDataTable}

// Kinds returns the known widget kinds in palette order.
func Kinds() []WidgetKind {
	return append([]WidgetKind{}, knownKinds...)
}

// ParseWidgetKind matches the stored type tag against the known kinds.
func ParseWidgetKind(value string) (WidgetKind, bool) {
	value = strings.TrimSpace(value)
	for _, kind := range knownKinds {
		if string(kind) == value {
			return kind, true
		}
	}
	return WidgetKind(value), false
}

// Known reports whether the kind is one of the four supported widget types.
func (k WidgetKind) Known() bool {
	_, ok := ParseWidgetKind(string(k))
	return ok
}

func (k WidgetKind) String() string {
	return string(k)
}

// ChartType enumerates the placeholder chart styles.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
	ChartArea ChartType = "area"
)

// Valid reports whether the chart type is supported.
func (c ChartType) Valid() bool {
	switch c {
	case ChartLine, ChartBar, ChartPie, ChartArea:
		return true
	}
	return false
}
