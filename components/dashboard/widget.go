package dashboard

import (
	"encoding/json"
	"time"
)

// GridColumns is the fixed column count of the dashboard grid.
const GridColumns = 12

// DefaultDashboardName is assigned to every newly created dashboard.
const DefaultDashboardName = "My New Dashboard"

// Dashboard is a named collection of widgets owned by one user.
type Dashboard struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GridRect is a widget's cell span on the grid.
type GridRect struct {
	X      int `json:"gridX"`
	Y      int `json:"gridY"`
	Width  int `json:"gridWidth"`
	Height int `json:"gridHeight"`
}

// Normalize clamps the rect into the grid: coordinates are non-negative,
// width stays within the column count and height is at least one row.
func (r GridRect) Normalize() GridRect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Width > GridColumns {
		r.Width = GridColumns
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// Widget is a positioned, typed, configurable grid item.
type Widget struct {
	ID          string
	DashboardID string
	Kind        WidgetKind
	Grid        GridRect
	Config      WidgetConfig
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Temporary reports whether the widget has not been persisted yet.
func (w Widget) Temporary() bool {
	return IsTemporaryID(w.ID)
}

type widgetJSON struct {
	ID          string          `json:"id"`
	DashboardID string          `json:"dashboardId,omitempty"`
	Type        WidgetKind      `json:"type"`
	GridX       int             `json:"gridX"`
	GridY       int             `json:"gridY"`
	GridWidth   int             `json:"gridWidth"`
	GridHeight  int             `json:"gridHeight"`
	Config      json.RawMessage `json:"configuration"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MarshalJSON writes the flat record shape used at the transport boundary.
func (w Widget) MarshalJSON() ([]byte, error) {
	cfg := w.Config
	if cfg == nil {
		cfg = FallbackConfig(w.Kind)
	}
	raw, err := EncodeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(widgetJSON{
		ID:          w.ID,
		DashboardID: w.DashboardID,
		Type:        w.Kind,
		GridX:       w.Grid.X,
		GridY:       w.Grid.Y,
		GridWidth:   w.Grid.Width,
		GridHeight:  w.Grid.Height,
		Config:      raw,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	})
}

// WidgetRecord is a widget as supplied by a store, with its configuration
// still in serialized form.
type WidgetRecord struct {
	ID            string          `json:"id"`
	DashboardID   string          `json:"dashboardId"`
	Type          string          `json:"type"`
	GridX         int             `json:"gridX"`
	GridY         int             `json:"gridY"`
	GridWidth     int             `json:"gridWidth"`
	GridHeight    int             `json:"gridHeight"`
	Configuration json.RawMessage `json:"configuration"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Grid returns the record's rect.
func (r WidgetRecord) Grid() GridRect {
	return GridRect{X: r.GridX, Y: r.GridY, Width: r.GridWidth, Height: r.GridHeight}
}

// DashboardView is a loaded dashboard together with its ordered widgets.
type DashboardView struct {
	Dashboard Dashboard `json:"dashboard"`
	Widgets   []Widget  `json:"widgets"`
}

func cloneWidgets(widgets []Widget) []Widget {
	if widgets == nil {
		return []Widget{}
	}
	out := make([]Widget, len(widgets))
	copy(out, widgets)
	return out
}
