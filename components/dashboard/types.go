package dashboard

import (
	"context"
	"time"
)

// DashboardStore persists dashboards and their widgets. Implementations must
// be safe for concurrent use.
type DashboardStore interface {
	CreateDashboard(ctx context.Context, input CreateDashboardInput) (Dashboard, error)
	ListDashboards(ctx context.Context, ownerID string) ([]Dashboard, error)
	GetDashboard(ctx context.Context, ownerID, dashboardID string) (Dashboard, error)
	// ListWidgetRecords returns the dashboard's widgets ordered by (gridY, gridX).
	ListWidgetRecords(ctx context.Context, dashboardID string) ([]WidgetRecord, error)
	// ReplaceWidgets swaps the dashboard's entire widget set and returns the
	// stored records. Records without an id get one assigned.
	ReplaceWidgets(ctx context.Context, dashboardID string, records []WidgetRecord) ([]WidgetRecord, error)
}

// CreateDashboardInput configures a new dashboard record.
type CreateDashboardInput struct {
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// RefreshHook notifies transports (REST/WebSocket) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// Event reasons published by workspaces.
const (
	ReasonDragStart       = "drag.start"
	ReasonReorder         = "reorder"
	ReasonAdd             = "add"
	ReasonConfigureOpen   = "configure.open"
	ReasonConfigureSave   = "configure.save"
	ReasonConfigureCancel = "configure.cancel"
	ReasonSave            = "save"
	ReasonRefresh         = "refresh"
)

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	DashboardID string   `json:"dashboardId"`
	OwnerID     string   `json:"ownerId,omitempty"`
	WidgetID    string   `json:"widgetId,omitempty"`
	Order       []string `json:"order,omitempty"`
	Reason      string   `json:"reason"`
}

// Clock supplies the current time.
type Clock func() time.Time
