package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// RefreshWidgetInput asks subscribers of a dashboard to re-fetch a widget,
// typically after the data behind its dataUrl changed.
type RefreshWidgetInput struct {
	Identity    dashboard.Identity `json:"-"`
	DashboardID string             `json:"dashboardId"`
	WidgetID    string             `json:"widgetId"`
}

type refreshNotifier interface {
	LoadDashboard(ctx context.Context, identity dashboard.Identity, dashboardID string) (dashboard.DashboardView, error)
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

// RefreshWidgetCommand triggers refresh hooks without touching any workspace.
type RefreshWidgetCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshWidgetCommand creates the command.
func NewRefreshWidgetCommand(service refreshNotifier, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if _, err := c.service.LoadDashboard(ctx, msg.Identity, msg.DashboardID); err != nil {
		return err
	}
	if err := c.service.NotifyWidgetUpdated(ctx, dashboard.WidgetEvent{
		DashboardID: msg.DashboardID,
		OwnerID:     msg.Identity.OwnerID,
		WidgetID:    msg.WidgetID,
		Reason:      dashboard.ReasonRefresh,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.refresh", map[string]any{
		"dashboard_id": msg.DashboardID,
		"widget_id":    msg.WidgetID,
	})
	return nil
}
