package commands

import (
	"context"
	"encoding/json"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// AddWidgetInput appends a widget of Kind with its default configuration.
type AddWidgetInput struct {
	Target
	Kind   dashboard.WidgetKind `json:"type"`
	Result *dashboard.Widget    `json:"-"`
}

// AddWidgetCommand wraps Workspace.AddWidget.
type AddWidgetCommand struct {
	workspaces workspaceOpener
	telemetry  Telemetry
}

// NewAddWidgetCommand builds the command.
func NewAddWidgetCommand(workspaces workspaceOpener, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{workspaces: workspaces, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute adds the widget to the caller's workspace.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	widget, err := ws.AddWidget(ctx, msg.Kind)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "dashboard.widget.add", map[string]any{
		"dashboard_id": msg.DashboardID,
		"widget_id":    widget.ID,
		"type":         string(widget.Kind),
	})
	return nil
}

// UpdateConfigurationInput replaces one widget's configuration in place.
type UpdateConfigurationInput struct {
	Target
	WidgetID      string          `json:"widgetId"`
	Configuration json.RawMessage `json:"configuration"`
	Updated       *bool           `json:"-"`
}

// UpdateConfigurationCommand wraps Workspace.UpdateConfigurationJSON.
type UpdateConfigurationCommand struct {
	workspaces workspaceOpener
	telemetry  Telemetry
}

// NewUpdateConfigurationCommand builds the command.
func NewUpdateConfigurationCommand(workspaces workspaceOpener, telemetry Telemetry) *UpdateConfigurationCommand {
	return &UpdateConfigurationCommand{workspaces: workspaces, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateConfigurationInput] = (*UpdateConfigurationCommand)(nil)

// Execute decodes and applies the configuration.
func (c *UpdateConfigurationCommand) Execute(ctx context.Context, msg UpdateConfigurationInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	updated, err := ws.UpdateConfigurationJSON(ctx, msg.WidgetID, msg.Configuration)
	if err != nil {
		return err
	}
	if msg.Updated != nil {
		*msg.Updated = updated
	}
	c.telemetry.Record(ctx, "dashboard.widget.update", map[string]any{
		"dashboard_id": msg.DashboardID,
		"widget_id":    msg.WidgetID,
		"updated":      updated,
	})
	return nil
}
