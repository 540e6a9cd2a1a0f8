package commands

import (
	"context"
	"encoding/json"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// OpenEditorInput opens the configuration editor on WidgetID.
type OpenEditorInput struct {
	Target
	WidgetID string                `json:"widgetId"`
	View     *dashboard.EditorView `json:"-"`
}

// OpenEditorCommand wraps Workspace.OpenEditor.
type OpenEditorCommand struct {
	workspaces workspaceOpener
}

// NewOpenEditorCommand builds the command.
func NewOpenEditorCommand(workspaces workspaceOpener) *OpenEditorCommand {
	return &OpenEditorCommand{workspaces: workspaces}
}

var _ gocommand.Commander[OpenEditorInput] = (*OpenEditorCommand)(nil)

// Execute opens the editor. Unknown widgets leave it closed.
func (c *OpenEditorCommand) Execute(ctx context.Context, msg OpenEditorInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	view, _ := ws.OpenEditor(ctx, msg.WidgetID)
	if msg.View != nil {
		*msg.View = view
	}
	return nil
}

// SaveEditorInput saves Configuration to the open widget. A missing
// configuration keeps the widget's current one.
type SaveEditorInput struct {
	Target
	Configuration json.RawMessage       `json:"configuration,omitempty"`
	View          *dashboard.EditorView `json:"-"`
}

// SaveEditorCommand wraps Workspace.SaveEditorJSON.
type SaveEditorCommand struct {
	workspaces workspaceOpener
	telemetry  Telemetry
}

// NewSaveEditorCommand builds the command.
func NewSaveEditorCommand(workspaces workspaceOpener, telemetry Telemetry) *SaveEditorCommand {
	return &SaveEditorCommand{workspaces: workspaces, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveEditorInput] = (*SaveEditorCommand)(nil)

// Execute saves and closes the editor. A rejected configuration keeps the
// editor open.
func (c *SaveEditorCommand) Execute(ctx context.Context, msg SaveEditorInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	widgetID := ws.EditorView().WidgetID
	saveErr := ws.SaveEditorJSON(ctx, msg.Configuration)
	if msg.View != nil {
		*msg.View = ws.EditorView()
	}
	if saveErr != nil {
		return saveErr
	}
	c.telemetry.Record(ctx, "dashboard.widget.configure", map[string]any{
		"dashboard_id": msg.DashboardID,
		"widget_id":    widgetID,
	})
	return nil
}

// CancelEditorInput closes the editor without saving.
type CancelEditorInput struct {
	Target
}

// CancelEditorCommand wraps Workspace.CancelEditor.
type CancelEditorCommand struct {
	workspaces workspaceOpener
}

// NewCancelEditorCommand builds the command.
func NewCancelEditorCommand(workspaces workspaceOpener) *CancelEditorCommand {
	return &CancelEditorCommand{workspaces: workspaces}
}

var _ gocommand.Commander[CancelEditorInput] = (*CancelEditorCommand)(nil)

// Execute closes the editor.
func (c *CancelEditorCommand) Execute(ctx context.Context, msg CancelEditorInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	ws.CancelEditor(ctx)
	return nil
}
