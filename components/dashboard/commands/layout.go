package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// SaveLayoutInput writes the caller's workspace back to the store. Result
// receives the stored widgets.
type SaveLayoutInput struct {
	Target
	Result *[]dashboard.Widget `json:"-"`
}

// SaveLayoutCommand wraps Workspace.Persist.
type SaveLayoutCommand struct {
	workspaces workspaceOpener
	telemetry  Telemetry
}

// NewSaveLayoutCommand builds the command.
func NewSaveLayoutCommand(workspaces workspaceOpener, telemetry Telemetry) *SaveLayoutCommand {
	return &SaveLayoutCommand{workspaces: workspaces, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutInput] = (*SaveLayoutCommand)(nil)

// Execute persists the workspace.
func (c *SaveLayoutCommand) Execute(ctx context.Context, msg SaveLayoutInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	saved, err := ws.Persist(ctx)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = saved
	}
	c.telemetry.Record(ctx, "dashboard.command.save", map[string]any{
		"dashboard_id": msg.DashboardID,
		"widgets":      len(saved),
	})
	return nil
}
