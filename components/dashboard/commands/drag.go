package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// BeginDragInput marks the widget being picked up.
type BeginDragInput struct {
	Target
	WidgetID string `json:"widgetId"`
}

// BeginDragCommand wraps Workspace.BeginDrag.
type BeginDragCommand struct {
	workspaces workspaceOpener
}

// NewBeginDragCommand builds the command.
func NewBeginDragCommand(workspaces workspaceOpener) *BeginDragCommand {
	return &BeginDragCommand{workspaces: workspaces}
}

var _ gocommand.Commander[BeginDragInput] = (*BeginDragCommand)(nil)

// Execute records the drag start.
func (c *BeginDragCommand) Execute(ctx context.Context, msg BeginDragInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	ws.BeginDrag(ctx, msg.WidgetID)
	return nil
}

// CompleteDragInput drops ActiveID onto OverID. Moved reports whether the
// order changed.
type CompleteDragInput struct {
	Target
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
	Moved    *bool  `json:"-"`
}

// CompleteDragCommand wraps Workspace.CompleteDrag.
type CompleteDragCommand struct {
	workspaces workspaceOpener
	telemetry  Telemetry
}

// NewCompleteDragCommand builds the command.
func NewCompleteDragCommand(workspaces workspaceOpener, telemetry Telemetry) *CompleteDragCommand {
	return &CompleteDragCommand{workspaces: workspaces, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CompleteDragInput] = (*CompleteDragCommand)(nil)

// Execute resolves the drop. Drops that change nothing are not errors.
func (c *CompleteDragCommand) Execute(ctx context.Context, msg CompleteDragInput) error {
	ws, err := openWorkspace(ctx, c.workspaces, msg.Target)
	if err != nil {
		return err
	}
	moved := ws.CompleteDrag(ctx, msg.ActiveID, msg.OverID)
	if msg.Moved != nil {
		*msg.Moved = moved
	}
	if moved {
		c.telemetry.Record(ctx, "dashboard.widget.reorder", map[string]any{
			"dashboard_id": msg.DashboardID,
			"widget_id":    msg.ActiveID,
		})
	}
	return nil
}
