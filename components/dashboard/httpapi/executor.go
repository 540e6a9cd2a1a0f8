package httpapi

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
)

// Executor is the operation surface shared by the net/http handlers and the
// go-router routes.
type Executor interface {
	CreateDashboard(ctx context.Context, identity dashboard.Identity) (dashboard.CreateDashboardResult, error)
	AddWidget(ctx context.Context, input commands.AddWidgetInput) (dashboard.Widget, error)
	UpdateConfiguration(ctx context.Context, input commands.UpdateConfigurationInput) (bool, error)
	BeginDrag(ctx context.Context, input commands.BeginDragInput) error
	CompleteDrag(ctx context.Context, input commands.CompleteDragInput) (bool, error)
	OpenEditor(ctx context.Context, input commands.OpenEditorInput) (dashboard.EditorView, error)
	SaveEditor(ctx context.Context, input commands.SaveEditorInput) (dashboard.EditorView, error)
	CancelEditor(ctx context.Context, input commands.CancelEditorInput) error
	SaveLayout(ctx context.Context, input commands.SaveLayoutInput) ([]dashboard.Widget, error)
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
}

// CommandExecutor implements Executor on top of go-command commanders.
type CommandExecutor struct {
	Create       gocommand.Commander[commands.CreateDashboardInput]
	Add          gocommand.Commander[commands.AddWidgetInput]
	Update       gocommand.Commander[commands.UpdateConfigurationInput]
	DragStart    gocommand.Commander[commands.BeginDragInput]
	DragEnd      gocommand.Commander[commands.CompleteDragInput]
	EditorOpen   gocommand.Commander[commands.OpenEditorInput]
	EditorSave   gocommand.Commander[commands.SaveEditorInput]
	EditorCancel gocommand.Commander[commands.CancelEditorInput]
	Save         gocommand.Commander[commands.SaveLayoutInput]
	RefreshCmd   gocommand.Commander[commands.RefreshWidgetInput]

	// Seed, when set, replaces Create so new dashboards start with the
	// default widgets.
	Seed gocommand.Commander[commands.SeedDashboardInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command against service and workspaces.
func NewCommandExecutor(service *dashboard.Service, workspaces *dashboard.WorkspaceManager, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Create:       commands.NewCreateDashboardCommand(service, telemetry),
		Add:          commands.NewAddWidgetCommand(workspaces, telemetry),
		Update:       commands.NewUpdateConfigurationCommand(workspaces, telemetry),
		DragStart:    commands.NewBeginDragCommand(workspaces),
		DragEnd:      commands.NewCompleteDragCommand(workspaces, telemetry),
		EditorOpen:   commands.NewOpenEditorCommand(workspaces),
		EditorSave:   commands.NewSaveEditorCommand(workspaces, telemetry),
		EditorCancel: commands.NewCancelEditorCommand(workspaces),
		Save:         commands.NewSaveLayoutCommand(workspaces, telemetry),
		RefreshCmd:   commands.NewRefreshWidgetCommand(service, telemetry),
	}
}

// CreateDashboard runs the create command and returns its user-facing result.
func (e *CommandExecutor) CreateDashboard(ctx context.Context, identity dashboard.Identity) (dashboard.CreateDashboardResult, error) {
	if e.Seed != nil {
		var dash dashboard.Dashboard
		err := e.Seed.Execute(ctx, commands.SeedDashboardInput{Identity: identity, Result: &dash})
		if dash.ID != "" {
			// rejected seeds leave a usable dashboard behind
			return dashboard.NewCreateDashboardResult(dash, nil), nil
		}
		return dashboard.NewCreateDashboardResult(dash, err), err
	}
	var result dashboard.CreateDashboardResult
	err := e.Create.Execute(ctx, commands.CreateDashboardInput{Identity: identity, Result: &result})
	return result, err
}

func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) (dashboard.Widget, error) {
	var widget dashboard.Widget
	input.Result = &widget
	err := e.Add.Execute(ctx, input)
	return widget, err
}

func (e *CommandExecutor) UpdateConfiguration(ctx context.Context, input commands.UpdateConfigurationInput) (bool, error) {
	var updated bool
	input.Updated = &updated
	err := e.Update.Execute(ctx, input)
	return updated, err
}

func (e *CommandExecutor) BeginDrag(ctx context.Context, input commands.BeginDragInput) error {
	return e.DragStart.Execute(ctx, input)
}

func (e *CommandExecutor) CompleteDrag(ctx context.Context, input commands.CompleteDragInput) (bool, error) {
	var moved bool
	input.Moved = &moved
	err := e.DragEnd.Execute(ctx, input)
	return moved, err
}

func (e *CommandExecutor) OpenEditor(ctx context.Context, input commands.OpenEditorInput) (dashboard.EditorView, error) {
	var view dashboard.EditorView
	input.View = &view
	err := e.EditorOpen.Execute(ctx, input)
	return view, err
}

// SaveEditor returns the editor view after the save attempt; on a rejected
// configuration the view is still open.
func (e *CommandExecutor) SaveEditor(ctx context.Context, input commands.SaveEditorInput) (dashboard.EditorView, error) {
	var view dashboard.EditorView
	input.View = &view
	err := e.EditorSave.Execute(ctx, input)
	return view, err
}

func (e *CommandExecutor) CancelEditor(ctx context.Context, input commands.CancelEditorInput) error {
	return e.EditorCancel.Execute(ctx, input)
}

func (e *CommandExecutor) SaveLayout(ctx context.Context, input commands.SaveLayoutInput) ([]dashboard.Widget, error) {
	var saved []dashboard.Widget
	input.Result = &saved
	err := e.Save.Execute(ctx, input)
	return saved, err
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return e.RefreshCmd.Execute(ctx, input)
}
