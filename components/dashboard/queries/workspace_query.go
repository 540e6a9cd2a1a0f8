package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type workspaceOpener interface {
	Open(ctx context.Context, identity dashboard.Identity, dashboardID string) (*dashboard.Workspace, error)
}

// WorkspaceQuery snapshots the caller's workspace, unsaved edits included.
type WorkspaceQuery struct {
	workspaces workspaceOpener
}

// NewWorkspaceQuery builds the query.
func NewWorkspaceQuery(workspaces workspaceOpener) *WorkspaceQuery {
	return &WorkspaceQuery{workspaces: workspaces}
}

var _ gocommand.Querier[DashboardInput, dashboard.WorkspaceSnapshot] = (*WorkspaceQuery)(nil)

// Query opens the workspace when needed and returns its snapshot.
func (q *WorkspaceQuery) Query(ctx context.Context, input DashboardInput) (dashboard.WorkspaceSnapshot, error) {
	ws, err := q.workspaces.Open(ctx, input.Identity, input.DashboardID)
	if err != nil {
		return dashboard.WorkspaceSnapshot{}, err
	}
	return ws.Snapshot(), nil
}

type paletteSource interface {
	Entries() []dashboard.PaletteEntry
}

// PaletteInput carries no filters; the palette is the same for every caller.
type PaletteInput struct{}

// PaletteQuery lists the widgets a user can add.
type PaletteQuery struct {
	palette paletteSource
}

// NewPaletteQuery builds the query.
func NewPaletteQuery(palette paletteSource) *PaletteQuery {
	return &PaletteQuery{palette: palette}
}

var _ gocommand.Querier[PaletteInput, []dashboard.PaletteEntry] = (*PaletteQuery)(nil)

// Query returns the palette entries in display order.
func (q *PaletteQuery) Query(context.Context, PaletteInput) ([]dashboard.PaletteEntry, error) {
	return q.palette.Entries(), nil
}
