package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// Target identifies the caller's workspace on one dashboard.
type Target struct {
	Identity    dashboard.Identity `json:"-"`
	DashboardID string             `json:"dashboardId"`
}

type workspaceOpener interface {
	Open(ctx context.Context, identity dashboard.Identity, dashboardID string) (*dashboard.Workspace, error)
}

var errMissingWorkspaces = errors.New("commands: workspace manager is required")

func openWorkspace(ctx context.Context, opener workspaceOpener, target Target) (*dashboard.Workspace, error) {
	if opener == nil {
		return nil, errMissingWorkspaces
	}
	return opener.Open(ctx, target.Identity, target.DashboardID)
}
