package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// DashboardInput identifies one of the caller's dashboards.
type DashboardInput struct {
	Identity    dashboard.Identity
	DashboardID string
}

type listService interface {
	ListDashboards(ctx context.Context, identity dashboard.Identity) ([]dashboard.Dashboard, error)
}

// ListDashboardsQuery returns the caller's dashboards, newest first.
type ListDashboardsQuery struct {
	service listService
}

// NewListDashboardsQuery builds the query.
func NewListDashboardsQuery(service listService) *ListDashboardsQuery {
	return &ListDashboardsQuery{service: service}
}

var _ gocommand.Querier[dashboard.Identity, []dashboard.Dashboard] = (*ListDashboardsQuery)(nil)

// Query lists dashboards owned by identity.
func (q *ListDashboardsQuery) Query(ctx context.Context, identity dashboard.Identity) ([]dashboard.Dashboard, error) {
	return q.service.ListDashboards(ctx, identity)
}

type loadService interface {
	LoadDashboard(ctx context.Context, identity dashboard.Identity, dashboardID string) (dashboard.DashboardView, error)
}

// DashboardViewQuery loads a stored dashboard with its widgets.
type DashboardViewQuery struct {
	service loadService
}

// NewDashboardViewQuery builds the query.
func NewDashboardViewQuery(service loadService) *DashboardViewQuery {
	return &DashboardViewQuery{service: service}
}

var _ gocommand.Querier[DashboardInput, dashboard.DashboardView] = (*DashboardViewQuery)(nil)

// Query loads the stored dashboard, ignoring any unsaved workspace edits.
func (q *DashboardViewQuery) Query(ctx context.Context, input DashboardInput) (dashboard.DashboardView, error) {
	return q.service.LoadDashboard(ctx, input.Identity, input.DashboardID)
}
