package dashboard

import (
	core "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Identity is the authenticated caller.
type Identity = core.Identity

// Dashboard and Widget re-exports.
type (
	Dashboard      = core.Dashboard
	DashboardView  = core.DashboardView
	DashboardStore = core.DashboardStore
	Widget         = core.Widget
	WidgetKind     = core.WidgetKind
	WidgetConfig   = core.WidgetConfig
)

// Supported widget kinds.
const (
	KindKPI       = core.KindKPI
	KindNotes     = core.KindNotes
	KindChart     = core.KindChart
	KindDataTable = core.KindDataTable
)

// WorkspaceManager keeps per-user editing sessions.
type WorkspaceManager = core.WorkspaceManager

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewWorkspaceManager proxies to the internal constructor.
func NewWorkspaceManager(service *Service) *WorkspaceManager {
	return core.NewWorkspaceManager(service)
}

// NewInMemoryStore returns the process-local store.
func NewInMemoryStore() DashboardStore {
	return core.NewInMemoryStore()
}
